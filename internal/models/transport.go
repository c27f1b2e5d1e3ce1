package models

type SignupReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=24"`
}

// SigninReq checks only presence of the password. Length rules belong to signup; a
// mismatched password of any length fails as invalid credentials.
type SigninReq struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshReq struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type SignupResp struct {
	User *User `json:"user"`
}

type RefreshResp struct {
	Tokens TokenPair `json:"tokens"`
}

type EditUserReq struct {
	Email     *string `json:"email" validate:"omitempty,email"`
	FirstName *string `json:"firstName"`
	LastName  *string `json:"lastName"`
}

// UpdatePasswordReq leaves old_password optional here; a missing value is rejected by
// the auth service with its own error.
type UpdatePasswordReq struct {
	Password    string `json:"password" validate:"required,min=8,max=24"`
	OldPassword string `json:"old_password" validate:"omitempty,min=8,max=24"`
}

type BookmarkCreateReq struct {
	Title       string  `json:"title" validate:"required"`
	URL         string  `json:"url" validate:"required,url"`
	Description *string `json:"description"`
}

type BookmarkUpdateReq struct {
	Title       *string `json:"title" validate:"omitempty,min=1"`
	URL         *string `json:"url" validate:"omitempty,url"`
	Description *string `json:"description"`
}

type ErrorResp struct {
	Error string `json:"error"`
}
