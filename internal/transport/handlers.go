package transport

import (
	"github.com/gofiber/fiber/v2"

	"github.com/Rogue-Bear-Innovations/bookmarker/internal/models"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/service"
)

func (s *HTTPServer) Signup(c *fiber.Ctx) error {
	req := models.SignupReq{}
	if err := s.BindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := s.auth.Signup(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(models.SignupResp{User: user})
}

func (s *HTTPServer) Signin(c *fiber.Ctx) error {
	req := models.SigninReq{}
	if err := s.BindAndValidate(c, &req); err != nil {
		return err
	}

	session, err := s.auth.Signin(c.UserContext(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusOK).JSON(session)
}

func (s *HTTPServer) Refresh(c *fiber.Ctx) error {
	req := models.RefreshReq{}
	if err := s.BindAndValidate(c, &req); err != nil {
		return err
	}

	tokens, err := s.auth.Refresh(c.UserContext(), req.RefreshToken)
	if err != nil {
		return err
	}

	return c.JSON(models.RefreshResp{Tokens: *tokens})
}

func (s *HTTPServer) GetMe(c *fiber.Ctx) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	me, err := s.users.Me(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(me)
}

func (s *HTTPServer) EditMe(c *fiber.Ctx) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := models.EditUserReq{}
	if err := s.BindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := s.users.EditUser(c.UserContext(), user.ID, service.UserPatch{
		Email:     req.Email,
		FirstName: req.FirstName,
		LastName:  req.LastName,
	})
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (s *HTTPServer) UpdatePassword(c *fiber.Ctx) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := models.UpdatePasswordReq{}
	if err := s.BindAndValidate(c, &req); err != nil {
		return err
	}

	updated, err := s.auth.UpdatePassword(c.UserContext(), user.ID, req.OldPassword, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(updated)
}

func (s *HTTPServer) BookmarkList(c *fiber.Ctx) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	bookmarks, err := s.bookmarks.ListOwned(c.UserContext(), user.ID)
	if err != nil {
		return err
	}

	return c.JSON(bookmarks)
}

func (s *HTTPServer) BookmarkGet(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	bookmark, err := s.bookmarks.FetchOwned(c.UserContext(), user.ID, id)
	if err != nil {
		return err
	}

	return c.JSON(bookmark)
}

func (s *HTTPServer) BookmarkCreate(c *fiber.Ctx) error {
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := models.BookmarkCreateReq{}
	if err := s.BindAndValidate(c, &req); err != nil {
		return err
	}

	bookmark, err := s.bookmarks.CreateOwned(c.UserContext(), user.ID, service.CreateBookmark{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	return c.Status(fiber.StatusCreated).JSON(bookmark)
}

func (s *HTTPServer) BookmarkUpdate(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	req := models.BookmarkUpdateReq{}
	if err := s.BindAndValidate(c, &req); err != nil {
		return err
	}

	bookmark, err := s.bookmarks.UpdateOwned(c.UserContext(), user.ID, id, service.BookmarkPatch{
		Title:       req.Title,
		URL:         req.URL,
		Description: req.Description,
	})
	if err != nil {
		return err
	}

	return c.JSON(bookmark)
}

func (s *HTTPServer) BookmarkDelete(c *fiber.Ctx) error {
	id, err := GetAndParseParam(c, "id")
	if err != nil {
		return err
	}
	user, err := GetUserFromContext(c)
	if err != nil {
		return err
	}

	if err := s.bookmarks.DeleteOwned(c.UserContext(), user.ID, id); err != nil {
		return err
	}

	return c.SendStatus(fiber.StatusNoContent)
}
