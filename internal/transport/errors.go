package transport

import (
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/bookmarker/internal/models"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/service"
)

// ValidationError is returned when a request fails shape validation, before any
// service is called.
type ValidationError struct {
	msg string
}

func (e *ValidationError) Error() string {
	return e.msg
}

func ErrorHandler(l *zap.SugaredLogger) fiber.ErrorHandler {
	return func(c *fiber.Ctx, err error) error {
		code, msg := statusFor(err)
		if code >= fiber.StatusInternalServerError {
			l.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
		}
		return c.Status(code).JSON(models.ErrorResp{Error: msg})
	}
}

func statusFor(err error) (int, string) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return fiber.StatusBadRequest, ve.Error()
	}

	switch {
	case errors.Is(err, service.ErrMissingOldPassword):
		return fiber.StatusBadRequest, service.ErrMissingOldPassword.Error()
	case errors.Is(err, service.ErrUnauthorized):
		return fiber.StatusUnauthorized, "unauthorized"
	case errors.Is(err, service.ErrDuplicateEmail):
		return fiber.StatusForbidden, "email already exists"
	case errors.Is(err, service.ErrInvalidCredentials):
		return fiber.StatusForbidden, "invalid credentials"
	case errors.Is(err, service.ErrNotFound):
		return fiber.StatusNotFound, "not found"
	}

	var fe *fiber.Error
	if errors.As(err, &fe) && fe.Code < fiber.StatusInternalServerError {
		return fe.Code, fe.Message
	}

	return fiber.StatusInternalServerError, "internal server error"
}
