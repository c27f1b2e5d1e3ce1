package transport

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/Rogue-Bear-Innovations/bookmarker/internal/models"
	"github.com/Rogue-Bear-Innovations/bookmarker/internal/service"
)

const (
	userLocalsKey = "user"
	bearerPrefix  = "Bearer "
	censored      = "$censored"
)

func (s *HTTPServer) AuthMiddleware(c *fiber.Ctx) error {
	header := c.Get(fiber.HeaderAuthorization)
	if !strings.HasPrefix(header, bearerPrefix) {
		return service.ErrUnauthorized
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return service.ErrUnauthorized
	}

	user, err := s.auth.Authenticate(c.UserContext(), token)
	if err != nil {
		return err
	}

	c.Locals(userLocalsKey, user)
	return c.Next()
}

func GetUserFromContext(c *fiber.Ctx) (*models.User, error) {
	user, ok := c.Locals(userLocalsKey).(*models.User)
	if !ok || user == nil {
		return nil, errors.New("no user found in context")
	}
	return user, nil
}

// RequestLogger logs one line per request. Chain errors are rendered here so the
// logged status matches the response.
func RequestLogger(l *zap.SugaredLogger) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if chainErr := c.Next(); chainErr != nil {
			if err := c.App().ErrorHandler(c, chainErr); err != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		fields := []interface{}{
			"method", c.Method(),
			"path", c.Path(),
			"status", c.Response().StatusCode(),
			"latency", time.Since(start),
		}
		if rid, ok := c.Locals("requestid").(string); ok {
			fields = append(fields, "request_id", rid)
		}
		if body := c.Body(); len(body) != 0 {
			fields = append(fields, "body", string(censorBody(body)))
		}

		l.Infow("request", fields...)
		return nil
	}
}

func isSecretKey(k string) bool {
	k = strings.ToLower(k)
	switch {
	case strings.Contains(k, "password"), strings.Contains(k, "token"):
		return true
	case k == "access", k == "refresh":
		return true
	}
	return false
}

// censorBody replaces every password or token value in a JSON body. Bodies that are not
// JSON objects are dropped.
func censorBody(b []byte) []byte {
	var body map[string]interface{}
	if err := json.Unmarshal(b, &body); err != nil {
		return nil
	}

	censorMap(body)

	out, err := json.Marshal(body)
	if err != nil {
		return nil
	}
	return out
}

func censorMap(m map[string]interface{}) {
	for k, v := range m {
		if isSecretKey(k) {
			m[k] = censored
			continue
		}
		if nested, ok := v.(map[string]interface{}); ok {
			censorMap(nested)
		}
	}
}
