package transport

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/pkg/errors"
)

type Validator struct {
	validator *validator.Validate
}

func NewValidator() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &Validator{validator: v}
}

func (cv *Validator) Validate(i interface{}) error {
	err := cv.validator.Struct(i)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return errors.Wrap(err, "validate")
	}

	fields := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		fields = append(fields, fe.Field())
	}
	return &ValidationError{msg: "invalid fields: " + strings.Join(fields, ", ")}
}

func (s *HTTPServer) BindAndValidate(c *fiber.Ctx, v interface{}) error {
	if err := c.BodyParser(v); err != nil {
		return &ValidationError{msg: "invalid request body"}
	}
	return s.validator.Validate(v)
}

func GetAndParseParam(c *fiber.Ctx, name string) (uint64, error) {
	v := c.Params(name)
	if v == "" {
		return 0, &ValidationError{msg: "invalid path param '" + name + "'"}
	}
	vv, err := strconv.ParseUint(v, 10, 64)
	if err != nil {
		return 0, &ValidationError{msg: "invalid path param '" + name + "'"}
	}
	return vv, nil
}
