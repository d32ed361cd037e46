package api

import (
	"reflect"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"nagarik-sewa/internal/catalog"
	"nagarik-sewa/internal/models"
)

// registerValidators adds the domain tags used in request bindings:
// servicetype (known catalog service) and priority (message priority).
// Field errors report the json name of the field.
func registerValidators(services func(string) (catalog.ServiceEntry, bool)) error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return nil
	}
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("servicetype", func(fl validator.FieldLevel) bool {
		_, known := services(fl.Field().String())
		return known
	}); err != nil {
		return err
	}
	return v.RegisterValidation("priority", func(fl validator.FieldLevel) bool {
		return models.Priority(fl.Field().String()).IsValid()
	})
}
