// Package validation holds the custom binding rules used by request DTOs
package validation

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"

	"github.com/yigit/iams/internal/app/models"
)

// HHMMPattern matches a 24h clock time such as 09:30
var HHMMPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)

var rules = map[string]validator.Func{
	"rolename": func(fl validator.FieldLevel) bool {
		return models.RoleName(fl.Field().String()).Valid()
	},
	"hhmm": func(fl validator.FieldLevel) bool {
		return HHMMPattern.MatchString(fl.Field().String())
	},
	"weekday": func(fl validator.FieldLevel) bool {
		return models.Weekday(fl.Field().String()).Valid()
	},
}

// jsonName reports fields by their JSON key
func jsonName(f reflect.StructField) string {
	name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	if name == "" {
		return f.Name
	}
	return name
}

// Register adds the custom rules to v and names fields after their JSON keys
func Register(v *validator.Validate) error {
	v.RegisterTagNameFunc(jsonName)
	for tag, fn := range rules {
		if err := v.RegisterValidation(tag, fn); err != nil {
			return fmt.Errorf("failed to register %q rule: %w", tag, err)
		}
	}
	return nil
}

// RegisterWithGin installs the rules on gin's default validator engine
func RegisterWithGin() error {
	v, ok := binding.Validator.Engine().(*validator.Validate)
	if !ok {
		return fmt.Errorf("unexpected validator engine %T", binding.Validator.Engine())
	}
	return Register(v)
}
