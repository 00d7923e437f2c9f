// Package validation provides custom validators for the application
package validation

import (
	"strings"
	"sync"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

var once sync.Once

// Initialize registers all custom validators with gin's binding engine. Safe to call repeatedly.
func Initialize() {
	once.Do(func() {
		if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
			if err := v.RegisterValidation("nospaces", validateNoSpaces); err != nil {
				panic(err)
			}
		}
	})
}

// validateNoSpaces checks that a string is non-blank and contains no whitespace
func validateNoSpaces(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	return value != "" && strings.IndexFunc(value, unicode.IsSpace) == -1
}
