package config

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/idelchi/gogen/pkg/validator"

	"github.com/idelchi/file2html/pkg/pathmatch"
)

// newValidator builds a validator with the custom rules used by Config.
func newValidator() (*validator.Validator, error) {
	validate := validator.NewValidator()

	if err := registerGlob(validate); err != nil {
		return nil, err
	}

	return validate, nil
}

// registerGlob adds a custom validator ensuring a field holds a compilable
// glob pattern. It registers both the validation logic and a human-readable
// error message.
func registerGlob(validate *validator.Validator) error {
	if err := validate.RegisterValidationAndTranslation(
		"glob",
		validateGlob,
		"{0} is not a valid glob pattern",
	); err != nil {
		return fmt.Errorf("registering glob validation: %w", err)
	}

	validate.Validator().RegisterTagNameFunc(func(fld reflect.StructField) string {
		const splitSize = 2

		name := strings.SplitN(fld.Tag.Get("label"), ",", splitSize)[0]
		if name == "-" {
			return fld.Name
		}

		if name != "" {
			return name
		}

		return fld.Name
	})

	return nil
}

// validateGlob checks that a string field compiles as a glob pattern.
func validateGlob(fl validator.FieldLevel) bool {
	field := fl.Field()

	if field.Kind() != reflect.String {
		return true
	}

	_, err := pathmatch.NewMatcher([]string{field.String()})

	return err == nil
}
