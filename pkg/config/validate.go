package config

import (
	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/precommit/pkg/errors"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("pkgname", func(fl validator.FieldLevel) bool {
		return errors.ValidatePackageName(fl.Field().String()) == nil
	})
	_ = v.RegisterValidation("relpath", func(fl validator.FieldLevel) bool {
		return errors.ValidatePath(fl.Field().String()) == nil
	})
	return v
}
