package roster

import (
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"

	"github.com/trezcool/shule/core"
)

var (
	// custom validation tags & texts
	gradeLevelTag  = "gradelevel"
	gradeLevelText = "must be a valid grade level"

	staffRoleTag  = "staffrole"
	staffRoleText = "must be a valid staff role"
)

// InitValidators registers the roster-specific validators.
func InitValidators(validate *validator.Validate, translator ut.Translator) {
	_ = validate.RegisterValidation(gradeLevelTag, gradeLevelValidation)
	core.RegisterCustomTranslation(validate, translator, gradeLevelTag, gradeLevelText)

	_ = validate.RegisterValidation(staffRoleTag, staffRoleValidation)
	core.RegisterCustomTranslation(validate, translator, staffRoleTag, staffRoleText)
}

// gradeLevelValidation only allows grades in the canonical sequence.
func gradeLevelValidation(fl validator.FieldLevel) bool {
	return GradeLevel(fl.Field().String()).IsValid()
}

// staffRoleValidation only allows known staff roles.
func staffRoleValidation(fl validator.FieldLevel) bool {
	return Role(fl.Field().String()).IsValid()
}
