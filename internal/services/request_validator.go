package services

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"alfredoptarigan/profile-analyzer/internal/models"
)

// RequestValidator rejects analysis requests whose texts are blank. Fields are
// checked in struct order, profile first, and only the first failure is reported.
type RequestValidator interface {
	Validate(req models.AnalysisRequest) error
}

type requestValidator struct {
	validate *validator.Validate
}

// fieldErrors maps struct fields of models.AnalysisRequest to their failure kind.
var fieldErrors = map[string]error{
	"ProfileText":    ErrMissingProfile,
	"JobDescription": ErrMissingJobDescription,
}

func NewRequestValidator() RequestValidator {
	v := validator.New()
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	return &requestValidator{validate: v}
}

// Validate implements RequestValidator.
func (r *requestValidator) Validate(req models.AnalysisRequest) error {
	err := r.validate.Struct(req)
	if err == nil {
		return nil
	}

	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) && len(validationErrs) > 0 {
		if kind, ok := fieldErrors[validationErrs[0].StructField()]; ok {
			return kind
		}
	}
	return err
}
