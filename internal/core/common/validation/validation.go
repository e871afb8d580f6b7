package validation

import (
	"encoding/json"
	"fmt"
	"net/mail"
	"strings"
	"unicode/utf8"

	errors "github.com/frahmantamala/geofence-security/internal"
)

type ValidatorFunc func(interface{}) *errors.AppError

type FieldValidator struct {
	FieldName  string
	Value      interface{}
	Validators []ValidatorFunc
}

type ValidationBuilder struct {
	fields []*FieldValidator
	errors []errors.ValidationError
}

func NewValidator() *ValidationBuilder {
	return &ValidationBuilder{
		fields: make([]*FieldValidator, 0),
		errors: make([]errors.ValidationError, 0),
	}
}

func (v *ValidationBuilder) Field(name string, value interface{}) *FieldValidator {
	fv := &FieldValidator{
		FieldName:  name,
		Value:      value,
		Validators: make([]ValidatorFunc, 0),
	}
	v.fields = append(v.fields, fv)
	return fv
}

// AddError records a failure computed outside the field chains, such as a
// cross-field or uniqueness check.
func (v *ValidationBuilder) AddError(field, message string, code errors.ErrorCode) *ValidationBuilder {
	v.errors = append(v.errors, errors.ValidationError{Field: field, Message: message, Code: string(code)})
	return v
}

func (fv *FieldValidator) fail(message string, code errors.ErrorCode) *errors.AppError {
	return errors.NewValidationFieldError(fv.FieldName, message, code)
}

// stringValue unwraps string and *string values. A nil pointer reports ok=false.
func stringValue(value interface{}) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case *string:
		if v == nil {
			return "", false
		}
		return *v, true
	}
	return "", false
}

func (fv *FieldValidator) Required() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		missing := false
		switch v := value.(type) {
		case nil:
			missing = true
		case string:
			missing = strings.TrimSpace(v) == ""
		case *string:
			missing = v == nil || strings.TrimSpace(*v) == ""
		case int64:
			missing = v == 0
		case *int64:
			missing = v == nil
		case json.RawMessage:
			missing = len(v) == 0
		case []byte:
			missing = len(v) == 0
		case []int64:
			missing = len(v) == 0
		}
		if missing {
			return fv.fail("This field is required.", errors.ErrCodeRequired)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MinLength(min int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := stringValue(value); ok && v != "" && utf8.RuneCountInString(v) < min {
			return fv.fail(fmt.Sprintf("Ensure this field has at least %d characters.", min), errors.ErrCodeTooShort)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) MaxLength(max int) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		if v, ok := stringValue(value); ok && utf8.RuneCountInString(v) > max {
			return fv.fail(fmt.Sprintf("Ensure this field has no more than %d characters.", max), errors.ErrCodeTooLong)
		}
		return nil
	})
	return fv
}

// OneOf restricts a non-empty string to a fixed set of choices.
func (fv *FieldValidator) OneOf(choices ...string) *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := stringValue(value)
		if !ok || v == "" {
			return nil
		}
		for _, c := range choices {
			if v == c {
				return nil
			}
		}
		return fv.fail(fmt.Sprintf("\"%s\" is not a valid choice.", v), errors.ErrCodeInvalidChoice)
	})
	return fv
}

func (fv *FieldValidator) Email() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		v, ok := stringValue(value)
		if !ok || v == "" {
			return nil
		}
		addr, err := mail.ParseAddress(v)
		if err != nil || addr.Address != v || !strings.Contains(v[strings.LastIndex(v, "@")+1:], ".") {
			return fv.fail("Enter a valid email address.", errors.ErrCodeInvalidEmail)
		}
		return nil
	})
	return fv
}

// JSONObject requires the raw value to decode to a JSON object.
func (fv *FieldValidator) JSONObject() *FieldValidator {
	fv.Validators = append(fv.Validators, func(value interface{}) *errors.AppError {
		var raw []byte
		switch v := value.(type) {
		case json.RawMessage:
			raw = v
		case []byte:
			raw = v
		default:
			return nil
		}
		if len(raw) == 0 {
			return nil
		}
		var obj map[string]interface{}
		if err := json.Unmarshal(raw, &obj); err != nil || obj == nil {
			return fv.fail("Value must be a JSON object.", errors.ErrCodeInvalidJSON)
		}
		return nil
	})
	return fv
}

func (fv *FieldValidator) Custom(validator func(interface{}) *errors.AppError) *FieldValidator {
	fv.Validators = append(fv.Validators, validator)
	return fv
}

func (v *ValidationBuilder) Validate() *errors.AppError {
	validationErrors := append([]errors.ValidationError{}, v.errors...)

	for _, field := range v.fields {
		for _, validator := range field.Validators {
			appErr := validator(field.Value)
			if appErr == nil {
				continue
			}
			if details, ok := appErr.Details.(errors.ValidationErrors); ok {
				validationErrors = append(validationErrors, details.Errors...)
				continue
			}
			validationErrors = append(validationErrors, errors.ValidationError{
				Field:   field.FieldName,
				Message: appErr.Message,
				Code:    string(appErr.Code),
			})
		}
	}

	if len(validationErrors) > 0 {
		return errors.NewValidationError("Validation failed", errors.ErrCodeValidationFailed).
			WithDetails(errors.ValidationErrors{Errors: validationErrors})
	}

	return nil
}
