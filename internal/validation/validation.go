// Package validation holds the field rules every product and message must
// satisfy before a repository writes it.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"shoemart/internal/models"

	"github.com/go-playground/validator/v10"
)

// emailPattern requires one "@" with a local part before it and a domain
// ending in an alphabetic label of two or more letters.
var emailPattern = regexp.MustCompile(`^[^\s@]+@(?:[^\s@.]+\.)+[A-Za-z]{2,}$`)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report fields by their JSON names.
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})

	// Registration errors only happen for empty tags or nil funcs.
	_ = v.RegisterValidation("category", func(fl validator.FieldLevel) bool {
		return models.IsValidCategory(fl.Field().String())
	})
	_ = v.RegisterValidation("contact_email", func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})

	v.RegisterStructValidation(productPriceRule, models.ProductInput{})
	return v
}

func productPriceRule(sl validator.StructLevel) {
	in := sl.Current().Interface().(models.ProductInput)
	switch {
	case in.Price == nil:
		sl.ReportError(in.Price, "price", "Price", "required", "")
	case in.Price.IsNegative():
		sl.ReportError(in.Price, "price", "Price", "gte", "0")
	case !in.Price.Equal(in.Price.Truncate(models.PriceScale)):
		sl.ReportError(in.Price, "price", "Price", "decimals", fmt.Sprint(models.PriceScale))
	case !in.Price.LessThan(models.MaxPrice):
		sl.ReportError(in.Price, "price", "Price", "lt", models.MaxPrice.String())
	}
}

// NormalizeProduct trims surrounding whitespace from every text field.
func NormalizeProduct(in models.ProductInput) models.ProductInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Category = strings.TrimSpace(in.Category)
	in.Image = strings.TrimSpace(in.Image)
	in.Description = strings.TrimSpace(in.Description)
	return in
}

// NormalizeMessage trims every field and lowercases the email address.
func NormalizeMessage(in models.MessageInput) models.MessageInput {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.ToLower(strings.TrimSpace(in.Email))
	in.Phone = strings.TrimSpace(in.Phone)
	in.Topic = strings.TrimSpace(in.Topic)
	in.Message = strings.TrimSpace(in.Message)
	return in
}

// ValidateProduct checks in against the product rules. It returns nil or a
// *models.ValidationError naming every violated field. Callers should
// normalize first; ValidateProduct does not modify its input.
func ValidateProduct(in models.ProductInput) error {
	return toValidationError(validate.Struct(in))
}

// ValidateMessage checks in against the contact message rules.
func ValidateMessage(in models.MessageInput) error {
	return toValidationError(validate.Struct(in))
}

func toValidationError(err error) error {
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("failed to run validation: %w", err)
	}
	violations := make([]models.FieldViolation, 0, len(fieldErrs))
	for _, e := range fieldErrs {
		violations = append(violations, models.FieldViolation{
			Field:  e.Field(),
			Reason: reason(e),
		})
	}
	return &models.ValidationError{Violations: violations}
}

func reason(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return "is required"
	case "max":
		return fmt.Sprintf("cannot exceed %s characters", e.Param())
	case "gte":
		return "cannot be negative"
	case "lt":
		return "must be less than " + e.Param()
	case "decimals":
		return fmt.Sprintf("cannot have more than %s decimal places", e.Param())
	case "category":
		return "must be one of: " + strings.Join(models.Categories, ", ")
	case "contact_email":
		return "must be a valid email address"
	default:
		return fmt.Sprintf("failed on the '%s' rule", e.Tag())
	}
}
