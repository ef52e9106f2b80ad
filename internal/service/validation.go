package service

import (
	"errors"
	"reflect"
	"slices"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/microcosm-cc/bluemonday"

	apperrors "agridynamic/internal/errors"
)

var (
	validate = newValidator()
	richText = bluemonday.UGCPolicy()
)

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return v
}

// checkEntity validates entity against its model rules. Struct fields listed
// in skip are resolved elsewhere and ignored here.
func checkEntity(entity any, skip ...string) error {
	err := validate.Struct(entity)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var missing, invalid []string
	for _, fe := range verrs {
		if slices.Contains(skip, fe.StructField()) {
			continue
		}
		if fe.Tag() == "required" {
			missing = append(missing, fe.Field())
		} else {
			invalid = append(invalid, fe.Field())
		}
	}

	switch {
	case len(missing) > 0:
		return apperrors.Validation(apperrors.MissingFieldsMessage(missing), append(missing, invalid...)...)
	case len(invalid) > 0:
		return apperrors.Validation("Please provide valid values for: "+strings.Join(invalid, ", ")+".", invalid...)
	}
	return nil
}

func parseID(resource, raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, apperrors.InvalidIdentifier(resource)
	}
	return id, nil
}

// sanitizeRich strips unsafe markup from user supplied rich text.
func sanitizeRich(s string) string {
	return strings.TrimSpace(richText.Sanitize(s))
}

func normalizeEmail(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// setString assigns *src to dst when the field was supplied.
func setString(dst *string, src *string, transform func(string) string) {
	if src == nil {
		return
	}
	if transform != nil {
		*dst = transform(*src)
		return
	}
	*dst = *src
}

// ValidateStruct checks v against its validate tags. Offending fields are
// reported by their JSON names.
func ValidateStruct(v any) error {
	return checkEntity(v)
}
