package validation

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"
	"unicode"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
)

// aliases maps request tags onto the domain's enumerations.
var aliases = map[string]string{
	"term":           "oneof=spring summer fall",
	"userrole":       "oneof=admin lecturer student",
	"userstatus":     "oneof=active disabled deleted",
	"semesterstatus": "oneof=active disabled pending",
	"enrollrole":     "oneof=student lecturer teaching_assistant",
	"enrollstatus":   "oneof=active dropped",
	"uuid4":          "uuid",
}

// Init configures the global validator used by Gin's binding.
// Errors use JSON field names.
func Init() {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		Configure(v)
	}
}

// Configure applies the tag name func and aliases to v.
func Configure(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		tag := fld.Tag.Get("json")
		if tag == "" {
			tag = fld.Tag.Get("form")
		}
		name := strings.SplitN(tag, ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	for alias, tags := range aliases {
		v.RegisterAlias(alias, tags)
	}
}

// ToDetails converts validation/binding errors into a map[field]message suitable for API error details.
func ToDetails(err error) map[string]string {
	if err == nil {
		return nil
	}

	var se *json.SyntaxError
	var ute *json.UnmarshalTypeError
	var pe *time.ParseError
	switch {
	case errors.As(err, &se):
		return map[string]string{"payload": "invalid json"}
	case errors.As(err, &ute):
		field := ute.Field
		if field == "" {
			field = "payload"
		}
		return map[string]string{field: "must be " + ute.Type.String()}
	case errors.As(err, &pe):
		return map[string]string{"payload": "invalid time, use RFC3339"}
	}

	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := make(map[string]string, len(verrs))
		for _, fe := range verrs {
			out[fe.Field()] = formatFieldError(fe)
		}
		return out
	}
	return map[string]string{"payload": "invalid payload"}
}

func formatFieldError(fe validator.FieldError) string {
	param := fe.Param()
	switch fe.Tag() {
	case "required":
		return "is required"
	case "email":
		return "must be a valid email address"
	case "uuid", "uuid4":
		return "must be a valid UUID"
	case "url", "http_url":
		return "must be a valid URL"
	case "min":
		return lengthOrValue(fe, "at least", param)
	case "max":
		return lengthOrValue(fe, "at most", param)
	case "len":
		return lengthOrValue(fe, "exactly", param)
	case "gt":
		return "must be greater than " + param
	case "gte":
		return "must be greater than or equal to " + param
	case "lt":
		return "must be less than " + param
	case "lte":
		return "must be less than or equal to " + param
	case "gtfield":
		return "must be after " + snake(param)
	case "oneof":
		return "must be one of: " + strings.ReplaceAll(param, " ", ", ")
	case "dive":
		return "contains an invalid item"
	}
	if tags, ok := aliases[fe.Tag()]; ok && strings.HasPrefix(tags, "oneof=") {
		return "must be one of: " + strings.ReplaceAll(strings.TrimPrefix(tags, "oneof="), " ", ", ")
	}
	return fmt.Sprintf("failed on %s validation", fe.Tag())
}

func lengthOrValue(fe validator.FieldError, qualifier, param string) string {
	switch fe.Kind() {
	case reflect.String:
		return fmt.Sprintf("must be %s %s characters long", qualifier, param)
	case reflect.Slice, reflect.Array, reflect.Map:
		return fmt.Sprintf("must contain %s %s items", qualifier, param)
	default:
		return fmt.Sprintf("must be %s %s", qualifier, param)
	}
}

func snake(s string) string {
	var b strings.Builder
	for i, r := range s {
		if unicode.IsUpper(r) {
			if i > 0 {
				b.WriteByte('_')
			}
			r = unicode.ToLower(r)
		}
		b.WriteRune(r)
	}
	return b.String()
}
