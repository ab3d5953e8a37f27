package dispatch

import (
	"fmt"
	"sort"
	"strings"

	"github.com/frahmantamala/hr-assistant/internal"
	"github.com/frahmantamala/hr-assistant/internal/leave"
	"github.com/getkin/kin-openapi/openapi3"
)

// noParameters accepts only the empty object.
func noParameters() *openapi3.Schema {
	return openapi3.NewObjectSchema().WithoutAdditionalProperties()
}

func dateParameter(description string) *openapi3.Schema {
	s := openapi3.NewStringSchema().WithFormat("date")
	s.Description = description
	return s
}

func requestLeaveParameters() *openapi3.Schema {
	reason := openapi3.NewStringSchema().WithMaxLength(leave.MaxReasonLength).WithNullable()
	reason.Description = fmt.Sprintf("Free text; defaults to %q.", leave.DefaultReason)

	s := openapi3.NewObjectSchema().
		WithProperty("start_date", dateParameter("First day of leave, YYYY-MM-DD.")).
		WithProperty("end_date", dateParameter("Last day of leave, inclusive, YYYY-MM-DD.")).
		WithProperty("reason", reason).
		WithRequired([]string{"start_date", "end_date"}).
		WithoutAdditionalProperties()
	return s
}

func employeesOnLeaveParameters() *openapi3.Schema {
	date := dateParameter("Day to report on, YYYY-MM-DD. Defaults to today.").WithNullable()
	return openapi3.NewObjectSchema().
		WithProperty("date", date).
		WithoutAdditionalProperties()
}

// checkArguments validates args against schema and reports every violation
// as one argument error.
func checkArguments(schema *openapi3.Schema, args Arguments) error {
	if args == nil {
		args = Arguments{}
	}
	err := schema.VisitJSON(map[string]any(args), openapi3.MultiErrors())
	if err == nil {
		return nil
	}

	var fieldErrs []internal.ValidationError
	collectSchemaErrors(err, &fieldErrs)
	sort.SliceStable(fieldErrs, func(i, j int) bool { return fieldErrs[i].Field < fieldErrs[j].Field })
	return internal.NewArgumentFieldErrors(fieldErrs...).WithCause(err)
}

func collectSchemaErrors(err error, out *[]internal.ValidationError) {
	switch e := err.(type) {
	case openapi3.MultiError:
		for _, inner := range e {
			collectSchemaErrors(inner, out)
		}
	case *openapi3.SchemaError:
		*out = append(*out, fieldError(e))
	default:
		*out = append(*out, internal.ValidationError{
			Field:   "arguments",
			Message: err.Error(),
			Code:    string(internal.ErrCodeValidationFailed),
		})
	}
}

func fieldError(e *openapi3.SchemaError) internal.ValidationError {
	field := "arguments"
	if path := e.JSONPointer(); len(path) > 0 {
		field = strings.Join(path, ".")
	}

	switch e.SchemaField {
	case "required":
		return internal.ValidationError{Field: field, Message: field + " is required", Code: string(internal.ErrCodeMissingArgument)}
	case "properties":
		var name string
		if _, err := fmt.Sscanf(e.Reason, "property %q is unsupported", &name); err == nil {
			field = name
		}
		return internal.ValidationError{Field: field, Message: "unknown argument " + field, Code: string(internal.ErrCodeUnknownArgument)}
	case "type", "nullable":
		expected := "value"
		if e.Schema != nil && e.Schema.Type != nil {
			expected = strings.Join(e.Schema.Type.Slice(), " or ")
		}
		return internal.ValidationError{Field: field, Message: field + " must be a " + expected, Code: string(internal.ErrCodeInvalidType)}
	case "format", "pattern":
		return internal.ValidationError{Field: field, Message: field + " must be a calendar date in YYYY-MM-DD format", Code: string(internal.ErrCodeInvalidDate)}
	case "maxLength":
		message := field + " is too long"
		if e.Schema != nil && e.Schema.MaxLength != nil {
			message = fmt.Sprintf("%s must be at most %d characters", field, *e.Schema.MaxLength)
		}
		return internal.ValidationError{Field: field, Message: message, Code: string(internal.ErrCodeTooLong)}
	}
	return internal.ValidationError{Field: field, Message: e.Reason, Code: string(internal.ErrCodeValidationFailed)}
}
