package validation

import (
	"errors"
	"fmt"

	"github.com/go-playground/validator/v10"
)

const invalidURL = "Not a valid URL"

// FieldMessages maps json field names and validator tags to the message
// returned for that field. "*" is the fallback for any tag.
var FieldMessages = map[string]map[string]string{
	// Profile
	"handle": {
		"required": "Profile handle is required",
		"min":      "Handle needs to be between 2 and 40 characters",
		"max":      "Handle needs to be between 2 and 40 characters",
	},
	"status":    {"required": "Status field is required"},
	"skills":    {"required": "Skills field is required"},
	"website":   {"*": invalidURL},
	"youtube":   {"*": invalidURL},
	"twitter":   {"*": invalidURL},
	"facebook":  {"*": invalidURL},
	"linkedin":  {"*": invalidURL},
	"instagram": {"*": invalidURL},

	// Experience
	"title":   {"required": "Job title field is required"},
	"company": {"required": "Company field is required"},

	// Education
	"school":       {"required": "School field is required"},
	"degree":       {"required": "Degree field is required"},
	"fieldofstudy": {"required": "Field of study field is required"},

	// Shared
	"from": {
		"required":   "From date field is required",
		"valid_date": "From date is not a valid date",
	},
	"to": {"valid_date": "To date is not a valid date"},
}

// FieldErrors converts a validator error into a field -> message map.
// Errors that are not validation errors come back under "error".
func FieldErrors(err error) map[string]string {
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return map[string]string{"error": err.Error()}
	}

	out := make(map[string]string, len(validationErrors))
	for _, e := range validationErrors {
		field := e.Field()
		if _, seen := out[field]; seen {
			continue
		}
		out[field] = message(field, e.Tag(), e.Param())
	}
	return out
}

func message(field, tag, param string) string {
	if msgs, ok := FieldMessages[field]; ok {
		if msg, ok := msgs[tag]; ok {
			return msg
		}
		if msg, ok := msgs["*"]; ok {
			return msg
		}
	}

	switch tag {
	case "required":
		return fmt.Sprintf("%s field is required", field)
	case "min":
		return fmt.Sprintf("%s must be at least %s characters", field, param)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, param)
	case "loose_url":
		return invalidURL
	case "valid_date":
		return fmt.Sprintf("%s is not a valid date", field)
	default:
		return fmt.Sprintf("%s is invalid (%s)", field, tag)
	}
}
