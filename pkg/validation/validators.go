package validation

import (
	"net/url"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayouts are the accepted spellings of from/to dates, tried in order.
var DateLayouts = []string{
	"2006-01-02",
	time.RFC3339,
}

var urlSchemes = map[string]bool{"http": true, "https": true, "ftp": true}

// New returns a validator with the custom rules registered.
func New() *validator.Validate {
	v := validator.New()
	RegisterValidators(v)
	return v
}

// RegisterValidators registers custom validators to the validator instance
// and reports fields under their json names.
func RegisterValidators(v *validator.Validate) {
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	_ = v.RegisterValidation("loose_url", LooseURL)
	_ = v.RegisterValidation("valid_date", ValidDate)
}

// LooseURL accepts web addresses with or without a scheme ("example.com",
// "https://twitter.com/me"). The host must carry a top level domain.
func LooseURL(fl validator.FieldLevel) bool {
	val := strings.TrimSpace(fl.Field().String())
	if val == "" {
		return true
	}
	if strings.ContainsAny(val, " \t\n") {
		return false
	}
	if !strings.Contains(val, "://") {
		val = "http://" + val
	}
	u, err := url.Parse(val)
	if err != nil || !urlSchemes[strings.ToLower(u.Scheme)] {
		return false
	}
	host := u.Hostname()
	dot := strings.LastIndex(host, ".")
	if dot <= 0 || len(host)-dot-1 < 2 {
		return false
	}
	return true
}

// ValidDate checks that a string parses with one of DateLayouts.
func ValidDate(fl validator.FieldLevel) bool {
	val := fl.Field().String()
	if val == "" {
		return true
	}
	_, err := ParseDate(val)
	return err == nil
}

// ParseDate parses s with the first matching layout in DateLayouts.
func ParseDate(s string) (time.Time, error) {
	var err error
	for _, layout := range DateLayouts {
		var t time.Time
		if t, err = time.Parse(layout, s); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, err
}
