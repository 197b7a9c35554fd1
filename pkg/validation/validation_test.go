package validation

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type linkForm struct {
	Website string `json:"website" validate:"omitempty,loose_url"`
}

type entryForm struct {
	Title string `json:"title" validate:"required"`
	From  string `json:"from" validate:"required,valid_date"`
	To    string `json:"to" validate:"omitempty,valid_date"`
}

type handleForm struct {
	Handle string `json:"handle" validate:"required,min=2,max=40"`
}

func TestLooseURL(t *testing.T) {
	v := New()

	valid := []string{
		"example.com",
		"www.example.com/path?q=1",
		"https://twitter.com/jdoe",
		"http://sub.domain.co.uk",
		"ftp://files.example.org",
	}
	for _, s := range valid {
		assert.NoError(t, v.Struct(linkForm{Website: s}), s)
	}

	invalid := []string{
		"not a url",
		"localhost",
		"example.c",
		"javascript://example.com",
		"http://.com",
	}
	for _, s := range invalid {
		assert.Error(t, v.Struct(linkForm{Website: s}), s)
	}
}

func TestParseDate(t *testing.T) {
	d, err := ParseDate("2020-03-15")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 3, 15, 0, 0, 0, 0, time.UTC), d)

	d, err = ParseDate("2020-03-15T10:00:00+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2020, 3, 15, 8, 0, 0, 0, time.UTC), d)

	_, err = ParseDate("15/03/2020")
	assert.Error(t, err)
}

func TestFieldErrors(t *testing.T) {
	v := New()

	t.Run("Should use json names and configured messages", func(t *testing.T) {
		errs := FieldErrors(v.Struct(entryForm{To: "yesterday"}))
		assert.Equal(t, map[string]string{
			"title": "Job title field is required",
			"from":  "From date field is required",
			"to":    "To date is not a valid date",
		}, errs)
	})

	t.Run("Should share one message for both handle bounds", func(t *testing.T) {
		short := FieldErrors(v.Struct(handleForm{Handle: "a"}))
		long := FieldErrors(v.Struct(handleForm{Handle: "abcdefghijklmnopqrstuvwxyzabcdefghijklmno"}))
		assert.Equal(t, "Handle needs to be between 2 and 40 characters", short["handle"])
		assert.Equal(t, short, long)
	})

	t.Run("Should report invalid links", func(t *testing.T) {
		errs := FieldErrors(v.Struct(linkForm{Website: "nope"}))
		assert.Equal(t, map[string]string{"website": "Not a valid URL"}, errs)
	})

	t.Run("Should pass through other errors", func(t *testing.T) {
		assert.Nil(t, FieldErrors(nil))
		assert.Equal(t, map[string]string{"error": "boom"}, FieldErrors(errors.New("boom")))
	})
}
