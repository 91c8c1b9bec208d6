package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Title  string `json:"title" validate:"required"`
	Email  string `json:"email,omitempty" validate:"omitempty,email"`
	Rating int    `json:"rating" validate:"min=1,max=5"`
	Hidden string `json:"-"`
}

func TestStruct(t *testing.T) {
	tests := []struct {
		name   string
		in     sample
		failed []string
	}{
		{name: "valid", in: sample{Title: "x", Rating: 3}},
		{name: "missing title", in: sample{Rating: 5}, failed: []string{"title"}},
		{name: "bad email and rating", in: sample{Title: "x", Email: "nope", Rating: 9}, failed: []string{"email", "rating"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(&tt.in)
			if tt.failed == nil {
				require.NoError(t, err)

				return
			}

			fields, ok := Fields(err)
			require.True(t, ok)

			names := make([]string, 0, len(fields))
			for _, f := range fields {
				names = append(names, f.FailedField)
			}

			assert.Equal(t, tt.failed, names)
			assert.Contains(t, err.Error(), "validation failed")
		})
	}
}

func TestFieldsOtherError(t *testing.T) {
	_, ok := Fields(errors.New("db down"))
	assert.False(t, ok)
}
