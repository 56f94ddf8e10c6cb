package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mobileSubject struct {
	Mobile string `validate:"mobile"`
}

func TestMobileTag(t *testing.T) {
	tests := []struct {
		name   string
		mobile string
		valid  bool
	}{
		{name: "valid starting with 9", mobile: "9876543210", valid: true},
		{name: "valid starting with 6", mobile: "6123456789", valid: true},
		{name: "starts below 6", mobile: "5876543210", valid: false},
		{name: "too short", mobile: "987654321", valid: false},
		{name: "too long", mobile: "98765432100", valid: false},
		{name: "non-numeric", mobile: "98765abcde", valid: false},
		{name: "empty", mobile: "", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Validate(mobileSubject{Mobile: tt.mobile})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidationErrorFields(t *testing.T) {
	type subject struct {
		Email string `validate:"required,email"`
		Name  string `validate:"required,min=2"`
	}

	err := Validate(subject{Email: "not-an-email", Name: "x"})
	require.Error(t, err)

	var valErr *ValidationError
	require.ErrorAs(t, err, &valErr)

	fields := valErr.Fields()
	assert.Equal(t, "must be a valid email address", fields["Email"])
	assert.Equal(t, "must be at least 2 characters", fields["Name"])
}
