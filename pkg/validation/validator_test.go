package validation

import (
	"testing"

	"github.com/richxcame/driver-console/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type statusInput struct {
	Status string `validate:"required,driver_status"`
}

func TestDriverStatusRule(t *testing.T) {
	tests := []struct {
		name   string
		status string
		valid  bool
	}{
		{"submitted", "submitted", true},
		{"on-review", "on-review", true},
		{"pending", "pending", true},
		{"approved", "approved", true},
		{"rejected", "rejected", true},
		{"pending-payment", "pending-payment", true},
		{"deleted", "deleted", true},
		{"suspended", "suspended", true},
		{"unknown value", "active", false},
		{"empty", "", false},
		{"case sensitive", "Approved", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(statusInput{Status: tt.status})
			if tt.valid {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestValidateStructReturnsAppError(t *testing.T) {
	err := ValidateStruct(statusInput{Status: "nope"})
	require.Error(t, err)

	appErr, ok := err.(*common.AppError)
	require.True(t, ok)
	assert.Equal(t, common.CodeValidation, appErr.ErrorCode)
	assert.Contains(t, appErr.Message, "status")
}
