package version

import (
	"testing"

	"github.com/rxtech-lab/argo-quant/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCheckConstraint(t *testing.T) {
	tests := []struct {
		name          string
		engineVersion string
		constraint    string
		expectCode    errors.ErrorCode
		errorContains string
	}{
		{
			name:          "empty constraint",
			engineVersion: "1.2.0",
			constraint:    "",
		},
		{
			name:          "lower bound satisfied",
			engineVersion: "1.2.0",
			constraint:    ">=1.0.0",
		},
		{
			name:          "tilde range",
			engineVersion: "1.2.5",
			constraint:    "~1.2",
		},
		{
			name:          "v prefix on engine",
			engineVersion: "v1.2.0",
			constraint:    "^1.0.0",
		},
		{
			name:          "engine is main",
			engineVersion: "main",
			constraint:    ">=9.0.0",
		},
		{
			name:          "major version differs",
			engineVersion: "2.0.0",
			constraint:    "^1.0.0",
			expectCode:    errors.ErrCodeVersionMismatch,
			errorContains: "version mismatch",
		},
		{
			name:          "upper bound exceeded",
			engineVersion: "1.5.0",
			constraint:    "<1.5.0",
			expectCode:    errors.ErrCodeVersionMismatch,
			errorContains: "version mismatch",
		},
		{
			name:          "invalid engine version",
			engineVersion: "not-a-version",
			constraint:    ">=1.0.0",
			expectCode:    errors.ErrCodeInvalidVersion,
			errorContains: "invalid engine version",
		},
		{
			name:          "invalid constraint",
			engineVersion: "1.0.0",
			constraint:    "abc",
			expectCode:    errors.ErrCodeInvalidVersion,
			errorContains: "invalid engine version constraint",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := CheckConstraint(tt.engineVersion, tt.constraint)

			if tt.expectCode == 0 {
				require.NoError(t, err)
				return
			}

			require.Error(t, err)
			assert.True(t, errors.HasCode(err, tt.expectCode))
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}

func TestGetVersion(t *testing.T) {
	v := GetVersion()
	assert.Equal(t, Version, v)
}
