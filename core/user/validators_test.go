package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Hussainrokeriya/champweb-backend/core"
)

func Test_checkPassword(t *testing.T) {
	tests := []struct {
		name       string
		pwd        string
		attrs      []string
		wantFailed []string
	}{
		{
			name: "valid password",
			pwd:  "v3ryS3cr3t!",
		},
		{
			name:       "too short",
			pwd:        "short1!",
			wantFailed: []string{pwdMinLenTag},
		},
		{
			name:       "contains whitespace",
			pwd:        "spaced out1!",
			wantFailed: []string{pwdNoSpaceTag},
		},
		{
			name:       "entirely numeric",
			pwd:        "123456789",
			wantFailed: []string{pwdNotAllNumTag},
		},
		{
			name:       "too similar to email",
			pwd:        "jane.doe@test.cm",
			attrs:      []string{"Jane Doe", "jane.doe@test.cm"},
			wantFailed: []string{pwdAttrSimTag},
		},
		{
			name:       "short and numeric",
			pwd:        "1234",
			wantFailed: []string{pwdMinLenTag, pwdNotAllNumTag},
		},
		{
			name:  "empty attrs are skipped",
			pwd:   "v3ryS3cr3t!",
			attrs: []string{"", ""},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wantFailed, checkPassword(tt.pwd, tt.attrs...))
		})
	}
}

func TestValidatePassword(t *testing.T) {
	require.NoError(t, ValidatePassword("v3ryS3cr3t!", "Jane Doe", "jane.doe@test.cm"))

	err := ValidatePassword("1234", "Jane Doe")
	require.Error(t, err)
	vErr, ok := err.(*core.ValidationError)
	require.True(t, ok)
	require.Len(t, vErr.Fields, 2)
	assert.Equal(t, "password", vErr.Fields[0].Field)
	assert.Equal(t, pwdMinLenText, vErr.Fields[0].Error)
	assert.Equal(t, pwdNotAllNumText, vErr.Fields[1].Error)
}
