package validation

import (
	"testing"

	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/require"
)

type usernameForm struct {
	Username string `binding:"nospaces"`
}

func TestNoSpaces(t *testing.T) {
	Initialize()
	Initialize()

	v, ok := binding.Validator.Engine().(*validator.Validate)
	require.True(t, ok)

	tests := []struct {
		name  string
		value string
		valid bool
	}{
		{name: "Plain", value: "alice", valid: true},
		{name: "Inner space", value: "alice smith", valid: false},
		{name: "Tab", value: "alice\t", valid: false},
		{name: "Blank", value: "   ", valid: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Struct(usernameForm{Username: tt.value})
			if tt.valid {
				require.NoError(t, err)
			} else {
				require.Error(t, err)
			}
		})
	}
}
