package auth_test

import (
	"testing"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auth "github.com/Carhuajulca/go-identity"
)

func TestLoginRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		payload auth.LoginRequest
		wantErr bool
	}{
		{"valid", auth.LoginRequest{Identifier: "jane@example.com", Password: "Password1!"}, false},
		{"numeric identifier is allowed", auth.LoginRequest{Identifier: "42", Password: "Password1!"}, false},
		{"missing identifier", auth.LoginRequest{Password: "Password1!"}, true},
		{"missing password", auth.LoginRequest{Identifier: "jane@example.com"}, true},
		{"empty", auth.LoginRequest{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRegistrationCreatePayload_Validate(t *testing.T) {
	valid := auth.RegistrationCreatePayload{
		FirstName:       "Jane",
		LastName:        "Doe",
		Email:           "jane@example.com",
		Password:        "Password1!",
		ConfirmPassword: "Password1!",
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, valid.Validate())
	})

	t.Run("bad email", func(t *testing.T) {
		p := valid
		p.Email = "not-an-email"
		assert.Error(t, p.Validate())
	})

	t.Run("password below policy minimum", func(t *testing.T) {
		p := valid
		p.Password = "Aa1!"
		p.ConfirmPassword = "Aa1!"
		assert.Error(t, p.Validate())
	})

	t.Run("confirmation mismatch", func(t *testing.T) {
		p := valid
		p.ConfirmPassword = "Different1!"
		err := p.Validate()
		require.Error(t, err)

		fields := auth.FormatValidationErrorToMap(err)
		assert.Contains(t, fields, "confirm_password")
	})
}

func TestPasswordChangePayload_Validate(t *testing.T) {
	valid := auth.PasswordChangePayload{
		CurrentPassword: "OldPassword1!",
		NewPassword:     "NewPassword1!",
		ConfirmPassword: "NewPassword1!",
	}

	assert.NoError(t, valid.Validate())

	mismatch := valid
	mismatch.ConfirmPassword = "Other1!"
	assert.Error(t, mismatch.Validate())

	missing := valid
	missing.CurrentPassword = ""
	assert.Error(t, missing.Validate())
}

func TestValidateStringEquals(t *testing.T) {
	rule := auth.ValidateStringEquals("expected")

	assert.NoError(t, rule("expected"))
	assert.Error(t, rule("other"))
	assert.Error(t, rule(42))
}

func TestFormatValidationErrorToMap(t *testing.T) {
	payload := auth.LoginRequest{}
	err := payload.Validate()
	require.Error(t, err)

	fields := auth.FormatValidationErrorToMap(err)
	assert.Contains(t, fields, "identifier")
	assert.Contains(t, fields, "password")

	// Non-ozzo errors collapse into a single entry.
	plain := auth.FormatValidationErrorToMap(validation.NewStringRule(func(string) bool { return false }, "nope").
		Validate("x"))
	assert.Contains(t, plain, "error")
}
