// internal/utils/validator_test.go
package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupForm struct {
	Username string `validate:"required,username"`
	Password string `validate:"required,strong_password"`
}

type shippingForm struct {
	Phone string `validate:"required,phone"`
}

func TestValidateStrongPassword(t *testing.T) {
	valid := []string{"Summer2024", "laundry-Day9", "Ab1defgh"}
	for _, password := range valid {
		form := signupForm{Username: "shopper", Password: password}
		assert.NoError(t, ValidateStruct(&form), password)
	}

	invalid := []string{"Ab1defg", "alllowercase1", "ALLUPPER1", "NoDigitsHere"}
	for _, password := range invalid {
		form := signupForm{Username: "shopper", Password: password}
		assert.Error(t, ValidateStruct(&form), password)
	}
}

func TestValidateUsername(t *testing.T) {
	valid := []string{"mia", "mia_shopper", "shopper123"}
	for _, username := range valid {
		form := signupForm{Username: username, Password: "Summer2024"}
		assert.NoError(t, ValidateStruct(&form), username)
	}

	invalid := []string{"ab", "Mia", "mia.shopper", "mia shopper",
		"0123456789012345678901234567890"}
	for _, username := range invalid {
		form := signupForm{Username: username, Password: "Summer2024"}
		assert.Error(t, ValidateStruct(&form), username)
	}
}

func TestValidatePhone(t *testing.T) {
	valid := []string{"+84 912 345 678", "0912345678", "212-555-0142", "+1 212.555.0142"}
	for _, number := range valid {
		assert.NoError(t, ValidateStruct(&shippingForm{Phone: number}), number)
	}

	invalid := []string{"", "call me maybe", "+", "12345", "091234567890123456789"}
	for _, number := range invalid {
		assert.Error(t, ValidateStruct(&shippingForm{Phone: number}), number)
	}
}

func TestGetValidationErrors(t *testing.T) {
	err := ValidateStruct(&shippingForm{Phone: "not a number"})
	require.Error(t, err)

	errs := GetValidationErrors(err)
	require.Len(t, errs, 1)
	assert.Equal(t, "phone", errs[0].Field)
	assert.Equal(t, "phone", errs[0].Tag)
	assert.Equal(t, "Phone number is not in a recognized format", errs[0].Message)
}
