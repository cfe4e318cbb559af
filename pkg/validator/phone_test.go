package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPhoneValidator_Validate(t *testing.T) {
	v := NewPhoneValidator()

	t.Run("Valid Formats", func(t *testing.T) {
		cases := map[string]string{
			"+254712345678":  "+254712345678",
			"254712345678":   "+254712345678",
			"0712345678":     "+254712345678",
			"0110123456":     "+254110123456",
			"0712 345 678":   "+254712345678",
			"0712-345-678":   "+254712345678",
			" +254712345678": "+254712345678",
		}
		for input, want := range cases {
			got, err := v.Validate(input)
			assert.NoError(t, err, "input: %s", input)
			assert.Equal(t, want, got, "input: %s", input)
		}
	})

	t.Run("Empty", func(t *testing.T) {
		_, err := v.Validate("")
		assert.ErrorIs(t, err, ErrEmptyPhone)
	})

	t.Run("Non Digits", func(t *testing.T) {
		_, err := v.Validate("07abc45678")
		assert.ErrorIs(t, err, ErrInvalidFormat)
	})

	t.Run("Wrong Length", func(t *testing.T) {
		_, err := v.Validate("071234567")
		assert.ErrorIs(t, err, ErrInvalidLength)

		_, err = v.Validate("+2547123456789")
		assert.ErrorIs(t, err, ErrInvalidLength)
	})

	t.Run("Non Mobile Prefix", func(t *testing.T) {
		_, err := v.Validate("0212345678")
		assert.ErrorIs(t, err, ErrInvalidPrefix)
	})
}
