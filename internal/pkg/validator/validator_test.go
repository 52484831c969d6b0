package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type signup struct {
	Email    string `validate:"required,email"`
	Password string `validate:"required,min=8"`
}

func TestValidate(t *testing.T) {
	assert.Nil(t, Validate(signup{Email: "a@b.co", Password: "longenough"}))

	errs := Validate(signup{Email: "nope", Password: "short"})
	assert.Equal(t, map[string]string{"email": "email", "password": "min"}, errs)
}

func TestFieldErrors_OtherErrors(t *testing.T) {
	assert.Nil(t, FieldErrors(nil))
	assert.Nil(t, FieldErrors(errors.New("boom")))
}
