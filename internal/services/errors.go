package services

import "errors"

// ErrValidation marks malformed or missing input. Handlers map it to a 400
// response. Wrap it with context: fmt.Errorf("%w: title is required", ErrValidation).
var ErrValidation = errors.New("validation failed")

// ErrEmailTaken is returned when registering with an email that already has
// an account.
var ErrEmailTaken = errors.New("email already registered")
