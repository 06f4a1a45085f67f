package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/dmitrijs2005/docassist/internal/client/client"
)

var (
	// ErrInvalidCredentials is returned by Login when the server rejects the
	// email/password. It matches client.ErrUnauthorized too.
	ErrInvalidCredentials = fmt.Errorf("invalid credentials: %w", client.ErrUnauthorized)

	ErrNoRefreshToken = errors.New("no refresh token stored")

	// ErrStaleResponse reports a response that arrived after the state it was
	// issued against was replaced, and was therefore not applied.
	ErrStaleResponse = errors.New("response discarded: state changed while request was in flight")
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// validateRequest checks v's validate tags and reports failures as a
// client.ErrValidation error, the same kind the server would produce.
func validateRequest(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return &client.APIError{Kind: client.ErrValidation, Message: err.Error()}
	}

	msgs := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Field(), fe.Tag()))
	}
	return &client.APIError{Kind: client.ErrValidation, Message: strings.Join(msgs, "; ")}
}
