package cli

import (
	"errors"

	"github.com/dmitrijs2005/docassist/internal/client/client"
	"github.com/dmitrijs2005/docassist/internal/client/services"
)

// describe turns an error into the line shown to the user.
func describe(err error) string {
	var apiErr *client.APIError

	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		return "invalid email or password"
	case errors.Is(err, services.ErrStaleResponse):
		return "the conversation changed before the answer arrived"
	case errors.Is(err, client.ErrNetwork):
		return "server is unreachable, try again later"
	case errors.Is(err, client.ErrUnauthorized):
		return "your session has expired, please log in again"
	case errors.As(err, &apiErr) && apiErr.Message != "":
		return apiErr.Message
	case errors.Is(err, client.ErrConflict):
		return "already exists"
	case errors.Is(err, client.ErrNotFound):
		return "not found"
	case errors.Is(err, client.ErrSizeLimitExceeded):
		return "file is too large"
	}
	return err.Error()
}
