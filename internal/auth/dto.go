package auth

import (
	"strings"

	"github.com/frahmantamala/hr-assistant/internal"
)

// ClientCredentialsDTO is the body of POST /auth/token.
type ClientCredentialsDTO struct {
	ClientID     string `json:"client_id"`
	ClientSecret string `json:"client_secret"`
	// Scope is a space separated subset of the client's scopes. Empty asks
	// for all of them.
	Scope string `json:"scope"`
}

func (d ClientCredentialsDTO) Validate() error {
	var errs []internal.ValidationError
	if strings.TrimSpace(d.ClientID) == "" {
		errs = append(errs, internal.ValidationError{Field: "client_id", Message: "client_id is required", Code: string(internal.ErrCodeMissingArgument)})
	}
	if d.ClientSecret == "" {
		errs = append(errs, internal.ValidationError{Field: "client_secret", Message: "client_secret is required", Code: string(internal.ErrCodeMissingArgument)})
	}
	if len(errs) > 0 {
		return internal.NewArgumentFieldErrors(errs...)
	}
	return nil
}

func (d ClientCredentialsDTO) Scopes() []string {
	return strings.Fields(d.Scope)
}
