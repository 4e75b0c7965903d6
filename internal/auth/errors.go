package auth

import (
	"errors"
	"fmt"
	"net/url"

	"golang.org/x/oauth2"
)

// Kind classifies an [AuthError].
type Kind int

const (
	NoCredentials Kind = iota + 1
	ExchangeRejected
	RefreshRejected
	Network
)

func (k Kind) String() string {
	switch k {
	case NoCredentials:
		return "no credentials"
	case ExchangeRejected:
		return "exchange rejected"
	case RefreshRejected:
		return "refresh rejected"
	case Network:
		return "network error"
	default:
		return "unknown"
	}
}

// AuthError reports a token lifecycle failure.
type AuthError struct {
	Kind   Kind
	Status int    // provider HTTP status for rejections
	Body   string // provider response body for rejections
	Err    error
}

// Sentinels for use with [errors.Is]; only the Kind is compared.
var (
	ErrNoCredentials    = &AuthError{Kind: NoCredentials}
	ErrExchangeRejected = &AuthError{Kind: ExchangeRejected}
	ErrRefreshRejected  = &AuthError{Kind: RefreshRejected}
	ErrNetwork          = &AuthError{Kind: Network}
)

func (e *AuthError) Error() string {
	switch {
	case e.Body != "":
		return fmt.Sprintf("%s: status %d: %s", e.Kind, e.Status, e.Body)
	case e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	default:
		return e.Kind.String()
	}
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// Is reports whether target is an [*AuthError] of the same Kind.
func (e *AuthError) Is(target error) bool {
	t, ok := target.(*AuthError)
	return ok && t.Kind == e.Kind
}

// classify maps an oauth2 token endpoint error to an [AuthError].
//
// Transport failures become [Network]; everything else, including malformed provider responses, is a rejection
// of the given kind.
func classify(kind Kind, err error) *AuthError {
	var retrieveErr *oauth2.RetrieveError
	if errors.As(err, &retrieveErr) {
		status := 0
		if retrieveErr.Response != nil {
			status = retrieveErr.Response.StatusCode
		}
		return &AuthError{Kind: kind, Status: status, Body: string(retrieveErr.Body), Err: err}
	}

	var urlErr *url.Error
	if errors.As(err, &urlErr) {
		return &AuthError{Kind: Network, Err: err}
	}

	return &AuthError{Kind: kind, Err: err}
}
