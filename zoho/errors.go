// ABOUTME: Error taxonomy for the Zoho adapter
// ABOUTME: Distinguishes configuration, authentication, fetch, and write failures
package zoho

import (
	"errors"
	"fmt"
)

// ErrNotInitialized is returned when an operation requiring a CRM connection
// runs before Initialize.
var ErrNotInitialized = errors.New("zoho client not initialized")

// AuthError wraps a rejected token exchange. It is never retried
// automatically; callers see it from GetAccessToken and anything downstream.
type AuthError struct {
	Err error
}

func (e *AuthError) Error() string {
	return fmt.Sprintf("zoho token exchange failed: %v", e.Err)
}

func (e *AuthError) Unwrap() error { return e.Err }

// FetchError wraps a transport or API failure on a read. The store treats it
// as non-fatal; a direct test-connection call surfaces it.
type FetchError struct {
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("zoho fetch failed: %v", e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// WriteError wraps a transport or API failure on a create or update.
type WriteError struct {
	Op  string
	Err error
}

func (e *WriteError) Error() string {
	return fmt.Sprintf("zoho %s failed: %v", e.Op, e.Err)
}

func (e *WriteError) Unwrap() error { return e.Err }
