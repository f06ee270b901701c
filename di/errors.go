package di

import (
	"fmt"
	"strings"
)

// NotRegisteredError is returned when resolving a token that has no
// provider and no cached value.
//
// Example:
//
//	_, err := di.Get(ctx, c, LoggerToken)
//	var notRegistered di.NotRegisteredError
//	if errors.As(err, &notRegistered) {
//	    fmt.Println(notRegistered.Token)
//	}
type NotRegisteredError struct {
	// Token is the string description of the token that was not found.
	Token string
}

func (e NotRegisteredError) Error() string {
	return fmt.Sprintf("di: %s is not registered", e.Token)
}

// CircularDependencyError is returned when resolving a token would revisit
// a token already being resolved higher up the same call chain.
//
// Chain holds the ordered path of tokens from the outermost Get call down
// to (and including) the token that closed the cycle.
type CircularDependencyError struct {
	Chain []string
}

func (e CircularDependencyError) Error() string {
	return fmt.Sprintf("di: circular dependency detected: %s", strings.Join(e.Chain, " -> "))
}

// ResolutionError wraps the error a provider or a dependency returned
// while resolving a token.
type ResolutionError struct {
	Token string
	Cause error
}

func (e ResolutionError) Error() string {
	return fmt.Sprintf("di: failed to resolve %s: %v", e.Token, e.Cause)
}

// Unwrap allows ResolutionError to participate in errors.Is / errors.As.
func (e ResolutionError) Unwrap() error { return e.Cause }

// InvalidProviderError is returned when the provider registered for a
// token, or a value installed for it with UseOverrides, does not have the
// type the token is being resolved as.
type InvalidProviderError struct {
	Token   string
	Message string
}

func (e InvalidProviderError) Error() string {
	return fmt.Sprintf("di: invalid provider for %s: %s", e.Token, e.Message)
}

// AsyncProviderInSyncContextError is returned when Get is used to resolve
// a token registered with RegisterAsync. Use AGet for async-only providers.
type AsyncProviderInSyncContextError struct {
	Token string
}

func (e AsyncProviderInSyncContextError) Error() string {
	return fmt.Sprintf("di: %s is async-only; use AGet instead of Get", e.Token)
}

// AsyncCleanupRequiredError is returned by Container.Close when a tracked
// resource only implements AsyncCloser. Use Container.Shutdown instead.
type AsyncCleanupRequiredError struct {
	Type string
}

func (e AsyncCleanupRequiredError) Error() string {
	return fmt.Sprintf("di: resource %s requires async cleanup; use Shutdown(ctx) instead of Close()", e.Type)
}
