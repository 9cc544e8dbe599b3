package services

import "errors"

// Sentinel errors shared by all services. Handlers map these onto HTTP
// status codes with errors.Is, so services wrap them rather than
// returning bespoke error types.
var (
	// ErrDoesNotExist covers every lookup miss, including lookups scoped
	// away from the caller so existence is not leaked.
	ErrDoesNotExist = errors.New("requested resource does not exist")
	// ErrAlreadyExists is returned when a create collides with existing
	// state (duplicate username, pending request, existing membership).
	ErrAlreadyExists = errors.New("resource already exists")
	// ErrPermissionDenied is returned when the caller lacks the role or
	// ownership an operation requires.
	ErrPermissionDenied = errors.New("permission denied")
	// ErrAlreadyHandled is returned when a request in a terminal state is
	// resolved or withdrawn again.
	ErrAlreadyHandled = errors.New("request has already been handled")
	// ErrInvalidCredentials is returned on a failed login.
	ErrInvalidCredentials = errors.New("invalid username or password")
	// ErrNotActive is returned when an account that has not confirmed its
	// email attempts an authenticated operation.
	ErrNotActive = errors.New("account is not activated")
	// ErrAlreadyActivated is returned when an activation token is used on
	// an account that is already active.
	ErrAlreadyActivated = errors.New("account is already activated")
)
