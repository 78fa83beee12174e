package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig      = fmt.Errorf("configuration not found")
	ErrInvalidConfig      = fmt.Errorf("invalid configuration")
	ErrMissingCredentials = fmt.Errorf("missing credentials")

	// Server lifecycle errors
	ErrServerRunning = fmt.Errorf("server already running")
	ErrServerStopped = fmt.Errorf("server not running")
	ErrTimeout       = fmt.Errorf("operation timed out")

	// Authorization errors
	ErrAuthFailed    = fmt.Errorf("authorization failed")
	ErrStateMismatch = fmt.Errorf("state parameter mismatch")
	ErrNoToken       = fmt.Errorf("no token received")
	ErrTokenNotFound = fmt.Errorf("token not found")

	// Input validation errors
	ErrInvalidInput    = fmt.Errorf("invalid input")
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
