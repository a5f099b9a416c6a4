package shared

import "fmt"

var (
	// Configuration errors
	ErrMissingConfig = fmt.Errorf("configuration not found")
	ErrInvalidConfig = fmt.Errorf("invalid configuration")

	// Token exchange errors
	ErrTokenExchange     = fmt.Errorf("token exchange failed")
	ErrUpstreamStatus    = fmt.Errorf("unexpected upstream status")
	ErrMalformedResponse = fmt.Errorf("malformed upstream response")
	ErrMissingToken      = fmt.Errorf("response missing access_token")
	ErrMissingCode       = fmt.Errorf("missing authorization code")

	// Input validation errors
	ErrInvalidArgument = fmt.Errorf("invalid argument")
	ErrInvalidFlag     = fmt.Errorf("invalid flag value")
)
