package cloud

import "errors"

// Cloud client errors.
var (
	// ErrRequestFailed indicates a transport failure or a non-200
	// status from the cloud API.
	ErrRequestFailed = errors.New("cloud request failed")

	// ErrUnexpectedResponse indicates a 200 response whose body does
	// not match the inventory contract.
	ErrUnexpectedResponse = errors.New("unexpected cloud response")

	// ErrInvalidToken indicates the API rejected the account token.
	ErrInvalidToken = errors.New("invalid account token")
)
