package sc2ranks

import (
	"errors"
	"fmt"
)

// Common errors
var (
	// ErrInvalidConfig indicates invalid client configuration
	ErrInvalidConfig = errors.New("invalid sc2ranks configuration")
	// ErrInvalidArgument indicates an operation was called with bad input
	ErrInvalidArgument = errors.New("invalid argument")
	// ErrInvalidResponse indicates the API returned a body that is not JSON
	ErrInvalidResponse = errors.New("invalid response from sc2ranks API")
	// ErrCharacterNotFound indicates the API reported no matching characters
	ErrCharacterNotFound = errors.New("character not found")
	// ErrRemote indicates the API reported an error code
	ErrRemote = errors.New("sc2ranks API error")
)

// errNoCharacters is the envelope code for ErrCharacterNotFound.
const errNoCharacters = "no_characters"

// InvalidResponseError is returned when a response body can't be decoded.
type InvalidResponseError struct {
	StatusCode int
	Err        error
}

// Error implements the error interface
func (e *InvalidResponseError) Error() string {
	return fmt.Sprintf("received an invalid JSON response (status %d): %v", e.StatusCode, e.Err)
}

func (e *InvalidResponseError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is match ErrInvalidResponse.
func (e *InvalidResponseError) Is(target error) bool {
	return target == ErrInvalidResponse
}

// RemoteError carries an error code reported in the response envelope.
type RemoteError struct {
	Code string
}

// Error implements the error interface
func (e *RemoteError) Error() string {
	return fmt.Sprintf("an unknown error occurred: %s", e.Code)
}

// Is lets errors.Is match ErrRemote.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}

func invalidArgument(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidArgument, fmt.Sprintf(format, args...))
}
