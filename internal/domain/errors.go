package domain

import (
	"errors"
	"fmt"
)

// ErrRemoteScoringUnavailable wraps every failure of the model scoring path.
// Callers recover from it locally; it is never shown to a client.
var ErrRemoteScoringUnavailable = errors.New("remote scoring unavailable")

// InvalidInputError reports a missing or malformed required field.
type InvalidInputError struct {
	Field  string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("%s is required", e.Field)
	}
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

func missingField(field string) *InvalidInputError {
	return &InvalidInputError{Field: field}
}

// ConfigurationError reports a deployment problem the operator has to fix,
// such as a missing model API key.
type ConfigurationError struct {
	Message      string
	Instructions string
}

func (e *ConfigurationError) Error() string {
	return e.Message
}

// IsInvalidInput reports whether err is an *InvalidInputError.
func IsInvalidInput(err error) bool {
	var target *InvalidInputError
	return errors.As(err, &target)
}

// IsConfiguration reports whether err is a *ConfigurationError.
func IsConfiguration(err error) bool {
	var target *ConfigurationError
	return errors.As(err, &target)
}
