package domain

import "fmt"

// ConfigurationError marks a failure that was caused by bad strategy
// configuration rather than bad data. These surface at construction
// time and are not recoverable at evaluation time.
type ConfigurationError struct {
	Err error
}

func (e ConfigurationError) Error() string {
	return e.Err.Error()
}

func (e ConfigurationError) Unwrap() error {
	return e.Err
}

func NewConfigurationError(format string, args ...interface{}) error {
	return ConfigurationError{Err: fmt.Errorf(format, args...)}
}
