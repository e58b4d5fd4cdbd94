package provider

import (
	"errors"
	"fmt"
)

type Kind string

const (
	KindUpstream   Kind = "upstream"
	KindConfig     Kind = "config"
	KindValidation Kind = "validation"
	KindStorage    Kind = "storage"
)

// Error is the single error shape shared by providers, services and handlers.
// Status carries the upstream HTTP status when one was received.
type Error struct {
	Kind     Kind
	Provider string
	Status   int
	Err      error
}

func (e *Error) Error() string {
	msg := string(e.Kind)
	if e.Provider != "" {
		msg = e.Provider + ": " + msg
	}
	if e.Status != 0 {
		msg = fmt.Sprintf("%s (status %d)", msg, e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Upstream wraps a provider failure. status is 0 when no HTTP response was received.
func Upstream(name string, status int, err error) *Error {
	return &Error{Kind: KindUpstream, Provider: name, Status: status, Err: err}
}

func MissingConfig(name string, setting string) *Error {
	return &Error{Kind: KindConfig, Provider: name, Err: fmt.Errorf("missing configuration: %s", setting)}
}

func Validation(err error) *Error {
	return &Error{Kind: KindValidation, Err: err}
}

func Storage(err error) *Error {
	return &Error{Kind: KindStorage, Err: err}
}

// KindOf returns the kind of the first *Error in err's chain, or "" if there is none.
func KindOf(err error) Kind {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// StatusOf returns the upstream status recorded in err's chain, or 0.
func StatusOf(err error) int {
	var pe *Error
	if errors.As(err, &pe) {
		return pe.Status
	}
	return 0
}

// MessageOf returns the message of the error wrapped by the first *Error in err's chain,
// without the kind and provider prefix.
func MessageOf(err error) string {
	var pe *Error
	if errors.As(err, &pe) && pe.Err != nil {
		return pe.Err.Error()
	}
	return err.Error()
}
