package fragment

import (
	"fmt"

	"github.com/pkg/errors"
)

type Type string

const (
	TypeDocumentStatus    Type = "DOCUMENT_STATUS"
	TypeDocumentIntegrity Type = "DOCUMENT_INTEGRITY"
	TypeIssuerIdentity    Type = "ISSUER_IDENTITY"
)

type Status string

const (
	StatusValid   Status = "VALID"
	StatusInvalid Status = "INVALID"
	StatusError   Status = "ERROR"
	StatusSkipped Status = "SKIPPED"
)

// Fragment is the output of a single verifier run
type Fragment struct {
	Name   string      `json:"name" yaml:"name"`
	Type   Type        `json:"type" yaml:"type"`
	Status Status      `json:"status" yaml:"status"`
	Data   interface{} `json:"data,omitempty" yaml:"data,omitempty"`
	Reason *Reason     `json:"reason,omitempty" yaml:"reason,omitempty"`
}

type Reason struct {
	Code       int    `json:"code" yaml:"code"`
	CodeString string `json:"codeString" yaml:"codeString"`
	Message    string `json:"message" yaml:"message"`
}

// ErrorData is attached to ERROR fragments to carry the causing condition
type ErrorData struct {
	Error string `json:"error" yaml:"error"`
}

// Outcome is what a check produces before being wrapped into a fragment.
// Checks only ever produce VALID or INVALID outcomes, failures are returned
// as errors instead.
type Outcome struct {
	Status Status
	Data   interface{}
	Reason *Reason
}

func Valid(data interface{}) Outcome {
	return Outcome{Status: StatusValid, Data: data}
}

func Invalid(data interface{}, reason *Reason) Outcome {
	return Outcome{Status: StatusInvalid, Data: data, Reason: reason}
}

// Error carries an explicit code for a failure so the fragment it ends up in
// reports something more specific than UNEXPECTED_ERROR
type Error struct {
	Code Code
	Err  error
}

func NewError(code Code, format string, args ...interface{}) *Error {
	return &Error{Code: code, Err: errors.Errorf(format, args...)}
}

func (e *Error) Error() string {
	return e.Err.Error()
}

func (e *Error) Unwrap() error {
	return e.Err
}

func (f Fragment) String() string {
	if f.Reason != nil {
		return fmt.Sprintf("%s[%s]: %s (%s)", f.Name, f.Type, f.Status, f.Reason.Message)
	}

	return fmt.Sprintf("%s[%s]: %s", f.Name, f.Type, f.Status)
}
