// Package services: services/errors.go
package services

import (
	"errors"
	"fmt"
)

// Kind classifies a rejected operation.
type Kind int

const (
	NotAuthenticated Kind = iota + 1
	InvalidLogin
	InvalidPatient
	PatientNotFound
	CallInProgress
	NotOwner
	NoActiveCall
	InvalidMediaLink
)

var kindNames = map[Kind]string{
	NotAuthenticated: "not_authenticated",
	InvalidLogin:     "invalid_login",
	InvalidPatient:   "invalid_patient",
	PatientNotFound:  "patient_not_found",
	CallInProgress:   "call_in_progress",
	NotOwner:         "not_owner",
	NoActiveCall:     "no_active_call",
	InvalidMediaLink: "invalid_media_link",
}

func (k Kind) String() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a rejected operation. Msg is shown to the requesting client as-is.
type Error struct {
	Kind Kind
	Msg  string
}

func (e *Error) Error() string {
	if e.Msg == "" {
		return e.Kind.String()
	}
	return e.Msg
}

// Is matches on Kind so callers can write errors.Is(err, ErrNotOwner)
// regardless of the message.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// NewError builds an Error of kind with a formatted message.
func NewError(kind Kind, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Msg: fmt.Sprintf(format, args...)}
}

// Messages shared by the handlers and the payload decoder.
const (
	MsgInvalidLogin     = "Invalid login information."
	MsgInvalidPatient   = "Invalid patient data."
	MsgPatientNotFound  = "Patient not found in the queue."
	MsgNoActiveCall     = "No active patient call to end."
	MsgInvalidMediaLink = "Invalid link. Use the full link of a YouTube playlist."

	MsgLoginToAddPatients = "You must be logged in to add patients."
	MsgLoginToCall        = "You must be logged in to call patients."
	MsgLoginToEndCall     = "You must be logged in to end calls."
	MsgLoginToUpdateVideo = "You must be logged in to update the video."
	MsgLoginRequired      = "You must be logged in."
)

// Sentinels for errors.Is.
var (
	ErrNotAuthenticated = &Error{Kind: NotAuthenticated}
	ErrInvalidLogin     = &Error{Kind: InvalidLogin}
	ErrInvalidPatient   = &Error{Kind: InvalidPatient}
	ErrPatientNotFound  = &Error{Kind: PatientNotFound}
	ErrCallInProgress   = &Error{Kind: CallInProgress}
	ErrNotOwner         = &Error{Kind: NotOwner}
	ErrNoActiveCall     = &Error{Kind: NoActiveCall}
	ErrInvalidMediaLink = &Error{Kind: InvalidMediaLink}
)

// KindOf returns the Kind of err, or 0 when err is not a domain error.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return 0
}
