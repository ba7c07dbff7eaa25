// Package services: services/commands.go
package services

import "go-patient-caller/models"

// Command is the closed set of inbound client events. Only the types in this
// file implement it.
type Command interface {
	command()
	// Name is the wire name of the event, used for logging and metrics.
	Name() string
}

// LoginCommand is professional_login.
type LoginCommand struct {
	ProfessionalName string
	Role             string
}

// LogoutCommand is professional_logout.
type LogoutCommand struct{}

// AddPatientCommand is add_patient.
type AddPatientCommand struct {
	PatientName string
	Priority    models.Priority
}

// CallPatientCommand is call_patient.
type CallPatientCommand struct {
	PatientID string
}

// StopCallCommand is confirm_or_stop_call.
type StopCallCommand struct {
	PatientID string
	Confirmed bool
}

// UpdateVideoCommand is update_video. An empty URL clears the playlist.
type UpdateVideoCommand struct {
	URL string
}

func (LoginCommand) command()       {}
func (LogoutCommand) command()      {}
func (AddPatientCommand) command()  {}
func (CallPatientCommand) command() {}
func (StopCallCommand) command()    {}
func (UpdateVideoCommand) command() {}

func (LoginCommand) Name() string       { return "professional_login" }
func (LogoutCommand) Name() string      { return "professional_logout" }
func (AddPatientCommand) Name() string  { return "add_patient" }
func (CallPatientCommand) Name() string { return "call_patient" }
func (StopCallCommand) Name() string    { return "confirm_or_stop_call" }
func (UpdateVideoCommand) Name() string { return "update_video" }
