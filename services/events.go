// Package services: services/events.go
package services

import "go-patient-caller/models"

// Names of the events the server sends to clients.
const (
	EventCurrentState     = "current_state"
	EventQueueUpdated     = "queue_updated"
	EventPatientCalled    = "patient_called"
	EventCallStopped      = "call_stopped"
	EventProfessionalList = "professional_list_updated"
	EventVideoUpdated     = "video_updated"
	EventErrorMessage     = "error_message"
)

// Event is one outbound message. Payload is marshalled as the "data" field.
type Event struct {
	Name    string
	Payload interface{}
}

func queueUpdated(patients []models.PatientEntry) Event {
	return Event{Name: EventQueueUpdated, Payload: patients}
}

func patientCalled(call models.ActiveCall) Event {
	return Event{Name: EventPatientCalled, Payload: call}
}

func callStopped() Event {
	return Event{Name: EventCallStopped}
}

func professionalListUpdated(list []models.Professional) Event {
	return Event{Name: EventProfessionalList, Payload: list}
}

func videoUpdated(url *string) Event {
	return Event{Name: EventVideoUpdated, Payload: url}
}
