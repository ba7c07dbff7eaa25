// Package websocket - this file holds the wire format of the event channel.
// file: websocket/messages.go
package websocket

import (
	"encoding/json"
	"errors"
	"fmt"

	"go-patient-caller/models"
	"go-patient-caller/services"
)

// Envelope is every message on the wire, in both directions.
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

type outboundEnvelope struct {
	Event string      `json:"event"`
	Data  interface{} `json:"data,omitempty"`
}

const loginEvent = "professional_login"

var (
	errMalformedEnvelope = errors.New("malformed envelope")
	errUnknownEvent      = errors.New("unknown event")
)

type loginPayload struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

type addPatientPayload struct {
	Name     string `json:"name"`
	Priority string `json:"priority"`
}

type stopCallPayload struct {
	PatientID string `json:"patientId"`
	Confirmed bool   `json:"confirmed"`
}

// decodeCommand turns one inbound message into a command. A known event with
// an unusable payload yields a *services.Error to send back to the client;
// anything else that fails is a transport problem to log and drop.
func decodeCommand(raw []byte) (services.Command, error) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("%w: %v", errMalformedEnvelope, err)
	}

	switch env.Event {
	case loginEvent:
		var p loginPayload
		if !unmarshalData(env.Data, &p) {
			return nil, services.NewError(services.InvalidLogin, services.MsgInvalidLogin)
		}
		return services.LoginCommand{ProfessionalName: p.Name, Role: p.Role}, nil

	case "professional_logout":
		return services.LogoutCommand{}, nil

	case "add_patient":
		var p addPatientPayload
		if !unmarshalData(env.Data, &p) {
			return nil, services.NewError(services.InvalidPatient, services.MsgInvalidPatient)
		}
		priority, ok := models.ParsePriority(p.Priority)
		if !ok {
			return nil, services.NewError(services.InvalidPatient, services.MsgInvalidPatient)
		}
		return services.AddPatientCommand{PatientName: p.Name, Priority: priority}, nil

	case "call_patient":
		id, ok := decodePatientID(env.Data)
		if !ok {
			return nil, services.NewError(services.PatientNotFound, services.MsgPatientNotFound)
		}
		return services.CallPatientCommand{PatientID: id}, nil

	case "confirm_or_stop_call":
		var p stopCallPayload
		if !unmarshalData(env.Data, &p) {
			return nil, services.NewError(services.NoActiveCall, services.MsgNoActiveCall)
		}
		return services.StopCallCommand{PatientID: p.PatientID, Confirmed: p.Confirmed}, nil

	case "update_video":
		var url *string
		if len(env.Data) > 0 {
			if err := json.Unmarshal(env.Data, &url); err != nil {
				return nil, services.NewError(services.InvalidMediaLink, services.MsgInvalidMediaLink)
			}
		}
		if url == nil {
			return services.UpdateVideoCommand{}, nil
		}
		return services.UpdateVideoCommand{URL: *url}, nil

	default:
		return nil, fmt.Errorf("%w: %q", errUnknownEvent, env.Event)
	}
}

// loginRequired is the error a session that has not logged in gets for
// event, whatever its payload.
func loginRequired(event string) *services.Error {
	msg := services.MsgLoginRequired
	switch event {
	case "add_patient":
		msg = services.MsgLoginToAddPatients
	case "call_patient":
		msg = services.MsgLoginToCall
	case "confirm_or_stop_call":
		msg = services.MsgLoginToEndCall
	case "update_video":
		msg = services.MsgLoginToUpdateVideo
	}
	return services.NewError(services.NotAuthenticated, msg)
}

// unmarshalData decodes an object payload. Missing or null data decodes to
// the zero value and is left for the handlers to reject.
func unmarshalData(data json.RawMessage, v interface{}) bool {
	if len(data) == 0 {
		return true
	}
	return json.Unmarshal(data, v) == nil
}

// decodePatientID accepts a bare id string or {"patientId": "..."}.
func decodePatientID(data json.RawMessage) (string, bool) {
	if len(data) == 0 {
		return "", false
	}
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		return id, true
	}
	var obj struct {
		PatientID string `json:"patientId"`
	}
	if err := json.Unmarshal(data, &obj); err == nil && obj.PatientID != "" {
		return obj.PatientID, true
	}
	return "", false
}

// encodeEvent marshals an outbound event.
func encodeEvent(e services.Event) ([]byte, error) {
	return json.Marshal(outboundEnvelope{Event: e.Name, Data: e.Payload})
}

// encodeError marshals an error_message for a single client.
func encodeError(err error) ([]byte, error) {
	return json.Marshal(outboundEnvelope{Event: services.EventErrorMessage, Data: err.Error()})
}
