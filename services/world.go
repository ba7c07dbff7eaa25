// Package services holds the shared patient-calling state and the rules that
// guard it. Nothing in this package locks or does I/O: a World must be driven
// by one goroutine at a time, and the events it returns are delivered by the caller.
// file: services/world.go
package services

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"go-patient-caller/logger"
	"go-patient-caller/models"
)

// World is the whole mutable state of the server.
type World struct {
	registry    *SessionRegistry
	queue       *PatientQueue
	calls       *CallMachine
	playlistURL *string
}

type worldOptions struct {
	now   func() time.Time
	newID func() string
}

// Option customises NewWorld.
type Option func(*worldOptions)

// WithClock overrides the clock used to stamp patients.
func WithClock(now func() time.Time) Option {
	return func(o *worldOptions) { o.now = now }
}

// WithIDGenerator overrides how patient ids are minted.
func WithIDGenerator(newID func() string) Option {
	return func(o *worldOptions) { o.newID = newID }
}

// NewPatientID mints a patient id.
func NewPatientID() string {
	return "patient_" + uuid.NewString()
}

// NewWorld returns an empty world: no sessions, no patients, idle.
func NewWorld(opts ...Option) *World {
	o := worldOptions{now: time.Now, newID: NewPatientID}
	for _, opt := range opts {
		opt(&o)
	}
	registry := NewSessionRegistry()
	queue := NewPatientQueue(o.now, o.newID)
	return &World{
		registry: registry,
		queue:    queue,
		calls:    NewCallMachine(queue, registry),
	}
}

// --------------- command dispatch -----------------

// Apply runs cmd on behalf of session. The returned events go to every
// connection; a non-nil error goes to the requester only and means the world
// is unchanged.
func (w *World) Apply(session models.SessionID, cmd Command) ([]Event, error) {
	switch c := cmd.(type) {
	case LoginCommand:
		return w.Login(session, c.ProfessionalName, c.Role)
	case LogoutCommand:
		return w.Logout(session), nil
	case AddPatientCommand:
		return w.AddPatient(session, c.PatientName, c.Priority)
	case CallPatientCommand:
		return w.CallPatient(session, c.PatientID)
	case StopCallCommand:
		return w.StopCall(session, c.PatientID, c.Confirmed)
	case UpdateVideoCommand:
		return w.UpdateVideo(session, c.URL)
	default:
		logger.Warn.Printf("[World.Apply] unhandled command %T from session=%s", cmd, session)
		return nil, nil
	}
}

// --------------- session registry -----------------

// Login registers session under the given identity.
func (w *World) Login(session models.SessionID, name, role string) ([]Event, error) {
	name, role = strings.TrimSpace(name), strings.TrimSpace(role)
	if name == "" || role == "" {
		logger.Warn.Printf("[World.Login] rejected login with empty name or role (session=%s)", session)
		return nil, NewError(InvalidLogin, MsgInvalidLogin)
	}
	w.registry.Register(session, models.Professional{Name: name, Role: role})
	logger.Info.Printf("[World.Login] professional %q (%s) logged in (session=%s)", name, role, session)
	return []Event{professionalListUpdated(w.registry.Professionals())}, nil
}

// Logout ends session's login. A call it started is abandoned.
func (w *World) Logout(session models.SessionID) []Event {
	return w.endSession(session, "logged out")
}

// Disconnect is Logout for a lost connection. Calling it after Logout, or for
// a connection that never logged in, changes nothing.
func (w *World) Disconnect(session models.SessionID) []Event {
	return w.endSession(session, "disconnected")
}

func (w *World) endSession(session models.SessionID, reason string) []Event {
	who, ok := w.registry.Remove(session)
	if !ok {
		logger.Debug.Printf("[World.endSession] session=%s %s without being logged in", session, reason)
		return nil
	}
	logger.Info.Printf("[World.endSession] professional %q (%s) %s (session=%s)", who.Name, who.Role, reason, session)
	events := []Event{professionalListUpdated(w.registry.Professionals())}

	if call, abandoned := w.calls.Abandon(session); abandoned {
		logger.Info.Printf("[World.endSession] call for %q stopped because %q %s", call.Name, who.Name, reason)
		events = append(events, callStopped())
	}
	return events
}

// IsLoggedIn reports whether session has logged in.
func (w *World) IsLoggedIn(session models.SessionID) bool {
	return w.registry.IsLoggedIn(session)
}

// --------------- patient queue -----------------

// AddPatient queues a patient owned by session.
func (w *World) AddPatient(session models.SessionID, name string, priority models.Priority) ([]Event, error) {
	who, ok := w.registry.Lookup(session)
	if !ok {
		return nil, NewError(NotAuthenticated, MsgLoginToAddPatients)
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, NewError(InvalidPatient, MsgInvalidPatient)
	}
	if priority == "" {
		priority = models.PriorityNormal
	}
	if priority != models.PriorityNormal && priority != models.PriorityHigh {
		return nil, NewError(InvalidPatient, MsgInvalidPatient)
	}

	entry := w.queue.Add(session, who, name, priority)
	logger.Info.Printf("[World.AddPatient] patient %q (%s, id=%s) added by %q (%s)", entry.Name, entry.Priority, entry.ID, who.Name, who.Role)
	return []Event{queueUpdated(w.queue.Snapshot())}, nil
}

// --------------- call state machine -----------------

// CallPatient starts calling patientID.
func (w *World) CallPatient(session models.SessionID, patientID string) ([]Event, error) {
	call, err := w.calls.Call(session, patientID)
	if err != nil {
		logger.Info.Printf("[World.CallPatient] call of patient=%s by session=%s rejected: %v", patientID, session, err)
		return nil, err
	}
	logger.Info.Printf("[World.CallPatient] patient %q called by %q (%s)", call.Name, call.CalledBy.Name, call.CalledBy.Role)
	return []Event{queueUpdated(w.queue.Snapshot()), patientCalled(call)}, nil
}

// StopCall ends the active call. confirmed only changes what is logged:
// arrival confirmed versus call abandoned.
func (w *World) StopCall(session models.SessionID, patientID string, confirmed bool) ([]Event, error) {
	call, err := w.calls.Stop(session, patientID)
	if err != nil {
		logger.Info.Printf("[World.StopCall] stop of patient=%s by session=%s rejected: %v", patientID, session, err)
		return nil, err
	}
	if confirmed {
		logger.Info.Printf("[World.StopCall] arrival of %q confirmed by %q", call.Name, call.CalledBy.Name)
	} else {
		logger.Info.Printf("[World.StopCall] call of %q stopped by %q", call.Name, call.CalledBy.Name)
	}
	return []Event{callStopped(), queueUpdated(w.queue.Snapshot())}, nil
}

// --------------- media reference -----------------

// UpdateVideo sets the waiting-room playlist from a YouTube playlist link, or
// clears it when link is empty. A blank but non-empty link is invalid.
func (w *World) UpdateVideo(session models.SessionID, link string) ([]Event, error) {
	who, ok := w.registry.Lookup(session)
	if !ok {
		return nil, NewError(NotAuthenticated, MsgLoginToUpdateVideo)
	}
	if link == "" {
		w.playlistURL = nil
		logger.Info.Printf("[World.UpdateVideo] playlist removed by %q", who.Name)
		return []Event{videoUpdated(nil)}, nil
	}

	embed, err := PlaylistEmbedURL(strings.TrimSpace(link))
	if err != nil {
		logger.Info.Printf("[World.UpdateVideo] invalid playlist link from %q: %q", who.Name, link)
		return nil, err
	}
	w.playlistURL = &embed
	logger.Info.Printf("[World.UpdateVideo] playlist updated by %q: %s", who.Name, embed)
	url := embed
	return []Event{videoUpdated(&url)}, nil
}

// --------------- read access -----------------

// State is the full snapshot sent to a new connection.
func (w *World) State() models.CurrentState {
	return models.CurrentState{
		Patients:      w.queue.Snapshot(),
		Calling:       w.calls.Active(),
		PlaylistURL:   w.PlaylistURL(),
		Professionals: w.registry.Professionals(),
	}
}

// Queue returns the ordered waiting patients.
func (w *World) Queue() []models.PatientEntry {
	return w.queue.Snapshot()
}

// ActiveCall returns the current call, or nil when idle.
func (w *World) ActiveCall() *models.ActiveCall {
	return w.calls.Active()
}

// Professionals returns the logged-in identities.
func (w *World) Professionals() []models.Professional {
	return w.registry.Professionals()
}

// PlaylistURL returns the embeddable playlist URL, or nil when none is set.
func (w *World) PlaylistURL() *string {
	if w.playlistURL == nil {
		return nil
	}
	u := *w.playlistURL
	return &u
}
