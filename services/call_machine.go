// Package services: services/call_machine.go
package services

import "go-patient-caller/models"

// CallMachine tracks the single patient being called. It is Idle while
// active is nil and Calling otherwise.
type CallMachine struct {
	queue    *PatientQueue
	registry *SessionRegistry
	active   *models.ActiveCall
}

// NewCallMachine returns an idle machine that calls patients out of queue.
func NewCallMachine(queue *PatientQueue, registry *SessionRegistry) *CallMachine {
	return &CallMachine{queue: queue, registry: registry}
}

// Calling reports whether a call is active.
func (m *CallMachine) Calling() bool {
	return m.active != nil
}

// Active returns a copy of the active call, or nil when idle.
func (m *CallMachine) Active() *models.ActiveCall {
	if m.active == nil {
		return nil
	}
	c := *m.active
	return &c
}

// Call moves patientID from the queue into the active call. Only the session
// that queued the patient may call it, and only while idle. On error nothing
// changes.
func (m *CallMachine) Call(session models.SessionID, patientID string) (models.ActiveCall, error) {
	caller, ok := m.registry.Lookup(session)
	if !ok {
		return models.ActiveCall{}, NewError(NotAuthenticated, MsgLoginToCall)
	}
	if m.active != nil {
		return models.ActiveCall{}, NewError(CallInProgress, "A patient is already being called: %s.", m.active.Name)
	}
	entry, found := m.queue.Find(patientID)
	if !found {
		return models.ActiveCall{}, NewError(PatientNotFound, MsgPatientNotFound)
	}
	if entry.AddedBySessionID != session {
		return models.ActiveCall{}, NewError(NotOwner, "You can only call patients you added to the queue.")
	}

	entry, _ = m.queue.Remove(patientID)
	m.active = &models.ActiveCall{
		PatientEntry:      entry,
		CalledBy:          caller,
		CalledBySessionID: session,
	}
	return *m.active, nil
}

// Stop ends the active call for patientID. Only the calling session may end it.
func (m *CallMachine) Stop(session models.SessionID, patientID string) (models.ActiveCall, error) {
	if !m.registry.IsLoggedIn(session) {
		return models.ActiveCall{}, NewError(NotAuthenticated, MsgLoginToEndCall)
	}
	if m.active == nil || m.active.ID != patientID {
		return models.ActiveCall{}, NewError(NoActiveCall, MsgNoActiveCall)
	}
	if m.active.CalledBySessionID != session {
		return models.ActiveCall{}, NewError(NotOwner, "You can only end calls you started.")
	}
	ended := *m.active
	m.active = nil
	return ended, nil
}

// Abandon clears the active call when it belongs to session. It is the
// forced transition taken when the caller logs out or disconnects.
func (m *CallMachine) Abandon(session models.SessionID) (models.ActiveCall, bool) {
	if m.active == nil || m.active.CalledBySessionID != session {
		return models.ActiveCall{}, false
	}
	ended := *m.active
	m.active = nil
	return ended, true
}
