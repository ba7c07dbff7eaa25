// Package services: services/session_registry.go
package services

import "go-patient-caller/models"

type registeredSession struct {
	id  models.SessionID
	who models.Professional
}

// SessionRegistry maps logged-in connections to the identity declared through them.
// Sessions are kept in login order so the broadcast list is stable.
type SessionRegistry struct {
	sessions []registeredSession
}

// NewSessionRegistry returns an empty registry.
func NewSessionRegistry() *SessionRegistry {
	return &SessionRegistry{}
}

func (r *SessionRegistry) index(id models.SessionID) int {
	for i, s := range r.sessions {
		if s.id == id {
			return i
		}
	}
	return -1
}

// Register records who for id. A second login from the same connection
// replaces the identity but keeps its position in the list.
func (r *SessionRegistry) Register(id models.SessionID, who models.Professional) {
	if i := r.index(id); i >= 0 {
		r.sessions[i].who = who
		return
	}
	r.sessions = append(r.sessions, registeredSession{id: id, who: who})
}

// Remove drops id and reports the identity it had, if any.
func (r *SessionRegistry) Remove(id models.SessionID) (models.Professional, bool) {
	i := r.index(id)
	if i < 0 {
		return models.Professional{}, false
	}
	who := r.sessions[i].who
	r.sessions = append(r.sessions[:i], r.sessions[i+1:]...)
	return who, true
}

// Lookup returns the identity for id.
func (r *SessionRegistry) Lookup(id models.SessionID) (models.Professional, bool) {
	if i := r.index(id); i >= 0 {
		return r.sessions[i].who, true
	}
	return models.Professional{}, false
}

// IsLoggedIn reports whether id has a registered identity.
func (r *SessionRegistry) IsLoggedIn(id models.SessionID) bool {
	return r.index(id) >= 0
}

// Professionals returns the identities in login order.
func (r *SessionRegistry) Professionals() []models.Professional {
	out := make([]models.Professional, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.who)
	}
	return out
}

// Len is the number of logged-in sessions.
func (r *SessionRegistry) Len() int {
	return len(r.sessions)
}
