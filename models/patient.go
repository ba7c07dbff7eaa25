// Package models defines data structures used across the application.
// File: models/patient.go
package models

import (
	"strings"
	"time"
)

// ----------------------- session model -----------------------

// SessionID identifies one websocket connection. It is the ownership key for
// queue entries and calls, so it gets its own type to keep it from being
// compared with patient ids or names.
type SessionID string

// Professional is the identity a staff member declares at login.
type Professional struct {
	Name string `json:"name"`
	Role string `json:"role"`
}

// ----------------------- patient model -----------------------

// Priority is the queue priority of a patient.
type Priority string

const (
	PriorityNormal Priority = "normal"
	PriorityHigh   Priority = "high"
)

// ParsePriority maps a raw client value onto a Priority. An empty value means
// normal; anything outside the known set is rejected.
func ParsePriority(raw string) (Priority, bool) {
	switch Priority(strings.ToLower(strings.TrimSpace(raw))) {
	case "", PriorityNormal:
		return PriorityNormal, true
	case PriorityHigh:
		return PriorityHigh, true
	default:
		return "", false
	}
}

// Rank orders priorities: lower ranks are called first.
func (p Priority) Rank() int {
	if p == PriorityHigh {
		return 0
	}
	return 1
}

// PatientEntry is one patient waiting in the queue.
type PatientEntry struct {
	ID               string       `json:"id"`
	Name             string       `json:"name"`
	Priority         Priority     `json:"priority"`
	AddedAt          time.Time    `json:"addedAt"`
	AddedBy          Professional `json:"addedBy"`
	AddedBySessionID SessionID    `json:"addedBySessionId"`
}

// ActiveCall is the patient currently being summoned.
type ActiveCall struct {
	PatientEntry
	CalledBy          Professional `json:"calledBy"`
	CalledBySessionID SessionID    `json:"calledBySessionId"`
}

// ---------------------- state snapshot ----------------------

// CurrentState is the full state sent to a newly connected client.
type CurrentState struct {
	Patients      []PatientEntry `json:"patients"`
	Calling       *ActiveCall    `json:"calling"`
	PlaylistURL   *string        `json:"playlistUrl"`
	Professionals []Professional `json:"professionals"`
}
