// Package services: services/patient_queue.go
package services

import (
	"sort"
	"time"

	"go-patient-caller/models"
)

// PatientQueue holds waiting patients, high priority first, then by arrival.
type PatientQueue struct {
	entries []models.PatientEntry
	now     func() time.Time
	newID   func() string
	last    time.Time
}

// NewPatientQueue returns an empty queue stamping entries with now and newID.
func NewPatientQueue(now func() time.Time, newID func() string) *PatientQueue {
	return &PatientQueue{now: now, newID: newID}
}

// stamp returns the next logical time: the wall clock, pushed forward when it
// has not moved past the previous stamp, so AddedAt is strictly increasing.
func (q *PatientQueue) stamp() time.Time {
	t := q.now()
	if !t.After(q.last) {
		t = q.last.Add(time.Nanosecond)
	}
	q.last = t
	return t
}

// Add creates an entry owned by session and inserts it in order.
func (q *PatientQueue) Add(session models.SessionID, by models.Professional, name string, priority models.Priority) models.PatientEntry {
	entry := models.PatientEntry{
		ID:               q.newID(),
		Name:             name,
		Priority:         priority,
		AddedAt:          q.stamp(),
		AddedBy:          by,
		AddedBySessionID: session,
	}
	q.entries = append(q.entries, entry)
	q.sort()
	return entry
}

func (q *PatientQueue) sort() {
	sort.SliceStable(q.entries, func(i, j int) bool {
		return comparePatients(q.entries[i], q.entries[j])
	})
}

// comparePatients reports whether a is called before b.
func comparePatients(a, b models.PatientEntry) bool {
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra < rb
	}
	return a.AddedAt.Before(b.AddedAt)
}

// Find returns the entry with id without removing it.
func (q *PatientQueue) Find(id string) (models.PatientEntry, bool) {
	for _, e := range q.entries {
		if e.ID == id {
			return e, true
		}
	}
	return models.PatientEntry{}, false
}

// Remove takes the entry with id out of the queue.
func (q *PatientQueue) Remove(id string) (models.PatientEntry, bool) {
	for i, e := range q.entries {
		if e.ID == id {
			q.entries = append(q.entries[:i], q.entries[i+1:]...)
			return e, true
		}
	}
	return models.PatientEntry{}, false
}

// Snapshot returns a copy of the ordered entries.
func (q *PatientQueue) Snapshot() []models.PatientEntry {
	out := make([]models.PatientEntry, len(q.entries))
	copy(out, q.entries)
	return out
}

// Len is the number of waiting patients.
func (q *PatientQueue) Len() int {
	return len(q.entries)
}
