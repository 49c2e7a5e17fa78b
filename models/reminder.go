package models

import "time"

// ReminderKind identifies one of the three reminder stages.
type ReminderKind string

const (
	ReminderConfirm24h     ReminderKind = "confirm_24h"
	ReminderFormCheck2h    ReminderKind = "form_check_2h"
	ReminderFinalConfirm1h ReminderKind = "final_confirm_1h"
)

// Reminder task states. Transitions are monotonic: a task never
// returns to pending, and acknowledged/skipped are terminal.
const (
	TaskStatePending      = "pending"
	TaskStateFired        = "fired"
	TaskStateAcknowledged = "acknowledged"
	TaskStateSkipped      = "skipped"
)

// ReminderTask is one stage of a reminder plan. Each task fires at
// most once; Attempts counts failed delivery attempts while pending.
type ReminderTask struct {
	Kind           ReminderKind `bson:"kind" json:"kind"`
	FireAt         time.Time    `bson:"fireAt" json:"fireAt"`
	State          string       `bson:"state" json:"state"`
	FiredAt        *time.Time   `bson:"firedAt,omitempty" json:"firedAt,omitempty"`
	Attempts       int          `bson:"attempts" json:"attempts"`
	DeliveryFailed bool         `bson:"deliveryFailed,omitempty" json:"deliveryFailed,omitempty"`
}

// Terminal reports whether the task can no longer change state.
func (t *ReminderTask) Terminal() bool {
	return t.State == TaskStateAcknowledged || t.State == TaskStateSkipped
}

// ReminderPlan holds the three reminder tasks for one confirmed
// booking, ordered by decreasing time-to-appointment (24h, 2h, 1h).
// Created exactly once at confirmation; deactivated on cancellation
// or once every task is terminal.
type ReminderPlan struct {
	BookingID string         `bson:"bookingId" json:"bookingId"`
	PatientID string         `bson:"patientId" json:"patientId"`
	Tasks     []ReminderTask `bson:"tasks" json:"tasks"`
	Active    bool           `bson:"active" json:"active"`
	FormsSent bool           `bson:"formsSent" json:"formsSent"`
	CreatedAt time.Time      `bson:"createdAt" json:"createdAt"`
}

// Task returns the task of the given kind, or nil.
func (p *ReminderPlan) Task(kind ReminderKind) *ReminderTask {
	for i := range p.Tasks {
		if p.Tasks[i].Kind == kind {
			return &p.Tasks[i]
		}
	}
	return nil
}

// Settled reports whether every task has reached a terminal state.
func (p *ReminderPlan) Settled() bool {
	for i := range p.Tasks {
		if !p.Tasks[i].Terminal() {
			return false
		}
	}
	return true
}
