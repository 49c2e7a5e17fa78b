package scheduling

import "errors"

// Error taxonomy for the scheduling engine.
//
// ErrSlotConflict is retried internally by the orchestrator and only
// surfaced after retries are exhausted; the others propagate untouched.
var (
	// ErrNoAvailability: no candidate slot satisfies the constraints
	// within the search horizon. User-visible; prompts an alternate
	// date or doctor.
	ErrNoAvailability = errors.New("no availability in the requested range")

	// ErrSlotConflict: lost a race for a specific slot. Reservation
	// fails fast and leaves no state change.
	ErrSlotConflict = errors.New("slot conflict")

	// ErrInvalidTransition: illegal booking status change, e.g.
	// confirming an already-cancelled booking. Integration error,
	// never silently ignored.
	ErrInvalidTransition = errors.New("invalid booking transition")

	// ErrOutsideWorkingHours: the requested interval does not fall
	// inside any working window for the doctor on that date.
	ErrOutsideWorkingHours = errors.New("interval outside working hours")
)
