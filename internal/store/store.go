package store

// Store defines run result persistence.
//
// Error handling conventions:
//   - Return nil on success
//   - Return ErrNotFound if the run doesn't exist (Load/Delete)
//   - Wrap underlying errors with context using fmt.Errorf("context: %w", err)
type Store interface {
	// SaveRun atomically persists a run result. An existing record for the
	// same run ID is overwritten.
	SaveRun(runID string, record *RunRecord) error

	// LoadRun retrieves the result of a run.
	// Returns ErrNotFound if no record exists for this run ID.
	LoadRun(runID string) (*RunRecord, error)

	// ListRuns returns metadata for all persisted runs.
	ListRuns() ([]RunInfo, error)

	// DeleteRun removes the run record and its trace file.
	// Returns ErrNotFound if no record exists for this run ID.
	DeleteRun(runID string) error
}

// ErrNotFound is returned when a requested run does not exist.
// Use errors.Is(err, ErrNotFound) to check for this error.
var ErrNotFound = &NotFoundError{}

// NotFoundError represents a missing run record.
type NotFoundError struct {
	RunID string
}

func (e *NotFoundError) Error() string {
	if e.RunID != "" {
		return "run not found: " + e.RunID
	}
	return "run not found"
}

func (e *NotFoundError) Is(target error) bool {
	_, ok := target.(*NotFoundError)
	return ok
}
