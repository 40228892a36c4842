package store

import (
	"errors"
	"fmt"
	"strings"
)

// Error taxonomy surfaced by store operations. Callers branch with errors.Is.
var (
	// ErrNotFound reports an unknown task or queue item identifier.
	ErrNotFound = errors.New("not found")
	// ErrDuplicate reports an identifier collision on insert.
	ErrDuplicate = errors.New("duplicate identifier")
	// ErrReference reports a foreign key violation, e.g. points for a
	// task that does not exist.
	ErrReference = errors.New("unknown reference")
	// ErrInvalidTransition reports a task status change outside the
	// allowed-transition table.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidState reports a queue item operation attempted in the
	// wrong lifecycle state.
	ErrInvalidState = errors.New("invalid queue item state")
	// ErrUnavailable wraps underlying engine I/O failures.
	ErrUnavailable = errors.New("storage unavailable")
)

const (
	sqliteConstraintForeignKey = 787
	sqliteConstraintPrimaryKey = 1555
	sqliteConstraintUnique     = 2067
)

// classifyConstraint maps SQLite constraint failures onto the store's
// sentinel errors. Non-constraint errors pass through unchanged.
func classifyConstraint(err error) error {
	if err == nil {
		return nil
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) {
		switch coder.Code() {
		case sqliteConstraintPrimaryKey, sqliteConstraintUnique:
			return fmt.Errorf("%w: %v", ErrDuplicate, err)
		case sqliteConstraintForeignKey:
			return fmt.Errorf("%w: %v", ErrReference, err)
		}
	}
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return fmt.Errorf("%w: %v", ErrDuplicate, err)
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return fmt.Errorf("%w: %v", ErrReference, err)
	}
	return err
}
