package lsmgo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidRange is returned by Range when start is greater than end.
	ErrInvalidRange = errors.New("invalid range: start greater than end")

	// ErrNoCompactionInput is returned when a merge is requested over an
	// empty table set. Strategies never produce this on their own; it
	// guards the shared merge primitive against misuse.
	ErrNoCompactionInput = errors.New("compaction: no input tables")
)

// ErrInvalidConfig indicates a configuration option that violates its
// precondition. The error names the offending field and value.
type ErrInvalidConfig struct {
	Field string
	Value any
}

func (e *ErrInvalidConfig) Error() string {
	return fmt.Sprintf("invalid config: %s=%v", e.Field, e.Value)
}

// ErrInvalidLevel indicates a compaction request for a level outside the
// tree's hierarchy.
type ErrInvalidLevel struct {
	Level     int
	MaxLevels int
}

func (e *ErrInvalidLevel) Error() string {
	return fmt.Sprintf("invalid level %d: tree has %d levels", e.Level, e.MaxLevels)
}
