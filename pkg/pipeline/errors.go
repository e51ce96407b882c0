package pipeline

import (
	"errors"

	"github.com/dd0wney/cluso-diagramviews/pkg/validation"
)

var (
	// ErrSourceNotFound is returned when the master directory or model file
	// does not exist.
	ErrSourceNotFound = errors.New("source not found")

	// ErrOutputConflict is returned for a view whose output files were
	// already written by another view in the same run.
	ErrOutputConflict = errors.New("output path already claimed")

	// ErrInvalidViewName is returned for a view whose name cannot be used
	// as an output file stem.
	ErrInvalidViewName = validation.ErrInvalidViewName
)
