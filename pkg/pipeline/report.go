package pipeline

import (
	"errors"
	"time"
)

// ViewResult describes one materialized view.
type ViewResult struct {
	View   string
	Source string // master file or model file

	Diagram  string // written diagram source
	Document string // provenance page, carve only
	Image    string // rendered image, empty when rendering was skipped

	Lines    int // carve only
	Nodes    int // model only
	Edges    int // model only
	Fallback bool

	Duration time.Duration
	Err      error
}

// Report summarises one run.
type Report struct {
	RunID    string
	Pipeline string
	Sources  int
	Views    []ViewResult
	Dangling int // model edges dropped for missing endpoints
}

// Failed returns the views that carry an error.
func (r *Report) Failed() []ViewResult {
	var failed []ViewResult
	for _, v := range r.Views {
		if v.Err != nil {
			failed = append(failed, v)
		}
	}
	return failed
}

// Err joins every per-view error, nil when all views succeeded.
func (r *Report) Err() error {
	var errs []error
	for _, v := range r.Failed() {
		errs = append(errs, v.Err)
	}
	return errors.Join(errs...)
}
