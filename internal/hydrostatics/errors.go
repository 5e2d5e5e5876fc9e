package hydrostatics

import (
	"errors"
	"fmt"

	"github.com/san-kum/hydrodrag/internal/probe"
)

var (
	ErrNoHullHits   = errors.New("hydrostatics: no hull hits")
	ErrInvalidState = errors.New("hydrostatics: invalid state")
)

// BuildError reports why a vessel's tables could not be built.
type BuildError struct {
	Vessel string
	Mask   probe.LayerMask
	Stage  string
	Err    error
}

func (e *BuildError) Error() string {
	return fmt.Sprintf("hydrostatics: %s %s (mask %s): %v", e.Vessel, e.Stage, e.Mask, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}
