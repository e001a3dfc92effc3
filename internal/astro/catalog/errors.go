package catalog

import "errors"

// ErrUnknownBody is returned by a catalog lookup for a body outside the
// declared domain. It always indicates a configuration or
// catalog-integrity bug — fatal for the call that triggered it, per the
// engine's error taxonomy.
var ErrUnknownBody = errors.New("unknown body")

// ErrUnknownAspect is returned by a catalog lookup for an aspect outside
// the declared domain.
var ErrUnknownAspect = errors.New("unknown aspect")

// ErrInvalidAspect is returned when a pattern matched a body pair but no
// catalog aspect satisfies the observed separation. It is fatal for the
// one event being classified, not for the run.
var ErrInvalidAspect = errors.New("invalid aspect for observed separation")
