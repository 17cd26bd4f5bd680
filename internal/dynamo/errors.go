package dynamo

import "errors"

// Domain errors for simulation setup and ticking.
var (
	// ErrNonPositiveMass indicates a particle template with mass <= 0.
	ErrNonPositiveMass = errors.New("dynamo: particle mass must be positive")

	// ErrNonPositiveScale indicates a particle template with scale <= 0.
	ErrNonPositiveScale = errors.New("dynamo: particle scale must be positive")

	// ErrInvalidTimestep indicates a tick with dt <= 0.
	ErrInvalidTimestep = errors.New("dynamo: timestep must be positive")

	// ErrInvalidPeriod indicates an emission period <= 0.
	ErrInvalidPeriod = errors.New("dynamo: emission period must be positive")

	// ErrInvalidCapacity indicates a particle pool capacity below one.
	ErrInvalidCapacity = errors.New("dynamo: pool capacity must be at least 1")

	// ErrUnknownShape indicates a collider descriptor with an unknown shape tag.
	ErrUnknownShape = errors.New("dynamo: unknown collider shape")

	// ErrTemplateNotFound indicates the host has no proxy template by that name.
	ErrTemplateNotFound = errors.New("dynamo: proxy template not found")

	// ErrInvalidState indicates a particle whose position or velocity is NaN or Inf.
	ErrInvalidState = errors.New("dynamo: invalid particle state (NaN or Inf detected)")

	// ErrContextCanceled indicates a batch run was interrupted between ticks.
	ErrContextCanceled = errors.New("dynamo: simulation canceled by context")
)

// SimulationError wraps an error with simulation context.
type SimulationError struct {
	Step    int
	Time    float64
	Wrapped error
}

func (e *SimulationError) Error() string {
	return e.Wrapped.Error()
}

func (e *SimulationError) Unwrap() error {
	return e.Wrapped
}
