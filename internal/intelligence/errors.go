package intelligence

import "errors"

// Data-insufficiency conditions. These are expected steady-state results
// for new or small markets, never transient faults: the core performs no
// I/O, so every error here means the caller's data did not meet a stated
// minimum. Callers distinguish them with errors.Is.
var (
	// ErrInsufficientHistory: an agent has fewer than MinAgentEvents
	// behavioral events.
	ErrInsufficientHistory = errors.New("insufficient behavioral history")

	// ErrInsufficientData: fewer than the stated minimum events or
	// snapshots for network building or velocity/cycle computation.
	ErrInsufficientData = errors.New("insufficient data")

	// ErrInsufficientAgents: fewer than MinClusterAgents agents for
	// clustering.
	ErrInsufficientAgents = errors.New("insufficient agents")

	// ErrAgentNotFound: a named agent is absent from a built network.
	ErrAgentNotFound = errors.New("agent not found in network")
)
