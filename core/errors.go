package core

import "errors"

var (
	// ErrNoAgents indicates that a session resolved to zero agents and
	// cannot be dispatched.
	ErrNoAgents = errors.New("no resolvable agents selected")

	// ErrInvalidSettings indicates inconsistent refinement settings, for
	// example a maximum output length below the minimum.
	ErrInvalidSettings = errors.New("invalid refinement settings")

	// ErrSessionNotFound indicates an unknown session id.
	ErrSessionNotFound = errors.New("session not found")

	// ErrAgentNotFound indicates an unknown agent id.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrReservedAgentID indicates an attempt to register an agent under
	// the reserved synthesis identifier.
	ErrReservedAgentID = errors.New("agent id is reserved")

	// ErrRecordRegression indicates an attempted status transition out of
	// a terminal record state.
	ErrRecordRegression = errors.New("refinement record already terminal")
)
