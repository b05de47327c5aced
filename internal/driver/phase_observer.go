package driver

import "time"

// PhaseStatus reports whether a phase started or finished.
type PhaseStatus int

const (
	// PhaseStart indicates that a compilation phase has begun.
	PhaseStart PhaseStatus = iota
	PhaseEnd
)

// Compilation phases in execution order.
const (
	PhaseLoad     = "load"
	PhaseScan     = "scan"
	PhaseAssemble = "assemble"
	PhaseGenerate = "generate"
	PhaseValidate = "validate"
	PhaseStore    = "store"
	PhaseEmbed    = "embed"
)

// Phases lists the compilation phases in order.
var Phases = []string{PhaseLoad, PhaseScan, PhaseAssemble, PhaseGenerate, PhaseValidate, PhaseStore, PhaseEmbed}

// PhaseEvent describes a timing phase boundary.
type PhaseEvent struct {
	Name    string
	Status  PhaseStatus
	Elapsed time.Duration
	Err     error
}

// PhaseObserver receives phase events emitted during Compile.
type PhaseObserver func(PhaseEvent)
