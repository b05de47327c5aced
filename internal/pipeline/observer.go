package pipeline

import (
	"time"

	"nate/internal/driver"
)

// stageOf groups driver phases into pipeline stages.
func stageOf(phase string) Stage {
	switch phase {
	case driver.PhaseLoad, driver.PhaseScan, driver.PhaseAssemble:
		return StageScan
	case driver.PhaseGenerate, driver.PhaseValidate:
		return StageGenerate
	default:
		return StageWrite
	}
}

// phaseObserver turns driver phase events of one template into progress
// events, emitting each stage once.
type phaseObserver struct {
	sink     ProgressSink
	template string
	current  Stage
	timings  map[Stage]time.Duration
}

func newPhaseObserver(sink ProgressSink, template string) *phaseObserver {
	return &phaseObserver{sink: sink, template: template, timings: make(map[Stage]time.Duration)}
}

// OnPhase updates the progress UI based on compiler phase events.
func (p *phaseObserver) OnPhase(ev driver.PhaseEvent) {
	stage := stageOf(ev.Name)
	switch ev.Status {
	case driver.PhaseStart:
		if stage == p.current {
			return
		}
		p.current = stage
		emit(p.sink, Event{Template: p.template, Stage: stage, Status: StatusWorking})
	case driver.PhaseEnd:
		p.timings[stage] += ev.Elapsed
	}
}

func emit(sink ProgressSink, ev Event) {
	if sink == nil {
		return
	}
	sink.OnEvent(ev)
}
