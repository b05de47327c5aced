package ui

import (
	"errors"
	"strings"
	"testing"
	"time"

	"nate/internal/pipeline"
)

func TestProgressModelTracksTemplates(t *testing.T) {
	events := make(chan pipeline.Event)
	m := NewProgressModel("generate", []string{"Greeting (greeting.html)", "Page (page.html)"}, events).(*progressModel)

	m.Update(eventMsg{Template: "Greeting (greeting.html)", Stage: pipeline.StageGenerate, Status: pipeline.StatusWorking})
	m.Update(eventMsg{Template: "Page (page.html)", Stage: pipeline.StageScan, Status: pipeline.StatusError, Err: errors.New("unterminated block\nmore")})
	m.Update(eventMsg{Template: "unknown", Stage: pipeline.StageScan, Status: pipeline.StatusDone})

	view := m.View()
	for _, want := range []string{"generating", "Greeting (greeting.html)", "failed", "unterminated block", "generate 1/2, 1 failed"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q:\n%s", want, view)
		}
	}
	if strings.Contains(view, "more") {
		t.Error("only the first error line is shown")
	}
	if got := m.fraction(); got != (0.5+1)/2 {
		t.Errorf("fraction = %v", got)
	}

	m.Update(eventMsg{Template: "Greeting (greeting.html)", Stage: pipeline.StageWrite, Status: pipeline.StatusDone, Elapsed: 1500 * time.Microsecond})
	m.Update(closedMsg{})
	view = m.View()
	if !strings.Contains(view, "done: generate 2/2, 1 failed") {
		t.Errorf("final header missing:\n%s", view)
	}
	if !strings.Contains(view, "1.5ms") {
		t.Errorf("elapsed time missing:\n%s", view)
	}
}

func TestFailedRowIsFinal(t *testing.T) {
	m := NewProgressModel("generate", []string{"A"}, nil).(*progressModel)
	m.Update(eventMsg{Template: "A", Stage: pipeline.StageScan, Status: pipeline.StatusError, Err: errors.New("boom")})
	m.Update(eventMsg{Template: "A", Stage: pipeline.StageWrite, Status: pipeline.StatusDone})
	if m.rows[0].status != pipeline.StatusError || m.rows[0].label() != "failed" {
		t.Fatalf("row = %+v", m.rows[0])
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("templates/very/long/name.html", 12); got != "templates..." {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("短い", 10); got != "短い" {
		t.Errorf("truncate = %q", got)
	}
	if got := truncate("abcdef", 2); got != "ab" {
		t.Errorf("truncate = %q", got)
	}
}
