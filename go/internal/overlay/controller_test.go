package overlay

import (
	"reflect"
	"testing"

	"github.com/mcdev12/brickgame/go/internal/models"
)

type fakeView struct {
	calls   []string
	visible bool
	text    string
	exit    bool
}

func (v *fakeView) ShowOverlay(text string) {
	v.calls = append(v.calls, "show")
	v.visible = true
	v.text = text
}

func (v *fakeView) HideOverlay() {
	v.calls = append(v.calls, "hide")
	v.visible = false
}

func (v *fakeView) SetExitEnabled(enabled bool) {
	if enabled {
		v.calls = append(v.calls, "exit-on")
	} else {
		v.calls = append(v.calls, "exit-off")
	}
	v.exit = enabled
}

func TestResolve(t *testing.T) {
	texts := DefaultTexts()
	tests := []struct {
		status models.Status
		want   State
	}{
		{models.StatusStart, State{Visible: true, Text: texts.Start, ExitEnabled: true}},
		{models.StatusGameover, State{Visible: true, Text: texts.Gameover, ExitEnabled: true}},
		{models.StatusPause, State{Visible: true, Text: "Пауза...", ExitEnabled: false}},
		{models.StatusRunning, State{ExitEnabled: true}},
		{models.Status("Victory"), State{ExitEnabled: true}},
		{models.Status(""), State{ExitEnabled: true}},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			if got := Resolve(tt.status, texts); got != tt.want {
				t.Fatalf("expected %+v, got %+v", tt.want, got)
			}
		})
	}
}

func TestApplyResetsBeforeEvaluating(t *testing.T) {
	view := &fakeView{}
	c := NewController(view, DefaultTexts())

	c.Apply(models.StatusSnapshot{Status: models.StatusPause})
	want := []string{"hide", "exit-on", "show", "exit-off"}
	if !reflect.DeepEqual(view.calls, want) {
		t.Fatalf("expected calls %v, got %v", want, view.calls)
	}
	if view.exit || c.ExitEnabled() {
		t.Fatalf("expected exit disabled while paused")
	}
}

func TestLeavingPauseReenablesExit(t *testing.T) {
	view := &fakeView{}
	c := NewController(view, DefaultTexts())

	c.Apply(models.StatusSnapshot{Status: models.StatusPause})
	c.Apply(models.StatusSnapshot{Status: models.StatusRunning})

	if !view.exit || !c.ExitEnabled() {
		t.Fatalf("expected exit re-enabled after pause")
	}
	if view.visible {
		t.Fatalf("expected overlay hidden while running")
	}
}

func TestUnknownStatusClearsStaleOverlay(t *testing.T) {
	view := &fakeView{}
	c := NewController(view, DefaultTexts())

	c.Apply(models.StatusSnapshot{Status: models.StatusGameover})
	if !view.visible || view.text != DefaultTexts().Gameover || !view.exit {
		t.Fatalf("expected gameover overlay with exit enabled, got %+v", view)
	}

	c.Apply(models.StatusSnapshot{Status: models.Status("Something")})
	if view.visible {
		t.Fatalf("expected unknown status to hide the overlay")
	}
}
