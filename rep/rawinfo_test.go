package rep

import (
	"testing"
	"time"
)

func TestIsFinishCorrectNotAFinishEvent(t *testing.T) {
	r := &RawInfo{ClientEvents: []*ClientEvent{{}, {}}}
	if got := r.isFinishCorrect(1); got != FinishIncorrect {
		t.Errorf("isFinishCorrect() = %v, want %v", got, FinishIncorrect)
	}
}

func TestIsFinishCorrectStartMarker(t *testing.T) {
	events := []*ClientEvent{
		{EventStartTime: true, ServerTime: 1000},
		{EventFinish: true, ServerTime: 2000, Time: 1000 * time.Millisecond},
	}
	r := &RawInfo{ClientEvents: events}
	got := r.isFinishCorrect(1)
	if got != FinishCorrectStart {
		t.Errorf("isFinishCorrect() = %v, want %v", got, FinishCorrectStart)
	}
	if events[1].TimeByServerTime != 1000*time.Millisecond {
		t.Errorf("TimeByServerTime = %v, want 1s", events[1].TimeByServerTime)
	}
}

func TestIsFinishCorrectTimeResetMarker(t *testing.T) {
	events := []*ClientEvent{
		{EventTimeReset: true, ServerTime: 500},
		{EventFinish: true, ServerTime: 1500, Time: 1000 * time.Millisecond},
	}
	r := &RawInfo{ClientEvents: events}
	if got := r.isFinishCorrect(1); got != FinishCorrectTR {
		t.Errorf("isFinishCorrect() = %v, want %v", got, FinishCorrectTR)
	}
}

func TestIsFinishCorrectRerunViaHasStartBefore(t *testing.T) {
	events := []*ClientEvent{
		{EventStartTime: true, ServerTime: 0},
		{EventStartTime: true, ServerTime: 1000},
		{EventFinish: true, ServerTime: 3000, Time: 2000 * time.Millisecond},
	}
	r := &RawInfo{ClientEvents: events}
	if got := r.isFinishCorrect(2); got != FinishCorrectTR {
		t.Errorf("isFinishCorrect() = %v, want %v (rerun)", got, FinishCorrectTR)
	}
}

func TestIsFinishCorrectBlockedByChangeUser(t *testing.T) {
	events := []*ClientEvent{
		{EventStartTime: true, ServerTime: 0},
		{EventChangeUser: true, ServerTime: 500},
		{EventFinish: true, ServerTime: 1500, Time: 1000 * time.Millisecond},
	}
	r := &RawInfo{ClientEvents: events}
	if got := r.isFinishCorrect(2); got != FinishIncorrect {
		t.Errorf("isFinishCorrect() = %v, want %v", got, FinishIncorrect)
	}
}

func TestGetCorrectFinishEventPicksSmallestTime(t *testing.T) {
	events := []*ClientEvent{
		{EventStartTime: true, ServerTime: 0},
		{EventFinish: true, ServerTime: 5000, Time: 5000 * time.Millisecond},
		{EventTimeReset: true, ServerTime: 5100},
		{EventFinish: true, ServerTime: 6000, Time: 900 * time.Millisecond},
	}
	r := &RawInfo{ClientEvents: events}
	fin := r.getCorrectFinishEvent()
	if fin == nil {
		t.Fatal("getCorrectFinishEvent() returned nil")
	}
	if fin.Event.Time != 900*time.Millisecond {
		t.Errorf("getCorrectFinishEvent() picked Time=%v, want 900ms", fin.Event.Time)
	}
}

func TestGetCorrectFinishEventNoneWhenNoFinish(t *testing.T) {
	events := []*ClientEvent{{EventStartTime: true, ServerTime: 0}}
	r := &RawInfo{ClientEvents: events}
	if fin := r.getCorrectFinishEvent(); fin != nil {
		t.Errorf("getCorrectFinishEvent() = %+v, want nil", fin)
	}
}

func TestHasStartBeforeStopsAtChangePmType(t *testing.T) {
	events := []*ClientEvent{
		{EventStartTime: true},
		{EventChangePmType: true},
	}
	r := &RawInfo{ClientEvents: events}
	if r.hasStartBefore(1) {
		t.Error("hasStartBefore() should stop at EventChangePmType and return false")
	}
}
