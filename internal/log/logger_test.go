package log

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMemoryLoggerSequencesEvents(t *testing.T) {
	l := NewMemoryLogger()
	l.Log(NewTurnEvent(1, "P1"))
	l.Log(NewHPChangeEvent(1, "P1", "Bot", 5, 3))
	l.Log(NewTurnEvent(2, "P2"))

	events := l.Events()
	if len(events) != 3 {
		t.Fatalf("Expected 3 events, got %d", len(events))
	}
	for i, e := range events {
		if e.Seq != i+1 {
			t.Errorf("Expected seq %d, got %d", i+1, e.Seq)
		}
	}
	if got := l.EventsOfType(EventNewTurn); len(got) != 2 {
		t.Errorf("Expected 2 turn events, got %d", len(got))
	}
	if l.LastEvent().Player != "P2" {
		t.Errorf("Expected last event from P2, got %q", l.LastEvent().Player)
	}
}

func TestFormatEvent(t *testing.T) {
	got := FormatEvent(NewDestroyEvent(3, "P1", "Bot", "state-based"))
	want := "T3  P1      | Bot is destroyed (state-based)"
	if got != want {
		t.Errorf("Expected %q, got %q", want, got)
	}
	if !strings.Contains(FormatEvent(NewAttackEvent(1, "P2", "Bot", 4, 2, "fire")), "(4 before resistances)") {
		t.Error("Expected resisted damage to mention the base amount")
	}
}

func TestTextLoggerWritesLines(t *testing.T) {
	var buf bytes.Buffer
	l := NewTextLogger(&buf)
	l.Log(NewMatchEndEvent(4, "opponent disconnected"))
	if !strings.Contains(buf.String(), "Match ended (opponent disconnected)") {
		t.Errorf("Unexpected output %q", buf.String())
	}
	if len(l.Events()) != 1 {
		t.Error("Expected the text logger to keep events")
	}
}

func TestZapLoggerForwards(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := NewZapLogger(zap.New(core))
	l.Log(NewSummonEvent(1, "P1", "Scrap Drone", "(0,1)"))

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("Expected 1 zap entry, got %d", len(entries))
	}
	if entries[0].ContextMap()["card"] != "Scrap Drone" {
		t.Errorf("Expected card field, got %v", entries[0].ContextMap())
	}
	if l.Events() != nil {
		t.Error("Expected the zap logger to keep nothing")
	}
}

func TestDiscard(t *testing.T) {
	Discard.Log(NewTurnEvent(1, "P1"))
	if Discard.Events() != nil {
		t.Error("Expected Discard to keep nothing")
	}
}
