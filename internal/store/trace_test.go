package store

import (
	"errors"
	"testing"
)

func TestTraceWriteAndRead(t *testing.T) {
	tempDir := t.TempDir()
	runID := "run-1"

	tw, err := NewTraceWriter(tempDir, runID)
	if err != nil {
		t.Fatalf("NewTraceWriter failed: %v", err)
	}

	entries := []TraceEntry{
		{ElapsedSecs: 0.5, BestBound: 100, HasInc: false},
		{ElapsedSecs: 1.2, BestBound: 100, Incumbent: 80, HasInc: true, Gap: 0.25},
		{ElapsedSecs: 2.0, BestBound: 100, Incumbent: 92, HasInc: true, Gap: 0.087},
	}
	for i, e := range entries {
		if err := tw.Write(e); err != nil {
			t.Fatalf("Write %d failed: %v", i, err)
		}
	}
	if err := tw.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}

	got, err := ReadTrace(tempDir, runID)
	if err != nil {
		t.Fatalf("ReadTrace failed: %v", err)
	}
	if len(got) != len(entries) {
		t.Fatalf("Expected %d entries, got %d", len(entries), len(got))
	}
	if got[0].HasInc {
		t.Error("First entry should have no incumbent")
	}
	if got[2].Gap != 0.087 {
		t.Errorf("Expected gap 0.087, got %g", got[2].Gap)
	}
	if got[1].Incumbent != 80 {
		t.Errorf("Expected incumbent 80, got %g", got[1].Incumbent)
	}
}

func TestTraceFlushMakesEntriesVisible(t *testing.T) {
	tempDir := t.TempDir()
	runID := "run-2"

	tw, err := NewTraceWriter(tempDir, runID)
	if err != nil {
		t.Fatalf("NewTraceWriter failed: %v", err)
	}
	defer tw.Close()

	if err := tw.Write(TraceEntry{ElapsedSecs: 1, BestBound: 10}); err != nil {
		t.Fatalf("Write failed: %v", err)
	}
	if err := tw.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}

	got, err := ReadTrace(tempDir, runID)
	if err != nil {
		t.Fatalf("ReadTrace after flush failed: %v", err)
	}
	if len(got) != 1 {
		t.Errorf("Expected 1 entry after flush, got %d", len(got))
	}
}

func TestReadTraceNotFound(t *testing.T) {
	_, err := ReadTrace(t.TempDir(), "missing")
	if !errors.Is(err, ErrNotFound) {
		t.Errorf("Expected ErrNotFound, got %v", err)
	}
}
