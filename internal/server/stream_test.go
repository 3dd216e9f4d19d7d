package server

import (
	"fmt"
	"sync"
	"testing"
	"time"
)

func TestBroadcastDeliversToSubscriber(t *testing.T) {
	eb := NewEventBroadcaster()

	ch := eb.Subscribe("run-1")
	defer eb.Unsubscribe("run-1", ch)

	event := ProgressEvent{
		RunID:        "run-1",
		State:        StateRunning,
		ElapsedSecs:  2.5,
		BestBound:    100,
		Incumbent:    90,
		HasIncumbent: true,
		Gap:          0.1,
		Timestamp:    time.Now(),
	}
	eb.Broadcast(event)

	select {
	case got := <-ch:
		if got.Gap != 0.1 {
			t.Errorf("Expected gap 0.1, got %g", got.Gap)
		}
		if !got.HasIncumbent {
			t.Error("Expected incumbent flag set")
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for event")
	}
}

func TestLateSubscriberReceivesLastEvent(t *testing.T) {
	eb := NewEventBroadcaster()

	eb.Broadcast(ProgressEvent{RunID: "run-1", State: StateRunning, Gap: 0.3})

	ch := eb.Subscribe("run-1")
	defer eb.Unsubscribe("run-1", ch)

	select {
	case got := <-ch:
		if got.Gap != 0.3 {
			t.Errorf("Expected cached gap 0.3, got %g", got.Gap)
		}
	case <-time.After(time.Second):
		t.Fatal("Timed out waiting for cached event")
	}
}

func TestBroadcastIgnoresOtherRuns(t *testing.T) {
	eb := NewEventBroadcaster()

	ch := eb.Subscribe("run-1")
	defer eb.Unsubscribe("run-1", ch)

	eb.Broadcast(ProgressEvent{RunID: "run-2", Gap: 0.5})

	select {
	case got := <-ch:
		t.Errorf("Received event for wrong run: %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestUnsubscribeClosesChannel(t *testing.T) {
	eb := NewEventBroadcaster()

	ch := eb.Subscribe("run-1")
	eb.Unsubscribe("run-1", ch)

	if _, ok := <-ch; ok {
		t.Error("Expected channel to be closed after unsubscribe")
	}
}

// Two runs broadcasting at the same time must not trip the race detector:
// every broadcast writes the cached last event, so the fan-out has to hold
// the write lock.
func TestBroadcastConcurrentRuns(t *testing.T) {
	eb := NewEventBroadcaster()

	var wg sync.WaitGroup
	for g := 0; g < 2; g++ {
		runID := fmt.Sprintf("run-%d", g)
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 1000; i++ {
				eb.Broadcast(ProgressEvent{RunID: runID, Gap: float64(i)})
			}
		}()
	}
	wg.Wait()

	for g := 0; g < 2; g++ {
		runID := fmt.Sprintf("run-%d", g)
		ch := eb.Subscribe(runID)
		select {
		case got := <-ch:
			if got.Gap != 999 {
				t.Errorf("Expected cached gap 999 for %s, got %g", runID, got.Gap)
			}
		case <-time.After(time.Second):
			t.Fatalf("Timed out waiting for cached event for %s", runID)
		}
		eb.Unsubscribe(runID, ch)
	}
}

func TestCleanupRun(t *testing.T) {
	eb := NewEventBroadcaster()

	ch := eb.Subscribe("run-1")
	eb.Broadcast(ProgressEvent{RunID: "run-1", Gap: 0.2})
	// Drain the broadcast so the close is the next receive.
	<-ch

	eb.CleanupRun("run-1")

	if _, ok := <-ch; ok {
		t.Error("Expected channel to be closed after cleanup")
	}

	// Cached event must be gone for new subscribers.
	ch2 := eb.Subscribe("run-1")
	defer eb.Unsubscribe("run-1", ch2)
	select {
	case got := <-ch2:
		t.Errorf("Received stale cached event: %+v", got)
	case <-time.After(50 * time.Millisecond):
	}
}
