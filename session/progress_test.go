package session

import (
	"testing"
	"time"

	"modpack-launcher/events"
)

func TestProgressSinkKeepsLatestPerOp(t *testing.T) {
	bus := events.NewBus()
	updates := make(chan events.InstallProgress, 10)
	sink := NewProgressSink(bus, func(ev events.InstallProgress) { updates <- ev })
	defer sink.Close()

	publish := func(ev events.InstallProgress) {
		t.Helper()
		bus.Publish(ev)
		select {
		case <-updates:
		case <-time.After(time.Second):
			t.Fatal("progress event never reached the sink")
		}
	}

	publish(events.InstallProgress{OpID: "op-1", Instance: "Sodium", Progress: 40, Stage: "Downloading pack"})
	publish(events.InstallProgress{OpID: "op-2", Instance: "Sodium", Progress: 10, Stage: "Resolving version"})
	publish(events.InstallProgress{OpID: "op-1", Instance: "Sodium", Progress: 90, Stage: "Recording install"})

	record, ok := sink.Get("op-1")
	if !ok {
		t.Fatal("no record for op-1")
	}
	if record.Progress != 90 || record.Stage != "Recording install" {
		t.Errorf("op-1 record = %+v, want the latest event", record)
	}

	// Same instance name, different operation: records stay separate
	record, ok = sink.Get("op-2")
	if !ok {
		t.Fatal("no record for op-2")
	}
	if record.Progress != 10 {
		t.Errorf("op-2 progress = %d, want 10", record.Progress)
	}
}

func TestProgressSinkForget(t *testing.T) {
	bus := events.NewBus()
	updates := make(chan events.InstallProgress, 10)
	sink := NewProgressSink(bus, func(ev events.InstallProgress) { updates <- ev })
	defer sink.Close()

	bus.Publish(events.InstallProgress{OpID: "op-1", Progress: 100, Stage: "Complete"})
	select {
	case <-updates:
	case <-time.After(time.Second):
		t.Fatal("progress event never reached the sink")
	}

	sink.Forget("op-1")
	if _, ok := sink.Get("op-1"); ok {
		t.Error("record survived Forget")
	}
}
