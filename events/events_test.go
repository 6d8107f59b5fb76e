package events

import (
	"context"
	"testing"
)

func TestNop(t *testing.T) {
	var p Publisher = Nop{}
	if err := p.Publish(context.Background(), SubjectProjectDeleted, ProjectDeleted{ProjectID: 1}); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	p.Close()
}

func TestRecorder(t *testing.T) {
	r := &Recorder{}
	var p Publisher = r
	_ = p.Publish(context.Background(), SubjectProjectDeleted, ProjectDeleted{ProjectID: 4, ManagerID: 1})

	if len(r.Events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(r.Events))
	}
	got, ok := r.Events[0].Payload.(ProjectDeleted)
	if !ok || got.ProjectID != 4 {
		t.Errorf("payload: %#v", r.Events[0].Payload)
	}
}

func TestNewNATS_Unreachable(t *testing.T) {
	if _, err := NewNATS("nats://127.0.0.1:1"); err == nil {
		t.Fatal("expected connection error")
	}
}
