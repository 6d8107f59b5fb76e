// Package events publishes domain notifications to NATS.
package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	SubjectAssignmentCreated = "erms.assignment.created"
	SubjectProjectDeleted    = "erms.project.deleted"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, payload any) error
	Close()
}

// ProjectDeleted is the payload of SubjectProjectDeleted. Assignments that
// referenced the project are not removed, so consumers can clean them up.
type ProjectDeleted struct {
	ProjectID uint `json:"projectId"`
	ManagerID uint `json:"managerId"`
}

type NATS struct {
	conn *nats.Conn
}

func NewNATS(url string) (*NATS, error) {
	nc, err := nats.Connect(url,
		nats.Name("erms"),
		nats.Timeout(5*time.Second),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("connect to nats %s: %w", url, err)
	}
	return &NATS{conn: nc}, nil
}

func (n *NATS) Publish(ctx context.Context, subject string, payload any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode %s event: %w", subject, err)
	}
	return n.conn.Publish(subject, data)
}

// Close flushes buffered messages before closing the connection.
func (n *NATS) Close() {
	_ = n.conn.Drain()
}

// Nop discards every event. It is used when no NATS URL is configured.
type Nop struct{}

func (Nop) Publish(context.Context, string, any) error { return nil }

func (Nop) Close() {}

// Recorder keeps published events in memory.
type Recorder struct {
	Events []Event
}

type Event struct {
	Subject string
	Payload any
}

func (r *Recorder) Publish(_ context.Context, subject string, payload any) error {
	r.Events = append(r.Events, Event{Subject: subject, Payload: payload})
	return nil
}

func (r *Recorder) Close() {}
