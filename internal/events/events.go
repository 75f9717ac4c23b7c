// Package events publishes session lifecycle notifications to NATS.
package events

import (
	"encoding/json"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"

	"github.com/mentorconnect/backend/internal/models"
)

const (
	SubjectSessionRequested = "session.requested"
	SubjectSessionAccepted  = "session.accepted"
	SubjectSessionRejected  = "session.rejected"
	SubjectSessionCompleted = "session.completed"
	SubjectSessionCancelled = "session.cancelled"
)

// Publisher emits session events. Publishing never fails the operation that
// triggered it.
type Publisher interface {
	PublishSession(subject string, session *models.Session)
	Close()
}

type SessionEvent struct {
	EventType   string               `json:"event_type"`
	SessionID   uuid.UUID            `json:"session_id"`
	StudentID   uuid.UUID            `json:"student_id"`
	MentorID    uuid.UUID            `json:"mentor_id"`
	Status      models.SessionStatus `json:"status"`
	ScheduledAt time.Time            `json:"scheduled_at"`
	MeetingLink string               `json:"meeting_link,omitempty"`
	OccurredAt  time.Time            `json:"occurred_at"`
}

func NewSessionEvent(subject string, s *models.Session) SessionEvent {
	return SessionEvent{
		EventType:   subject,
		SessionID:   s.ID,
		StudentID:   s.StudentID,
		MentorID:    s.MentorID,
		Status:      s.Status,
		ScheduledAt: s.ScheduledAt,
		MeetingLink: s.MeetingLink,
		OccurredAt:  time.Now().UTC(),
	}
}

type NatsPublisher struct {
	conn *nats.Conn
}

func NewNatsPublisher(natsURL string) (*NatsPublisher, error) {
	nc, err := nats.Connect(natsURL, nats.Name("mentorconnect-api"))
	if err != nil {
		return nil, err
	}
	return &NatsPublisher{conn: nc}, nil
}

func (p *NatsPublisher) PublishSession(subject string, session *models.Session) {
	payload, err := json.Marshal(NewSessionEvent(subject, session))
	if err != nil {
		slog.Error("event marshal failed", "subject", subject, "error", err)
		return
	}
	if err := p.conn.Publish(subject, payload); err != nil {
		slog.Error("event publish failed", "subject", subject, "session_id", session.ID, "error", err)
		return
	}
	slog.Debug("event published", "subject", subject, "session_id", session.ID)
}

func (p *NatsPublisher) Close() {
	if err := p.conn.Drain(); err != nil {
		p.conn.Close()
	}
}

// Noop is used when no broker is configured.
type Noop struct{}

func (Noop) PublishSession(string, *models.Session) {}
func (Noop) Close() {}

// New connects to natsURL, falling back to Noop when it is empty or the
// broker is unreachable.
func New(natsURL string) Publisher {
	if natsURL == "" {
		return Noop{}
	}
	p, err := NewNatsPublisher(natsURL)
	if err != nil {
		slog.Warn("NATS unavailable, session events disabled", "url", natsURL, "error", err)
		return Noop{}
	}
	slog.Info("NATS publisher connected", "url", natsURL)
	return p
}
