// Package notify publishes per-build outcome events to NATS so external
// systems (CI dashboards, chat hooks) can react to builds.
package notify

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"git.home.luguber.info/inful/texbuilder/internal/logfields"
)

// BuildEvent is the wire format for one completed build.
type BuildEvent struct {
	BuildID      string    `json:"build_id"`
	Document     string    `json:"document"`
	Outcome      string    `json:"outcome"`
	EnginePasses int       `json:"engine_passes"`
	ToolsRun     []string  `json:"tools_run,omitempty"`
	DurationMS   int64     `json:"duration_ms"`
	Error        string    `json:"error,omitempty"`
	Timestamp    time.Time `json:"timestamp"`
}

// Publisher publishes build events to a NATS subject.
type Publisher struct {
	conn    *nats.Conn
	subject string
}

// NewPublisher connects to NATS and returns a Publisher.
func NewPublisher(url, subject string) (*Publisher, error) {
	if url == "" {
		return nil, fmt.Errorf("NATS URL is required")
	}
	conn, err := nats.Connect(url,
		nats.RetryOnFailedConnect(true),
		nats.MaxReconnects(-1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &Publisher{conn: conn, subject: subject}, nil
}

// Publish sends one build event. Failures are logged, not fatal: a build must
// never fail because its notification could not be delivered.
func (p *Publisher) Publish(event BuildEvent) {
	data, err := json.Marshal(event)
	if err != nil {
		slog.Warn("Failed to marshal build event", logfields.Error(err))
		return
	}
	if err := p.conn.Publish(p.subject, data); err != nil {
		slog.Warn("Failed to publish build event",
			logfields.BuildID(event.BuildID),
			logfields.Error(err))
		return
	}
	slog.Debug("Published build event",
		logfields.BuildID(event.BuildID),
		slog.String("subject", p.subject))
}

// Close drains and closes the NATS connection.
func (p *Publisher) Close() {
	if p.conn != nil {
		_ = p.conn.Drain()
	}
}
