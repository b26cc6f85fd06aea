package main

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/texbuilder/internal/build"
	"git.home.luguber.info/inful/texbuilder/internal/config"
	"git.home.luguber.info/inful/texbuilder/internal/history"
	"git.home.luguber.info/inful/texbuilder/internal/notify"
)

// resultSink fans each build result out to the optional history store and
// NATS notifier. Both are best effort: recording problems never fail a build.
type resultSink struct {
	store     *history.Store
	publisher *notify.Publisher
}

func newResultSink(cfg *config.Config) *resultSink {
	sink := &resultSink{}

	if cfg.History.Path != "" {
		store, err := openHistory(cfg)
		if err != nil {
			slog.Warn("Build history disabled", "error", err)
		} else {
			sink.store = store
		}
	}

	if cfg.Notify.NATSURL != "" {
		publisher, err := notify.NewPublisher(cfg.Notify.NATSURL, cfg.Notify.Subject)
		if err != nil {
			slog.Warn("Build notifications disabled", "error", err)
		} else {
			sink.publisher = publisher
		}
	}
	return sink
}

func openHistory(cfg *config.Config) (*history.Store, error) {
	return history.Open(filepath.Clean(cfg.History.Path))
}

// Record stores and publishes one build result.
func (s *resultSink) Record(res *build.Result, _ error) {
	if res == nil {
		return
	}
	if s.store != nil {
		rec := history.Record{
			BuildID:      res.BuildID,
			Document:     res.Document,
			Outcome:      string(res.Outcome),
			EnginePasses: res.EnginePasses,
			ToolsRun:     res.ToolsRun,
			Duration:     res.Duration,
			ErrorText:    res.ErrorText,
			StartedAt:    time.Now().Add(-res.Duration),
		}
		if err := s.store.Append(context.Background(), rec); err != nil {
			slog.Warn("Failed to record build history", "error", err)
		}
	}
	if s.publisher != nil {
		s.publisher.Publish(notify.BuildEvent{
			BuildID:      res.BuildID,
			Document:     res.Document,
			Outcome:      string(res.Outcome),
			EnginePasses: res.EnginePasses,
			ToolsRun:     res.ToolsRun,
			DurationMS:   res.Duration.Milliseconds(),
			Error:        res.ErrorText,
			Timestamp:    time.Now(),
		})
	}
}

// Close releases sink resources.
func (s *resultSink) Close() {
	if s.store != nil {
		if err := s.store.Close(); err != nil {
			slog.Warn("Failed to close build history", "error", err)
		}
	}
	if s.publisher != nil {
		s.publisher.Close()
	}
}

// joinInside joins rel under root, keeping absolute rel paths as-is.
func joinInside(root, rel string) string {
	if filepath.IsAbs(rel) {
		return rel
	}
	return filepath.Join(root, rel)
}
