package watch

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"path/filepath"
	"time"

	"git.home.luguber.info/inful/texbuilder/internal/build"
	"git.home.luguber.info/inful/texbuilder/internal/config"
	"git.home.luguber.info/inful/texbuilder/internal/logfields"
)

// ResultHook observes each completed build (for history recording and
// notifications). err is nil on success.
type ResultHook func(res *build.Result, err error)

// Daemon rebuilds a document whenever its source tree changes. Builds are
// strictly sequential: triggers arriving mid-build coalesce into one rebuild.
type Daemon struct {
	cfg     *config.Config
	builder *build.Builder
	req     build.Request

	onResult       ResultHook
	metricsHandler http.Handler

	trigger chan struct{}
}

// NewDaemon creates a watch daemon for one document.
func NewDaemon(cfg *config.Config, builder *build.Builder, req build.Request) *Daemon {
	return &Daemon{
		cfg:     cfg,
		builder: builder,
		req:     req,
		trigger: make(chan struct{}, 1),
	}
}

// WithResultHook attaches a per-build observer (fluent helper).
func (d *Daemon) WithResultHook(hook ResultHook) *Daemon { d.onResult = hook; return d }

// WithMetricsHandler attaches an HTTP handler served on watch.metrics_listen
// (fluent helper).
func (d *Daemon) WithMetricsHandler(h http.Handler) *Daemon { d.metricsHandler = h; return d }

// Run builds once, then rebuilds on source changes until ctx is canceled.
func (d *Daemon) Run(ctx context.Context) error {
	ignore := append([]string{filepath.Base(d.req.OutputDir)}, d.req.Exclude...)
	watcher, err := NewSourceWatcher(d.req.SourceDir(), ignore, d.cfg.Watch.DebounceDuration(), d.requestRebuild)
	if err != nil {
		return err
	}
	if err := watcher.Start(ctx); err != nil {
		return err
	}
	defer watcher.Stop()

	if interval := d.cfg.Watch.IntervalDuration(); interval > 0 {
		scheduler, err := NewScheduler()
		if err != nil {
			return err
		}
		if _, err := scheduler.SchedulePeriodicRebuild(interval, d.requestRebuild); err != nil {
			return err
		}
		scheduler.Start()
		defer func() {
			if err := scheduler.Stop(); err != nil {
				slog.Warn("Failed to stop scheduler", logfields.Error(err))
			}
		}()
	}

	if d.cfg.Watch.MetricsListen != "" && d.metricsHandler != nil {
		go d.serveMetrics(ctx)
	}

	d.runBuild(ctx)

	for {
		select {
		case <-ctx.Done():
			slog.Info("Watch daemon stopping")
			return nil
		case <-d.trigger:
			d.runBuild(ctx)
		}
	}
}

// requestRebuild coalesces triggers: at most one rebuild is pending at a time.
func (d *Daemon) requestRebuild() {
	select {
	case d.trigger <- struct{}{}:
	default:
	}
}

func (d *Daemon) runBuild(ctx context.Context) {
	if ctx.Err() != nil {
		return
	}
	res, err := d.builder.Compile(ctx, d.req)
	if err != nil {
		slog.Error("Rebuild failed", logfields.Document(d.req.Document()), logfields.Error(err))
	}
	if d.onResult != nil {
		d.onResult(res, err)
	}
}

func (d *Daemon) serveMetrics(ctx context.Context) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", d.metricsHandler)
	server := &http.Server{
		Addr:              d.cfg.Watch.MetricsListen,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = server.Shutdown(shutdownCtx)
	}()

	slog.Info("Serving metrics", slog.String("listen", d.cfg.Watch.MetricsListen))
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		slog.Error("Metrics server failed", logfields.Error(err))
	}
}
