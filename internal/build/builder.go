package build

import (
	"context"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"git.home.luguber.info/inful/texbuilder/internal/config"
	"git.home.luguber.info/inful/texbuilder/internal/errors"
	"git.home.luguber.info/inful/texbuilder/internal/logfields"
	"git.home.luguber.info/inful/texbuilder/internal/metrics"
	"git.home.luguber.info/inful/texbuilder/internal/mirror"
	"git.home.luguber.info/inful/texbuilder/internal/publish"
	"git.home.luguber.info/inful/texbuilder/internal/staging"
	"git.home.luguber.info/inful/texbuilder/internal/toolchain"
)

// Preprocessor rewrites a materialized document in place before the first
// engine pass (e.g. a script-preprocessing transform). Optional.
type Preprocessor interface {
	Preprocess(documentPath string) error
}

// Result summarizes one build for history, notification, and logging.
type Result struct {
	BuildID      string
	Document     string
	Outcome      metrics.BuildOutcomeLabel
	EnginePasses int
	ToolsRun     []string
	Duration     time.Duration
	ErrorText    string
}

// Builder compiles LaTeX documents through the staged multi-pass pipeline.
type Builder struct {
	staging    *staging.Manager
	runner     toolchain.Runner
	cfg        *config.Config
	recorder   metrics.Recorder
	preprocess Preprocessor
}

// NewBuilder creates a Builder. A nil runner defaults to subprocess
// execution; a nil recorder disables metrics.
func NewBuilder(cfg *config.Config, runner toolchain.Runner, recorder metrics.Recorder) *Builder {
	if runner == nil {
		runner = toolchain.NewExecRunner()
	}
	if recorder == nil {
		recorder = metrics.NoopRecorder{}
	}
	return &Builder{
		staging:  staging.NewManager(""),
		runner:   runner,
		cfg:      cfg,
		recorder: recorder,
	}
}

// WithPreprocessor attaches an optional document preprocessor (fluent helper).
func (b *Builder) WithPreprocessor(p Preprocessor) *Builder { b.preprocess = p; return b }

// WithStagingBase roots staging directories under baseDir instead of the
// system temp directory (fluent helper).
func (b *Builder) WithStagingBase(baseDir string) *Builder {
	b.staging = staging.NewManager(baseDir)
	return b
}

// Compile runs one build: acquire staging, mirror sources, run the pass
// loop, publish on success or best-effort copy partial artifacts on failure,
// and always release the staging directory.
func (b *Builder) Compile(ctx context.Context, req Request) (*Result, error) {
	res := &Result{
		BuildID:  uuid.NewString(),
		Document: req.Document(),
		Outcome:  metrics.OutcomeFailed,
	}
	start := time.Now()
	slog.Info("Starting build",
		logfields.BuildID(res.BuildID),
		logfields.Document(res.Document),
		logfields.Output(req.OutputDir))

	stagingDir, err := b.staging.Acquire()
	if err != nil {
		b.finish(res, start)
		return res, errors.StagingError("acquire", err)
	}
	defer func() {
		if err := b.staging.Release(stagingDir); err != nil {
			slog.Warn("Failed to release staging directory",
				logfields.BuildID(res.BuildID),
				logfields.Error(err))
		}
	}()

	if err := b.compileStaged(ctx, req, stagingDir, res); err != nil {
		res.ErrorText = err.Error()
		b.finish(res, start)
		slog.Error("Build failed",
			logfields.BuildID(res.BuildID),
			logfields.Document(res.Document),
			logfields.Error(err))
		return res, publish.Recover(stagingDir, req.OutputDir, err)
	}

	res.Outcome = metrics.OutcomeSuccess
	b.finish(res, start)
	slog.Info("Build succeeded",
		logfields.BuildID(res.BuildID),
		logfields.Document(res.Document),
		logfields.Pass(res.EnginePasses),
		logfields.DurationMS(float64(res.Duration.Milliseconds())))
	return res, nil
}

// compileStaged runs the failable pipeline stages inside an acquired staging dir.
func (b *Builder) compileStaged(ctx context.Context, req Request, stagingDir string, res *Result) error {
	if err := mirror.New(req.SourceDir(), req.exclusions()).Populate(stagingDir); err != nil {
		return errors.MirrorError(err)
	}

	if b.preprocess != nil {
		if err := b.preprocess.Preprocess(filepath.Join(stagingDir, req.Document())); err != nil {
			return errors.Wrap(err, errors.CategoryInternal, errors.SeverityFatal, "document preprocessing failed")
		}
	}

	passes := &passRunner{
		runner:   b.runner,
		engine:   b.cfg.Engine,
		tools:    b.cfg.Tools,
		recorder: b.recorder,
	}
	passRes, err := passes.run(ctx, stagingDir, req.Document(), req.DocBase())
	res.EnginePasses = passRes.EnginePasses
	res.ToolsRun = passRes.ToolsRun
	if err != nil {
		return err
	}

	if err := publish.Publish(stagingDir, req.OutputDir, true); err != nil {
		return errors.PublishError(err)
	}
	return nil
}

func (b *Builder) finish(res *Result, start time.Time) {
	res.Duration = time.Since(start)
	b.recorder.ObserveBuildDuration(res.Duration)
	b.recorder.IncBuildOutcome(res.Outcome)
	b.recorder.ObserveEnginePasses(res.EnginePasses)
}
