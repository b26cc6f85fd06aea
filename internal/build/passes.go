package build

import (
	"context"
	"log/slog"
	"slices"
	"time"

	"git.home.luguber.info/inful/texbuilder/internal/config"
	"git.home.luguber.info/inful/texbuilder/internal/errors"
	"git.home.luguber.info/inful/texbuilder/internal/logfields"
	"git.home.luguber.info/inful/texbuilder/internal/metrics"
	"git.home.luguber.info/inful/texbuilder/internal/toolchain"
)

// passResult summarizes the pass loop for logging and history.
type passResult struct {
	EnginePasses int
	ToolsRun     []string
}

// passRunner drives the conditional multi-pass compilation loop.
type passRunner struct {
	runner   toolchain.Runner
	engine   config.EngineConfig
	tools    config.ToolsConfig
	recorder metrics.Recorder
}

// run executes the pass loop for the document inside stagingDir.
//
// LaTeX cross-reference resolution requires re-running the engine whenever an
// auxiliary tool changes artifacts the engine depends on. Code execution is
// resolved before bibliography because executed code can itself influence
// citation content. The two conditions are independent: both may fire in one
// build, and each firing is followed by exactly one engine re-run.
func (p *passRunner) run(ctx context.Context, stagingDir, document, docBase string) (passResult, error) {
	res := passResult{}

	if err := clearStaleCodeExecState(stagingDir, docBase); err != nil {
		return res, errors.StagingError("clear stale state", err)
	}

	if err := p.runEngine(ctx, stagingDir, document, &res); err != nil {
		return res, err
	}

	if artifactExists(stagingDir, docBase, codeExecSuffix) {
		if err := p.runTool(ctx, p.tools.CodeExec, toolchain.CodeExecArgs(document), stagingDir, &res); err != nil {
			return res, err
		}
		if err := p.runEngine(ctx, stagingDir, document, &res); err != nil {
			return res, err
		}
	}

	if artifactExists(stagingDir, docBase, bibControlSuffix) {
		if err := p.runBibliography(ctx, stagingDir, docBase, &res); err != nil {
			return res, err
		}
		if err := p.runEngine(ctx, stagingDir, document, &res); err != nil {
			return res, err
		}
	}

	return res, nil
}

func (p *passRunner) runEngine(ctx context.Context, stagingDir, document string, res *passResult) error {
	res.EnginePasses++
	slog.Info("Running typesetting engine",
		logfields.Tool(p.engine.Command),
		logfields.Document(document),
		logfields.Pass(res.EnginePasses))
	return p.invoke(ctx, p.engine.Command, toolchain.EngineArgs(document, p.engine.ExtraArgs), stagingDir)
}

func (p *passRunner) runTool(ctx context.Context, tool string, args []string, stagingDir string, res *passResult) error {
	res.ToolsRun = append(res.ToolsRun, tool)
	slog.Info("Running auxiliary tool", logfields.Tool(tool))
	return p.invoke(ctx, tool, args, stagingDir)
}

// runBibliography tolerates exit statuses that solely indicate "nothing to
// process" (e.g. a document without citations). Anything else is fatal.
func (p *passRunner) runBibliography(ctx context.Context, stagingDir, docBase string, res *passResult) error {
	tool := p.tools.Bibliography
	res.ToolsRun = append(res.ToolsRun, tool)
	slog.Info("Running auxiliary tool", logfields.Tool(tool))

	start := time.Now()
	err := p.runner.Run(ctx, tool, toolchain.BibliographyArgs(docBase), stagingDir)
	if err != nil {
		if slices.Contains(p.tools.BibliographyOKExits, toolchain.ExitStatus(err)) {
			slog.Info("Bibliography tool found nothing to process",
				logfields.Tool(tool),
				slog.Int("exit_status", toolchain.ExitStatus(err)))
			p.recorder.ObserveToolDuration(tool, time.Since(start), true)
			return nil
		}
		p.recorder.ObserveToolDuration(tool, time.Since(start), false)
		return errors.ToolFailed(tool, err)
	}
	p.recorder.ObserveToolDuration(tool, time.Since(start), true)
	return nil
}

func (p *passRunner) invoke(ctx context.Context, tool string, args []string, dir string) error {
	start := time.Now()
	err := p.runner.Run(ctx, tool, args, dir)
	p.recorder.ObserveToolDuration(tool, time.Since(start), err == nil)
	if err != nil {
		return errors.ToolFailed(tool, err)
	}
	return nil
}
