package config

import (
	"fmt"
	"os"
	"time"
)

const (
	defaultEngine       = "pdflatex"
	defaultCodeExec     = "pythontex"
	defaultBibliography = "biber"
	defaultOutputDir    = "./out"
	defaultDebounce     = 500 * time.Millisecond
	defaultSubject      = "texbuilder.builds"
)

// applyDefaults fills unset fields with their defaults.
func (c *Config) applyDefaults() {
	if c.Engine.Command == "" {
		c.Engine.Command = defaultEngine
	}
	if c.Tools.CodeExec == "" {
		c.Tools.CodeExec = defaultCodeExec
	}
	if c.Tools.Bibliography == "" {
		c.Tools.Bibliography = defaultBibliography
	}
	if c.Tools.BibliographyOKExits == nil {
		// biber reports "no citations to process" with exit status 2; a
		// document without citations is not a build failure.
		c.Tools.BibliographyOKExits = []int{2}
	}
	if c.Output.Directory == "" {
		c.Output.Directory = defaultOutputDir
	}
	if c.Watch.Debounce == "" {
		c.Watch.Debounce = "500ms"
	}
	if c.Watch.Interval == "" {
		c.Watch.Interval = "0s"
	}
	if c.Notify.Subject == "" {
		c.Notify.Subject = defaultSubject
	}
	if c.Logging.MaxSizeMB == 0 {
		c.Logging.MaxSizeMB = 10
	}
	if c.Logging.MaxBackups == 0 {
		c.Logging.MaxBackups = 3
	}
}

// Default returns a configuration with all defaults applied.
func Default() *Config {
	cfg := &Config{}
	cfg.applyDefaults()
	return cfg
}

const defaultConfigTemplate = `# texbuilder configuration
engine:
  command: pdflatex        # or lualatex, xelatex
  extra_args: []

tools:
  code_exec: pythontex
  bibliography: biber
  bibliography_ok_exits: [2]  # "nothing to process" statuses, not failures

output:
  directory: ./out

# Entry names never mirrored into the staging directory.
exclude: []

watch:
  debounce: 500ms
  interval: 0s             # >0 enables periodic full rebuilds
  metrics_listen: ""       # e.g. :9464 to expose Prometheus metrics

notify:
  nats_url: ""             # e.g. nats://localhost:4222
  subject: texbuilder.builds

history:
  path: .texbuilder/history.db

logging:
  file: ""                 # rotating log file when set
  max_size_mb: 10
  max_backups: 3
`

// Init writes a default configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return fmt.Errorf("configuration file already exists: %s (use --force to overwrite)", configPath)
	}
	if err := os.WriteFile(configPath, []byte(defaultConfigTemplate), 0o644); err != nil {
		return fmt.Errorf("failed to write configuration: %w", err)
	}
	return nil
}
