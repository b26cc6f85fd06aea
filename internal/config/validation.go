package config

import (
	"time"

	"git.home.luguber.info/inful/texbuilder/internal/errors"
)

// Validate checks the configuration for internally inconsistent values.
// Defaults must already be applied.
func (c *Config) Validate() error {
	if c.Engine.Command == "" {
		return errors.ValidationFailed("engine.command", "must not be empty")
	}
	if c.Output.Directory == "" {
		return errors.ValidationFailed("output.directory", "must not be empty")
	}
	if c.Watch.Debounce != "" {
		if d, err := time.ParseDuration(c.Watch.Debounce); err != nil {
			return errors.ValidationFailed("watch.debounce", "not a valid duration: "+c.Watch.Debounce)
		} else if d <= 0 {
			return errors.ValidationFailed("watch.debounce", "must be positive")
		}
	}
	if c.Watch.Interval != "" {
		if d, err := time.ParseDuration(c.Watch.Interval); err != nil {
			return errors.ValidationFailed("watch.interval", "not a valid duration: "+c.Watch.Interval)
		} else if d < 0 {
			return errors.ValidationFailed("watch.interval", "must not be negative")
		}
	}
	for _, code := range c.Tools.BibliographyOKExits {
		if code <= 0 {
			return errors.ValidationFailed("tools.bibliography_ok_exits", "exit statuses must be positive")
		}
	}
	if c.Notify.NATSURL != "" && c.Notify.Subject == "" {
		return errors.ValidationFailed("notify.subject", "required when nats_url is set")
	}
	return nil
}
