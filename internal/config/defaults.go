package config

import "fmt"

// DefaultApplier applies defaults for a specific configuration domain.
type DefaultApplier interface {
	ApplyDefaults(cfg *Config) error
	Domain() string
}

// CompositeDefaultApplier applies defaults across all configuration domains.
type CompositeDefaultApplier struct {
	appliers []DefaultApplier
}

// NewDefaultApplier creates a composite default applier with all domain appliers.
func NewDefaultApplier() *CompositeDefaultApplier {
	return &CompositeDefaultApplier{
		appliers: []DefaultApplier{
			&SiteDefaultApplier{},
			&SectionDefaultApplier{},
			&EventsDefaultApplier{},
		},
	}
}

// ApplyDefaults applies defaults for all configuration domains.
func (c *CompositeDefaultApplier) ApplyDefaults(cfg *Config) error {
	for _, applier := range c.appliers {
		if err := applier.ApplyDefaults(cfg); err != nil {
			return fmt.Errorf("applying defaults for %s: %w", applier.Domain(), err)
		}
	}
	return nil
}

// SiteDefaultApplier handles top-level site defaults.
type SiteDefaultApplier struct{}

func (s *SiteDefaultApplier) Domain() string { return "site" }

func (s *SiteDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Branch == "" {
		cfg.Branch = DefaultBranch
		cfg.branchDefaulted = true
	}
	return nil
}

// SectionDefaultApplier titles the generated listing pages.
type SectionDefaultApplier struct{}

func (s *SectionDefaultApplier) Domain() string { return "sections" }

func (s *SectionDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Tags.Title == "" {
		cfg.Tags.Title = "Tags"
	}
	if cfg.Archive.Title == "" {
		cfg.Archive.Title = "Archive"
	}
	return nil
}

// EventsDefaultApplier handles build event defaults.
type EventsDefaultApplier struct{}

func (e *EventsDefaultApplier) Domain() string { return "events" }

func (e *EventsDefaultApplier) ApplyDefaults(cfg *Config) error {
	if cfg.Events.Enabled() && cfg.Events.Subject == "" {
		cfg.Events.Subject = DefaultEventSubject
	}
	return nil
}

const (
	// DefaultBranch is used for source links when neither config nor git name one.
	DefaultBranch = "main"
	// DefaultEventSubject is the NATS subject for build-completed events.
	DefaultEventSubject = "pagesmith.build.completed"
)
