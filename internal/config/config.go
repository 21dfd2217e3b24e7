package config

import (
	"bytes"
	stderrors "errors"
	"io/fs"
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
)

// FileName is the configuration file looked up in the site root.
const FileName = "config.yaml"

// Config represents the site configuration.
type Config struct {
	URL             string        `yaml:"url"`
	Repo            string        `yaml:"repo"`
	Branch          string        `yaml:"branch"`
	LinkToSource    bool          `yaml:"link_to_source"`
	SiteName        string        `yaml:"site_name"`
	Footer          string        `yaml:"footer"`
	GoogleAnalytics string        `yaml:"google_analytics"`
	Tags            SectionConfig `yaml:"tags"`
	Archive         SectionConfig `yaml:"archive"`
	Navbar          NavbarConfig  `yaml:"navbar"`
	From            *FromConfig   `yaml:"from,omitempty"`
	Authors         []Author      `yaml:"authors"`
	Atom            AtomConfig    `yaml:"atom"`
	Highlight       bool          `yaml:"highlight"`
	Events          EventsConfig  `yaml:"events"`

	branchDefaulted bool
}

// BranchDefaulted reports whether branch was absent from the file and set to
// DefaultBranch. Callers may replace it with the checked-out branch.
func (c *Config) BranchDefaulted() bool {
	return c.branchDefaulted
}

// SectionConfig titles one of the generated listing pages.
type SectionConfig struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
}

// NavbarConfig lists the navigation links rendered on every page.
type NavbarConfig struct {
	Start []NavbarLink `yaml:"start"`
	End   []NavbarLink `yaml:"end"`
}

// NavbarLink is a single navigation entry.
type NavbarLink struct {
	Path  string `yaml:"path"`
	Title string `yaml:"title"`
}

// FromConfig is the sender identity for outgoing mail.
type FromConfig struct {
	Name  string `yaml:"name"`
	Email string `yaml:"email"`
}

// Author is an entry of the author roster.
//
// Text is the rendered bio; it is never read from the configuration file.
type Author struct {
	Nickname string `yaml:"nickname"`
	Name     string `yaml:"name"`
	Picture  string `yaml:"picture"`
	Text     string `yaml:"-"`
}

// AtomConfig controls the feed. Max 0 means no cap.
type AtomConfig struct {
	Max int `yaml:"max"`
}

// EventsConfig enables publishing a message after each build.
type EventsConfig struct {
	NATSURL string `yaml:"nats_url"`
	Subject string `yaml:"subject"`
}

// Enabled reports whether build events should be published.
func (e EventsConfig) Enabled() bool {
	return e.NATSURL != ""
}

// Author looks up a roster entry by nickname.
func (c *Config) Author(nickname string) (Author, bool) {
	for _, a := range c.Authors {
		if a.Nickname == nickname {
			return a, true
		}
	}
	return Author{}, false
}

// Load reads, decodes, defaults and validates the configuration at configPath.
//
// Unknown fields are rejected. Environment variables in the file are expanded
// before decoding.
func Load(configPath string) (*Config, error) {
	// #nosec G304 -- configPath comes from the command line.
	data, err := os.ReadFile(configPath)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NotFoundError("configuration file not found").
				WithContext("path", configPath).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read config file").
			Fatal().
			WithContext("path", configPath).
			Build()
	}

	cfg, err := Parse([]byte(os.ExpandEnv(string(data))))
	if err != nil {
		if classified, ok := errors.AsClassified(err); ok {
			return nil, classified.WithContext("path", configPath)
		}
		return nil, err
	}
	return cfg, nil
}

// Parse decodes configuration bytes. See Load.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		b := errors.WrapError(err, errors.CategorySchema, "invalid configuration").Fatal()
		if field, ok := frontmatter.UnknownField(err); ok {
			b = b.WithContext("field", field)
		}
		return nil, b.Build()
	}

	if err := NewDefaultApplier().ApplyDefaults(&cfg); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "failed to apply defaults").Fatal().Build()
	}

	if err := checkUniqueAuthors(cfg.Authors); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryConfig, "invalid configuration").Fatal().Build()
	}
	return &cfg, nil
}
