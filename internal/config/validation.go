package config

import (
	"fmt"
	"regexp"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// ErrDuplicateAuthor is returned when two roster entries share a nickname.
var ErrDuplicateAuthor = errors.ContentError("duplicate author nickname").Build()

// Validate validates the configuration.
func (c *Config) Validate() error {
	if err := validation.ValidateStruct(c,
		validation.Field(&c.URL, validation.Required, is.URL),
		validation.Field(&c.Repo, validation.When(c.LinkToSource, validation.Required), is.URL),
		validation.Field(&c.Authors),
		validation.Field(&c.Atom),
		validation.Field(&c.Navbar),
	); err != nil {
		return err
	}
	if c.From != nil {
		if err := c.From.Validate(); err != nil {
			return fmt.Errorf("from: %w", err)
		}
	}
	return c.Events.Validate()
}

// Validate validates a roster entry.
func (a Author) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Nickname, validation.Required),
		validation.Field(&a.Name, validation.Required),
	)
}

// Validate validates the feed configuration.
func (a AtomConfig) Validate() error {
	return validation.ValidateStruct(&a,
		validation.Field(&a.Max, validation.Min(0)),
	)
}

// Validate validates the navigation links.
func (n NavbarConfig) Validate() error {
	return validation.ValidateStruct(&n,
		validation.Field(&n.Start),
		validation.Field(&n.End),
	)
}

// Validate validates a single navigation link.
func (l NavbarLink) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.Path, validation.Required),
		validation.Field(&l.Title, validation.Required),
	)
}

// Validate validates the sender identity.
func (f *FromConfig) Validate() error {
	return validation.ValidateStruct(f,
		validation.Field(&f.Name, validation.Required),
		validation.Field(&f.Email, validation.Required, is.EmailFormat),
	)
}

// Validate validates the event publishing configuration.
func (e EventsConfig) Validate() error {
	return validation.ValidateStruct(&e,
		validation.Field(&e.NATSURL, validation.Match(natsURLRe).Error("must be a nats:// or tls:// URL")),
	)
}

var natsURLRe = regexp.MustCompile(`^(nats|tls|ws|wss)://\S+$`)

func checkUniqueAuthors(authors []Author) error {
	seen := make(map[string]struct{}, len(authors))
	for _, a := range authors {
		if _, dup := seen[a.Nickname]; dup {
			return errors.ContentError("duplicate author nickname").
				WithContext("nickname", a.Nickname).
				Build()
		}
		seen[a.Nickname] = struct{}{}
	}
	return nil
}
