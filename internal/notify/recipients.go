package notify

import (
	"bufio"
	"encoding/csv"
	stderrors "errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"regexp"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/logfields"
)

// Recipient is one mail address with an optional display name.
type Recipient struct {
	Name  string
	Email string
}

func (r Recipient) String() string {
	if r.Name == "" {
		return r.Email
	}
	return r.Name + " <" + r.Email + ">"
}

var fullAddress = regexp.MustCompile(`(.+?)\s*<(.+)>`)

// ParseAddress splits "Name <email>" into its parts. Anything else is taken
// as a bare address.
func ParseAddress(s string) Recipient {
	s = strings.TrimSpace(s)
	if m := fullAddress.FindStringSubmatch(s); m != nil {
		return Recipient{Name: strings.TrimSpace(m[1]), Email: strings.TrimSpace(m[2])}
	}
	return Recipient{Email: s}
}

// ReadRecipients loads the recipient list at path.
func ReadRecipients(path string, logger *slog.Logger) ([]Recipient, error) {
	// #nosec G304 -- path is supplied by the operator on the command line.
	f, err := os.Open(path)
	if err != nil {
		if stderrors.Is(err, fs.ErrNotExist) {
			return nil, errors.NotFoundError("recipient list not found").
				WithContext("path", path).
				Build()
		}
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to open recipient list").
			Fatal().
			WithContext("path", path).
			Build()
	}
	defer func() { _ = f.Close() }()
	return ParseRecipients(f, logger)
}

// ParseRecipients reads one recipient per CSV line. Lines starting with '#'
// and lines without an '@' are skipped. The address is taken from the second
// column, or the first when the line has only one.
func ParseRecipients(r io.Reader, logger *slog.Logger) ([]Recipient, error) {
	if logger == nil {
		logger = slog.Default()
	}
	var out []Recipient
	sc := bufio.NewScanner(r)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if strings.HasPrefix(line, "#") || !strings.Contains(line, "@") {
			continue
		}
		cr := csv.NewReader(strings.NewReader(line))
		cr.FieldsPerRecord = -1
		cr.LazyQuotes = true
		fields, err := cr.Read()
		if err != nil {
			logger.Warn("Skipping unreadable recipient line", slog.Int("line", lineNo), logfields.Error(err))
			continue
		}
		field := fields[0]
		if len(fields) > 1 {
			field = fields[1]
		}
		rcpt := ParseAddress(field)
		if !strings.Contains(rcpt.Email, "@") {
			logger.Warn("Skipping line without an address", slog.Int("line", lineNo))
			continue
		}
		out = append(out, rcpt)
	}
	if err := sc.Err(); err != nil {
		return nil, errors.WrapError(err, errors.CategoryFileSystem, "failed to read recipient list").
			Fatal().
			Build()
	}
	return out, nil
}
