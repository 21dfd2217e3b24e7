package notify

import (
	"strings"

	"github.com/inful/mdfp"

	"git.home.luguber.info/inful/pagesmith/internal/document"
	"git.home.luguber.info/inful/pagesmith/internal/frontmatter"
)

// Fingerprint identifies the mailed version of d. It hashes the fields that
// end up in the message (title, timestamp) together with the body, so editing
// the page yields a new fingerprint and a fresh round of deliveries.
func Fingerprint(d *document.Document) (string, error) {
	fields := map[string]any{
		"title":     d.Title,
		"timestamp": d.Timestamp,
	}
	serialized, err := frontmatter.SerializeYAML(fields)
	if err != nil {
		return "", err
	}
	fm := strings.TrimSuffix(string(serialized), "\n")
	return mdfp.CalculateFingerprintFromParts(fm, d.Content), nil
}
