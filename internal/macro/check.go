package macro

import (
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/document"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

// CheckUnexpanded fails if any line outside fenced code still contains `{%`.
// Run it on expanded content before rendering.
func CheckUnexpanded(doc *document.Document) error {
	inCode := false
	for i, line := range strings.Split(doc.Content, "\n") {
		if strings.HasPrefix(line, fence) {
			inCode = !inCode
			continue
		}
		if !inCode && strings.Contains(line, "{%") {
			return errors.ContentError("invalid curly code").
				WithContext("path", doc.Path).
				WithContext("line", i+1).
				WithContext("text", line).
				Build()
		}
	}
	return nil
}
