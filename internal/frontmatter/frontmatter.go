package frontmatter

import (
	"bufio"
	"bytes"
	"errors"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrMissingClosingDelimiter indicates the document started with a YAML
// frontmatter delimiter but did not contain a closing delimiter.
var ErrMissingClosingDelimiter = errors.New("yaml frontmatter start delimiter found but closing delimiter is missing")

// Split separates YAML frontmatter (`---` delimited) from the Markdown body.
//
// The block must open on the very first line, which must be exactly `---`, and
// closes at the next line that is exactly `---`. If the document does not start
// with the delimiter, had is false and the whole input is body.
//
// Both parts are normalized to `\n` line endings with a trailing newline per line.
func Split(content []byte) (frontmatter []byte, body []byte, had bool, err error) {
	lines := splitLines(content)
	if len(lines) == 0 || lines[0] != delimiter {
		return nil, joinLines(lines), false, nil
	}

	for i := 1; i < len(lines); i++ {
		if lines[i] == delimiter {
			return joinLines(lines[1:i]), joinLines(lines[i+1:]), true, nil
		}
	}
	return nil, nil, false, ErrMissingClosingDelimiter
}

// Join reassembles a document from raw frontmatter and body.
//
// If had is false, Join returns body as-is.
func Join(frontmatter []byte, body []byte, had bool) []byte {
	if !had {
		return body
	}

	out := make([]byte, 0, len(frontmatter)+len(body)+8)
	out = append(out, delimiter+"\n"...)
	out = append(out, frontmatter...)
	if len(frontmatter) > 0 && frontmatter[len(frontmatter)-1] != '\n' {
		out = append(out, '\n')
	}
	out = append(out, delimiter+"\n"...)
	out = append(out, body...)
	return out
}

// Decode strictly decodes raw YAML frontmatter into v. Fields that v does not
// declare are rejected; use UnknownField to recover the offending name.
//
// An empty block leaves v untouched.
func Decode(frontmatter []byte, v any) error {
	if len(bytes.TrimSpace(frontmatter)) == 0 {
		return nil
	}
	dec := yaml.NewDecoder(bytes.NewReader(frontmatter))
	dec.KnownFields(true)
	return dec.Decode(v)
}

var unknownFieldRe = regexp.MustCompile(`field (\S+) not found in type`)

// UnknownField reports the first field name rejected by a strict Decode.
func UnknownField(err error) (string, bool) {
	var typeErr *yaml.TypeError
	if !errors.As(err, &typeErr) {
		return "", false
	}
	for _, msg := range typeErr.Errors {
		if m := unknownFieldRe.FindStringSubmatch(msg); m != nil {
			return m[1], true
		}
	}
	return "", false
}

func splitLines(content []byte) []string {
	var lines []string
	sc := bufio.NewScanner(bytes.NewReader(content))
	sc.Buffer(make([]byte, 0, 64*1024), len(content)+1)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	return lines
}

func joinLines(lines []string) []byte {
	var buf bytes.Buffer
	for _, l := range lines {
		buf.WriteString(l)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}
