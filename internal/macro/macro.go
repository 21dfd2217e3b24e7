// Package macro expands the `{% ... %}` directives embedded in page bodies.
//
// Expansion is line oriented. A line starting with ``` toggles fenced code and
// nothing inside a fence is touched. Outside code each line is scanned once for
// the youtube, latest and include directives.
package macro

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"git.home.luguber.info/inful/pagesmith/internal/document"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

const fence = "```"

var (
	// ErrUnknownExtension is returned when an included file has no language mapping.
	ErrUnknownExtension = errors.ContentError("unhandled include extension").Build()
	// ErrIncludeNotFound is returned when an included file cannot be read.
	ErrIncludeNotFound = errors.NotFoundError("include file not found").Build()
	// ErrUnexpandedMacro is returned when directive syntax survives expansion outside code.
	ErrUnexpandedMacro = errors.ContentError("invalid curly code").Build()
	// ErrInvalidLimit is returned when a latest limit does not fit an int.
	ErrInvalidLimit = errors.ContentError("invalid latest limit").Build()
)

const quoted = `["']([^"']*)["']`

var (
	youtubeRe = regexp.MustCompile(`\{%\s*youtube\s+id\s*=\s*` + quoted + `(?:\s+file\s*=\s*` + quoted + `)?\s*%\}`)
	latestRe  = regexp.MustCompile(`\{%\s*latest\s+limit\s*=\s*["']?(\d+)["']?(?:\s+tag\s*=\s*["']([^"']+)["'])?\s*%\}`)
	includeRe = regexp.MustCompile(`\{%\s*include\s+file\s*=\s*` + quoted + `\s*%\}`)

	directives = []*regexp.Regexp{youtubeRe, latestRe, includeRe}
)

// Options configures an Expander.
type Options struct {
	// Root is the directory include paths are resolved against.
	Root string
	// Repo and Branch build the source link placed above included files.
	Repo   string
	Branch string
	// Languages overrides DefaultLanguages when non-nil.
	Languages map[string]string
	// ReadFile defaults to os.ReadFile.
	ReadFile func(string) ([]byte, error)
}

// Expander rewrites macro directives in document bodies.
type Expander struct {
	opts Options
}

// NewExpander creates an Expander.
func NewExpander(opts Options) *Expander {
	if opts.Languages == nil {
		opts.Languages = DefaultLanguages
	}
	if opts.ReadFile == nil {
		opts.ReadFile = readFile
	}
	return &Expander{opts: opts}
}

// Expand returns doc.Content with every directive outside fenced code
// replaced. snapshot is the ordered corpus used by latest; it is only read.
func (e *Expander) Expand(doc *document.Document, snapshot []*document.Document) (string, error) {
	lines := strings.Split(doc.Content, "\n")
	inCode := false
	for i, line := range lines {
		if strings.HasPrefix(line, fence) {
			inCode = !inCode
			continue
		}
		if inCode || !strings.Contains(line, "{%") {
			continue
		}
		expanded, err := e.expandLine(line, snapshot)
		if err != nil {
			if classified, ok := errors.AsClassified(err); ok {
				return "", classified.
					WithContext("path", doc.Path).
					WithContext("line", i+1)
			}
			return "", err
		}
		lines[i] = expanded
	}
	return strings.Join(lines, "\n"), nil
}

// expandLine scans line once from left to right. Text produced by a
// directive is written out as is and never scanned again.
func (e *Expander) expandLine(line string, snapshot []*document.Document) (string, error) {
	var b strings.Builder
	rest := line
	for {
		re, loc := nextDirective(rest)
		if loc == nil {
			b.WriteString(rest)
			return b.String(), nil
		}
		b.WriteString(rest[:loc[0]])
		out, err := e.expandDirective(re, rest[loc[0]:loc[1]], snapshot)
		if err != nil {
			return "", err
		}
		b.WriteString(out)
		rest = rest[loc[1]:]
	}
}

// nextDirective returns the leftmost directive of s and its bounds.
func nextDirective(s string) (*regexp.Regexp, []int) {
	var (
		found *regexp.Regexp
		first []int
	)
	for _, re := range directives {
		loc := re.FindStringIndex(s)
		if loc != nil && (first == nil || loc[0] < first[0]) {
			found, first = re, loc
		}
	}
	return found, first
}

func (e *Expander) expandDirective(re *regexp.Regexp, m string, snapshot []*document.Document) (string, error) {
	sub := re.FindStringSubmatch(m)
	switch re {
	case youtubeRe:
		return youtube(sub[1]), nil
	case latestRe:
		limit, err := strconv.Atoi(sub[1])
		if err != nil {
			return "", errors.WrapError(err, errors.CategoryContent, "invalid latest limit").
				WithContext("limit", sub[1]).
				Build()
		}
		return latest(snapshot, limit, sub[2]), nil
	default:
		return e.include(sub[1])
	}
}

func youtube(id string) string {
	return fmt.Sprintf(`<iframe width="560" height="315" src="https://www.youtube.com/embed/%s" title="YouTube video player" frameborder="0" allow="accelerometer; autoplay; clipboard-write; encrypted-media; gyroscope; picture-in-picture; web-share" allowfullscreen></iframe>`+"\n", id)
}

// latest lists up to limit documents in corpus order. The root and archive
// entries never appear. limit 0 means no limit.
func latest(snapshot []*document.Document, limit int, tag string) string {
	var b strings.Builder
	count := 0
	for _, d := range snapshot {
		if d.IsRoot() || d.IsArchive() {
			continue
		}
		if tag != "" && !d.HasTag(tag) {
			continue
		}
		fmt.Fprintf(&b, "* [%s](/%s)\n", d.Title, d.URLPath())
		count++
		if limit > 0 && count >= limit {
			break
		}
	}
	return b.String()
}

func (e *Expander) include(file string) (string, error) {
	key := languageKey(filepath.Base(file))
	language, ok := e.opts.Languages[key]
	if !ok {
		return "", errors.ContentError("unhandled include extension").
			WithContext("extension", key).
			WithContext("include", file).
			Build()
	}

	content, err := e.opts.ReadFile(filepath.Join(e.opts.Root, file))
	if err != nil {
		return "", errors.WrapError(err, errors.CategoryNotFound, "include file not found").
			Fatal().
			WithContext("include", file).
			Build()
	}

	return fmt.Sprintf("**[%s](%s/tree/%s/%s)**\n%s%s\n%s\n%s\n",
		file, e.opts.Repo, e.opts.Branch, file, fence, language, content, fence), nil
}

func readFile(path string) ([]byte, error) {
	// #nosec G304 -- include paths are authored in the site's own pages.
	return os.ReadFile(path)
}
