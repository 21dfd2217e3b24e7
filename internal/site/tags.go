package site

import (
	"slices"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.home.luguber.info/inful/pagesmith/internal/document"
)

var punctuationNames = map[string]string{
	"!":  "exclamation-mark",
	"\"": "double-quote",
	"#":  "number-sign",
	"$":  "dollar",
	"%":  "percent-sign",
	"&":  "ampersand",
	"'":  "single-quote",
	"(":  "open-parenthesis",
	")":  "close-parenthesis",
	"*":  "asterisk",
	"+":  "plus",
	",":  "comma",
	"-":  "hyphen-minus",
	".":  "full-stop",
	"/":  "forward-slash",
	":":  "colon",
	";":  "semi-colon",
	"<":  "less-than",
	"=":  "equals",
	">":  "greater-than",
	"?":  "question-mark",
	"@":  "at-sign",
	"[":  "opening-bracket",
	"\\": "back-slash",
	"]":  "closing-bracket",
	"^":  "caret",
	"`":  "backtick",
}

// ToPath maps a tag to the base name of its listing page. Single punctuation
// characters get a spelled-out name; anything else has spaces replaced by
// underscores and is lower-cased.
func ToPath(tag string) string {
	if name, ok := punctuationNames[tag]; ok {
		return name
	}
	return lowerTag(strings.ReplaceAll(tag, " ", "_"))
}

// lowerTag lower-cases with Unicode rules. A Caser keeps state, so each call
// gets its own.
func lowerTag(tag string) string {
	return cases.Lower(language.Und).String(tag)
}

// writableTag reports whether a tag can be turned into a file name.
func writableTag(tag string) bool {
	if tag == ".." {
		return false
	}
	return tag == "/" || !strings.Contains(tag, "/")
}

// Keywords keeps the tags made only of letters, digits and spaces.
func Keywords(tags []string) []string {
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		ok := true
		for _, r := range t {
			if !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != ' ' {
				ok = false
				break
			}
		}
		if ok {
			out = append(out, t)
		}
	}
	return out
}

type tagLink struct {
	Name  string
	Path  string
	Count int
}

// tagIndex groups listed documents by lower-cased tag, keeping corpus order.
type tagIndex map[string][]*document.Document

func collectTags(docs []*document.Document) tagIndex {
	idx := make(tagIndex)
	for _, d := range docs {
		if !d.Listed() || d.IsArchive() {
			continue
		}
		seen := make(map[string]struct{}, len(d.Tags))
		for _, t := range d.Tags {
			key := lowerTag(t)
			if _, dup := seen[key]; dup {
				continue
			}
			seen[key] = struct{}{}
			idx[key] = append(idx[key], d)
		}
	}
	return idx
}

func (idx tagIndex) sortedNames() []string {
	names := make([]string, 0, len(idx))
	for name := range idx {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

func (idx tagIndex) links() []tagLink {
	names := idx.sortedNames()
	out := make([]tagLink, 0, len(names))
	for _, name := range names {
		if !writableTag(name) {
			continue
		}
		out = append(out, tagLink{Name: name, Path: ToPath(name), Count: len(idx[name])})
	}
	return out
}
