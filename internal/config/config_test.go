package config

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

const sampleConfig = `url: https://blog.example.org
repo: https://github.com/example/blog
branch: main
link_to_source: true
site_name: Code Maven
footer: Made with care
tags:
  title: All the tags
  description: Tag index
archive:
  title: Archive
  description: Everything
navbar:
  start:
    - path: /about
      title: About
  end: []
from:
  name: Jane
  email: jdoe@example.com
authors:
  - nickname: jdoe
    name: Jane Doe
    picture: jdoe.png
atom:
  max: 10
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), FileName)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_Full(t *testing.T) {
	cfg, err := Load(writeConfig(t, sampleConfig))
	require.NoError(t, err)

	require.Equal(t, "https://blog.example.org", cfg.URL)
	require.True(t, cfg.LinkToSource)
	require.False(t, cfg.BranchDefaulted())
	require.Equal(t, "All the tags", cfg.Tags.Title)
	require.Len(t, cfg.Navbar.Start, 1)
	require.Equal(t, "jdoe@example.com", cfg.From.Email)
	require.Equal(t, 10, cfg.Atom.Max)
	require.False(t, cfg.Events.Enabled())

	a, ok := cfg.Author("jdoe")
	require.True(t, ok)
	require.Equal(t, "Jane Doe", a.Name)
	_, ok = cfg.Author("george")
	require.False(t, ok)
}

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, "url: https://example.com\nevents:\n  nats_url: nats://localhost:4222\n"))
	require.NoError(t, err)

	require.Equal(t, DefaultBranch, cfg.Branch)
	require.True(t, cfg.BranchDefaulted())
	require.Equal(t, "Tags", cfg.Tags.Title)
	require.Equal(t, "Archive", cfg.Archive.Title)
	require.Nil(t, cfg.From)
	require.Equal(t, DefaultEventSubject, cfg.Events.Subject)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("PAGESMITH_TEST_URL", "https://env.example.com")

	cfg, err := Load(writeConfig(t, "url: ${PAGESMITH_TEST_URL}\n"))
	require.NoError(t, err)
	require.Equal(t, "https://env.example.com", cfg.URL)
}

func TestLoad_UnknownField(t *testing.T) {
	path := writeConfig(t, "url: https://example.com\ncolour: blue\n")

	_, err := Load(path)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategorySchema))

	classified, ok := errors.AsClassified(err)
	require.True(t, ok)
	field, _ := classified.Context().GetString("field")
	require.Equal(t, "colour", field)
	got, _ := classified.Context().GetString("path")
	require.Equal(t, path, got)
}

func TestLoad_DuplicateAuthor(t *testing.T) {
	_, err := Load(writeConfig(t, `url: https://example.com
authors:
  - nickname: foo
    name: Foo
  - nickname: foo
    name: Other Foo
`))
	require.Error(t, err)
	require.True(t, stderrors.Is(err, ErrDuplicateAuthor))
	require.Contains(t, err.Error(), "nickname=foo")
}

func TestLoad_ValidationFailures(t *testing.T) {
	tests := []struct {
		name    string
		content string
	}{
		{"missing url", "site_name: x\n"},
		{"bad url", "url: not a url\n"},
		{"source links need repo", "url: https://example.com\nlink_to_source: true\n"},
		{"negative atom max", "url: https://example.com\natom:\n  max: -1\n"},
		{"bad from email", "url: https://example.com\nfrom:\n  name: a\n  email: nope\n"},
		{"navbar without title", "url: https://example.com\nnavbar:\n  start:\n    - path: /x\n"},
		{"author without name", "url: https://example.com\nauthors:\n  - nickname: x\n"},
		{"bad nats url", "url: https://example.com\nevents:\n  nats_url: http://x\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			require.True(t, errors.HasCategory(err, errors.CategoryConfig), "got %v", err)
		})
	}
}

func TestLoad_Missing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

type upperRenderer struct{}

func (upperRenderer) Render(src string) (string, error) {
	return "<p>" + strings.TrimSpace(strings.ToUpper(src)) + "</p>", nil
}

func TestWithBios(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, AuthorsDir), 0o750))
	require.NoError(t, os.WriteFile(filepath.Join(root, AuthorsDir, "foo.md"), []byte("---\ntitle: Foo\n---\nwrites things\n"), 0o600))

	cfg := &Config{Authors: []Author{{Nickname: "foo", Name: "Foo"}}}
	withBios, err := cfg.WithBios(root, upperRenderer{})
	require.NoError(t, err)
	require.Equal(t, "<p>WRITES THINGS</p>", withBios.Authors[0].Text)
	require.Empty(t, cfg.Authors[0].Text)
}

func TestWithBios_Missing(t *testing.T) {
	cfg := &Config{Authors: []Author{{Nickname: "ghost", Name: "Ghost"}}}
	_, err := cfg.WithBios(t.TempDir(), upperRenderer{})
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
	require.Contains(t, err.Error(), "ghost.md")
}
