package corpus

import (
	"context"
	stderrors "errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/config"
	"git.home.luguber.info/inful/pagesmith/internal/document"
	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
	"git.home.luguber.info/inful/pagesmith/internal/metrics"
)

type site struct {
	root  string
	pages string
}

func newSite(t *testing.T) site {
	t.Helper()
	root := t.TempDir()
	pages := filepath.Join(root, "pages")
	require.NoError(t, os.MkdirAll(pages, 0o750))
	return site{root: root, pages: pages}
}

func (s site) write(t *testing.T, rel, content string) {
	t.Helper()
	path := filepath.Join(s.root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o750))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func page(title, timestamp string, extra ...string) string {
	var b strings.Builder
	b.WriteString("---\ntitle: " + title + "\ntimestamp: " + timestamp + "\n")
	for _, e := range extra {
		b.WriteString(e + "\n")
	}
	b.WriteString("---\n")
	return b.String()
}

func testConfig(t *testing.T, extra string) *config.Config {
	t.Helper()
	cfg, err := config.Parse([]byte("url: https://example.com\n" + extra))
	require.NoError(t, err)
	return cfg
}

func TestAssemble_EmptyCorpusHasOnlyArchive(t *testing.T) {
	s := newSite(t)
	buildTime := time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC)

	c, err := NewAssembler(testConfig(t, ""), WithRoot(s.root), WithClock(func() time.Time { return buildTime })).
		Assemble(context.Background(), s.pages)
	require.NoError(t, err)

	require.Len(t, c.Documents, 1)
	archive := c.Documents[0]
	require.True(t, archive.IsArchive())
	require.True(t, archive.Published)
	require.Equal(t, "Archive", archive.Title)
	require.Equal(t, "2024-03-01T10:20:30", archive.Timestamp)
	require.Empty(t, c.Pages())
}

func TestAssemble_OrderAndArchiveStamp(t *testing.T) {
	s := newSite(t)
	s.write(t, "pages/index.md", page("Home", "2020-01-01T00:00:00")+"Welcome\n")
	s.write(t, "pages/old.md", page("Old", "2021-05-05T10:00:00")+"Old text\n")
	s.write(t, "pages/new.md", page("New", "2023-06-07T08:09:10")+"New text\n")
	s.write(t, "pages/notes.txt", "not a page")
	require.NoError(t, os.MkdirAll(filepath.Join(s.pages, "drafts.md"), 0o750))

	c, err := NewAssembler(testConfig(t, ""), WithRoot(s.root)).Assemble(context.Background(), s.pages)
	require.NoError(t, err)

	var slugs []string
	for _, d := range c.Documents {
		slugs = append(slugs, d.Slug)
	}
	require.Equal(t, []string{"archive", "new", "old", ""}, slugs)
	require.Equal(t, "2023-06-07T08:09:10", c.Documents[0].Timestamp)
	require.Equal(t, "<p>New text</p>\n", c.Documents[1].Content)
}

func TestAssemble_ExpandsRendersAndLinks(t *testing.T) {
	s := newSite(t)
	s.write(t, "pages/index.md", page("Home", "2020-01-01T00:00:00")+"{% latest limit=0 %}\n")
	s.write(t, "pages/alpha.md", page("Alpha", "2021-01-01T00:00:00", "tags: [go]")+"See [beta](/beta)\n\n![diagram](img/a.png)\n")
	s.write(t, "pages/beta.md", page("Beta", "2022-01-01T00:00:00")+"Plain\n")

	c, err := NewAssembler(testConfig(t, ""), WithRoot(s.root)).Assemble(context.Background(), s.pages)
	require.NoError(t, err)

	home, ok := c.Find("")
	require.True(t, ok)
	require.Contains(t, home.Content, `<a href="/beta">Beta</a>`)
	require.Contains(t, home.Content, `<a href="/alpha">Alpha</a>`)

	beta, ok := c.Find("beta")
	require.True(t, ok)
	require.Len(t, beta.Backlinks, 2)
	require.Equal(t, "Home", beta.Backlinks[0].FromTitle)
	require.Equal(t, "Alpha", beta.Backlinks[1].FromTitle)

	alpha, ok := c.Find("alpha")
	require.True(t, ok)
	require.Equal(t, []string{"img/a.png"}, alpha.Assets)
	require.Equal(t, []string{"img/a.png"}, c.Assets)
}

func TestAssemble_UnknownAuthor(t *testing.T) {
	s := newSite(t)
	s.write(t, "pages/a.md", page("A", "2021-01-01T00:00:00", "author: george")+"text\n")

	_, err := NewAssembler(testConfig(t, "")).Assemble(context.Background(), s.pages)
	require.Error(t, err)
	require.True(t, stderrors.Is(err, ErrUnknownAuthor))
	require.Contains(t, err.Error(), "george")
	require.Contains(t, err.Error(), "a.md")
}

func TestAssemble_KnownAuthorLoadsBio(t *testing.T) {
	s := newSite(t)
	s.write(t, "pages/a.md", page("A", "2021-01-01T00:00:00", "author: foobar")+"text\n")
	s.write(t, "authors/foobar.md", "---\n---\nI write **things**.\n")
	cfg := testConfig(t, "authors:\n  - nickname: foobar\n    name: Foo Bar\n")

	c, err := NewAssembler(cfg, WithRoot(s.root)).Assemble(context.Background(), s.pages)
	require.NoError(t, err)
	a, ok := c.Author("foobar")
	require.True(t, ok)
	require.Contains(t, a.Text, "<strong>things</strong>")
	require.Empty(t, cfg.Authors[0].Text)
}

func TestAssemble_InvariantViolations(t *testing.T) {
	tests := []struct {
		name  string
		files map[string]string
		want  error
		text  string
	}{
		{
			name: "duplicate timestamp",
			files: map[string]string{
				"pages/a.md": page("A", "2021-01-01T00:00:00"),
				"pages/b.md": page("B", "2021-01-01T00:00:00"),
			},
			want: ErrDuplicateTimestamp,
			text: "2021-01-01T00:00:00",
		},
		{
			name:  "archive slug reserved",
			files: map[string]string{"pages/archive.md": page("Mine", "2021-01-01T00:00:00")},
			want:  ErrDuplicateSlug,
			text:  "archive",
		},
		{
			name:  "unexpanded macro",
			files: map[string]string{"pages/a.md": page("A", "2021-01-01T00:00:00") + "{% unknown %}\n"},
			want:  nil,
			text:  "invalid curly code",
		},
		{
			name:  "bad front matter",
			files: map[string]string{"pages/a.md": "---\ntitle: A\ntimestamp: 2021-01-01T00:00:00\ncolor: red\n---\n"},
			want:  document.ErrMetadataParse,
			text:  "color",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newSite(t)
			for rel, content := range tt.files {
				s.write(t, rel, content)
			}
			_, err := NewAssembler(testConfig(t, ""), WithRoot(s.root)).Assemble(context.Background(), s.pages)
			require.Error(t, err)
			if tt.want != nil {
				require.True(t, stderrors.Is(err, tt.want), "got %v", err)
			}
			require.Contains(t, err.Error(), tt.text)
		})
	}
}

func TestAssemble_MissingPagesDir(t *testing.T) {
	_, err := NewAssembler(testConfig(t, "")).Assemble(context.Background(), filepath.Join(t.TempDir(), "nope"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryNotFound))
}

func TestAssemble_CancelledContext(t *testing.T) {
	s := newSite(t)
	s.write(t, "pages/a.md", page("A", "2021-01-01T00:00:00"))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewAssembler(testConfig(t, ""), WithRoot(s.root)).Assemble(ctx, s.pages)
	require.ErrorIs(t, err, context.Canceled)
}

type stageRecorder struct {
	metrics.NoopRecorder
	stages []string
	docs   int
}

func (r *stageRecorder) ObserveStageDuration(stage string, _ time.Duration) {
	r.stages = append(r.stages, stage)
}

func (r *stageRecorder) SetDocuments(n int) { r.docs = n }

func TestAssemble_RecordsStages(t *testing.T) {
	s := newSite(t)
	s.write(t, "pages/a.md", page("A", "2021-01-01T00:00:00")+"a\n")
	rec := &stageRecorder{}

	_, err := NewAssembler(testConfig(t, ""), WithRoot(s.root), WithRecorder(rec)).Assemble(context.Background(), s.pages)
	require.NoError(t, err)
	require.Equal(t, []string{StageLoad, StageValidate, StageExpand, StageRender, StageLink}, rec.stages)
	require.Equal(t, 2, rec.docs)
}

func TestCorpus_Queries(t *testing.T) {
	s := newSite(t)
	s.write(t, "pages/index.md", page("Home", "2024-01-01T00:00:00"))
	s.write(t, "pages/draft.md", page("Draft", "2024-02-01T00:00:00", "published: false", "todo:", "  - finish"))
	s.write(t, "pages/old.md", page("Old", "2020-02-01T00:00:00"))

	c, err := NewAssembler(testConfig(t, ""), WithRoot(s.root)).LoadDocuments(s.pages)
	require.NoError(t, err)

	require.Len(t, c.Documents, 4)
	require.Len(t, c.Pages(), 3)

	drafts := c.Drafts()
	require.Len(t, drafts, 1)
	require.Equal(t, "draft", drafts[0].Slug)

	todos := c.WithTodo()
	require.Len(t, todos, 1)
	require.Equal(t, []string{"finish"}, todos[0].Todo)

	recent := c.Since(time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC))
	require.Len(t, recent, 1)
	require.Equal(t, "draft", recent[0].Slug)
}
