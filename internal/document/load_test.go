package document

import (
	stderrors "errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/pagesmith/internal/foundation/errors"
)

func writePage(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoad_RoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := writePage(t, dir, "hello.md", `---
title: Hello World
timestamp: 2023-01-02T03:04:05
description: A greeting
tags:
  - go
  - web
todo:
  - add pictures
author: foobar
---
Some Text.
`)

	doc, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "Hello World", doc.Title)
	require.Equal(t, "2023-01-02T03:04:05", doc.Timestamp)
	require.Equal(t, "A greeting", doc.Description)
	require.Equal(t, []string{"go", "web"}, doc.Tags)
	require.Equal(t, []string{"add pictures"}, doc.Todo)
	require.Equal(t, "foobar", doc.Author)
	require.True(t, doc.Published)
	require.True(t, doc.ShowRelated)
	require.Equal(t, "hello", doc.Slug)
	require.Equal(t, "hello.md", doc.Filename)
	require.Equal(t, path, doc.Path)
	require.Equal(t, time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC), doc.Time)
	require.Equal(t, "Some Text.\n", doc.Content)
}

func TestLoad_IndexIsRoot(t *testing.T) {
	dir := t.TempDir()
	path := writePage(t, dir, "index.md", "---\ntitle: Home\ntimestamp: 2023-01-01T00:00:00\n---\n")

	doc, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "", doc.Slug)
	require.True(t, doc.IsRoot())
}

func TestLoad_ExplicitFalseFlags(t *testing.T) {
	dir := t.TempDir()
	path := writePage(t, dir, "draft.md", "---\ntitle: Draft\ntimestamp: 2023-01-01T00:00:00\npublished: false\nshow_related: false\n---\n")

	doc, err := Load(path)
	require.NoError(t, err)
	require.False(t, doc.Published)
	require.False(t, doc.ShowRelated)
	require.False(t, doc.Listed())
}

func TestLoad_Errors(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name     string
		content  string
		sentinel error
		category errors.ErrorCategory
		field    string
	}{
		{
			name:     "missing title",
			content:  "---\ntimestamp: 2023-01-01T00:00:00\n---\nbody\n",
			sentinel: ErrMissingTitle,
			category: errors.CategoryContent,
		},
		{
			name:     "invalid timestamp",
			content:  "---\ntitle: T\ntimestamp: 2023-01-01 00:00\n---\n",
			sentinel: ErrInvalidTimestamp,
			category: errors.CategorySchema,
			field:    "timestamp",
		},
		{
			name:     "empty tag",
			content:  "---\ntitle: T\ntimestamp: 2023-01-01T00:00:00\ntags: [go, \"\"]\n---\n",
			sentinel: ErrEmptyTag,
			category: errors.CategoryContent,
		},
		{
			name:     "unknown field",
			content:  "---\ntitle: T\ntimestamp: 2023-01-01T00:00:00\nsubtitle: x\n---\n",
			sentinel: ErrMetadataParse,
			category: errors.CategorySchema,
			field:    "subtitle",
		},
		{
			name:     "unterminated front matter",
			content:  "---\ntitle: T\n",
			sentinel: ErrMetadataParse,
			category: errors.CategorySchema,
		},
		{
			name:     "no front matter means no title",
			content:  "just text\n",
			sentinel: ErrMissingTitle,
			category: errors.CategoryContent,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writePage(t, dir, "page.md", tt.content)

			_, err := Load(path)
			require.Error(t, err)
			require.True(t, stderrors.Is(err, tt.sentinel), "got %v", err)
			require.True(t, errors.HasCategory(err, tt.category))

			classified, ok := errors.AsClassified(err)
			require.True(t, ok)
			got, _ := classified.Context().GetString("path")
			require.Equal(t, path, got)
			if tt.field != "" {
				field, _ := classified.Context().GetString("field")
				require.Equal(t, tt.field, field)
			}
		})
	}
}

func TestLoad_NotFound(t *testing.T) {
	path := filepath.Join(t.TempDir(), "missing.md")

	_, err := Load(path)
	require.True(t, stderrors.Is(err, ErrNotFound))
	require.Contains(t, err.Error(), path)
}

func TestSlugFor(t *testing.T) {
	require.Equal(t, "", SlugFor("index.md"))
	require.Equal(t, "about", SlugFor("about.md"))
	require.Equal(t, "a.b", SlugFor("pages/a.b.md"))
}

func TestClone_IsIndependent(t *testing.T) {
	d := &Document{Meta: Meta{Tags: []string{"a"}}, Content: "x"}
	c := d.WithContent("y")
	c.Tags[0] = "b"

	require.Equal(t, "x", d.Content)
	require.Equal(t, "a", d.Tags[0])
	require.Equal(t, "y", c.Content)
}

func TestNewArchive(t *testing.T) {
	now := time.Date(2024, 5, 6, 7, 8, 9, 0, time.UTC)
	a := NewArchive("Archive", now)

	require.True(t, a.IsArchive())
	require.True(t, a.Published)
	require.Equal(t, "2024-05-06T07:08:09", a.Timestamp)
}
