package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestNew_Validation(t *testing.T) {
	_, err := New(Options{Paths: []string{t.TempDir()}}, nil)
	require.Error(t, err)
	_, err = New(Options{}, func(context.Context) error { return nil })
	require.Error(t, err)
}

func TestIgnored(t *testing.T) {
	require.True(t, ignored("/a/.git"))
	require.True(t, ignored("/a/page.md~"))
	require.True(t, ignored("/a/.page.md.swp"))
	require.False(t, ignored("/a/page.md"))
}

func TestRun_RebuildsOnChange(t *testing.T) {
	root := t.TempDir()
	pages := filepath.Join(root, "pages")
	require.NoError(t, os.MkdirAll(pages, 0o750))

	var builds atomic.Int32
	w, err := New(Options{
		Paths:       []string{pages, filepath.Join(root, "config.yaml")},
		QuietWindow: 20 * time.Millisecond,
		MaxDelay:    200 * time.Millisecond,
	}, func(context.Context) error {
		builds.Add(1)
		return nil
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- w.Run(ctx) }()

	require.Eventually(t, func() bool { return builds.Load() == 1 }, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, os.WriteFile(filepath.Join(pages, "a.md"), []byte("a"), 0o600))
	require.Eventually(t, func() bool { return builds.Load() >= 2 }, 5*time.Second, 10*time.Millisecond)

	cancel()
	require.NoError(t, <-done)
}

func TestRunBuild_SkipsUnchangedFingerprint(t *testing.T) {
	fp := "one"
	var builds int
	w := &Watcher{
		opts: Options{Fingerprint: func() (string, error) { return fp, nil }},
		build: func(context.Context) error {
			builds++
			return nil
		},
	}
	w.logger = testLogger()

	w.runBuild(context.Background(), "initial")
	w.runBuild(context.Background(), "quiet")
	require.Equal(t, 1, builds)
	require.Equal(t, 1, w.skipped)

	fp = "two"
	w.runBuild(context.Background(), "quiet")
	require.Equal(t, 2, builds)
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
