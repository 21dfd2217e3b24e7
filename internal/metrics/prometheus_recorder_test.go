package metrics

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
)

func TestPrometheusRecorder(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.ObserveStageDuration("expand", 150*time.Millisecond)
	pr.ObserveBuildDuration(500 * time.Millisecond)
	pr.IncStageResult("expand", ResultSuccess)
	pr.IncBuildOutcome(BuildOutcomeSuccess)
	pr.SetDocuments(3)
	pr.IncArtifact("page")
	pr.IncDelivery(false)

	mfs, err := reg.Gather()
	if err != nil {
		t.Fatalf("gather: %v", err)
	}
	if len(mfs) != 7 {
		t.Fatalf("expected 7 metric families, got %d", len(mfs))
	}
}

func TestNilPrometheusRecorderIsSafe(t *testing.T) {
	var pr *PrometheusRecorder
	pr.ObserveStageDuration("x", time.Second)
	pr.IncArtifact("page")
	pr.IncDelivery(true)
}

func TestWriteTextfile(t *testing.T) {
	reg := prom.NewRegistry()
	pr := NewPrometheusRecorder(reg)
	pr.IncArtifact("sitemap")

	path := filepath.Join(t.TempDir(), "metrics", "pagesmith.prom")
	if err := WriteTextfile(reg, path); err != nil {
		t.Fatalf("write: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !strings.Contains(string(data), `pagesmith_artifacts_written_total{kind="sitemap"} 1`) {
		t.Fatalf("unexpected textfile content:\n%s", data)
	}
}

func TestTimeStage(t *testing.T) {
	rec := newTestRecorder()

	if err := TimeStage(rec, "load", func() error { return nil }); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	boom := errors.New("boom")
	if err := TimeStage(rec, "expand", func() error { return boom }); !errors.Is(err, boom) {
		t.Fatalf("expected boom, got %v", err)
	}

	if rec.stageDurations["load"] != 1 || rec.stageDurations["expand"] != 1 {
		t.Fatalf("unexpected durations %v", rec.stageDurations)
	}
	if rec.stageResults["load"][ResultSuccess] != 1 || rec.stageResults["expand"][ResultFatal] != 1 {
		t.Fatalf("unexpected results %v", rec.stageResults)
	}
}
