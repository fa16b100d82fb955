package pipeline

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/tbrink/jif/internal/iftable"
	"github.com/tbrink/jif/internal/resolver"
)

func touch(t *testing.T, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("not a real pdf"), 0644); err != nil {
		t.Fatalf("touch: %v", err)
	}
}

func TestFindPDFs_Recursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "b.pdf"))
	touch(t, filepath.Join(dir, "a.PDF"))
	touch(t, filepath.Join(dir, "notes.txt"))
	touch(t, filepath.Join(dir, "sub", "c.pdf"))

	paths, err := FindPDFs([]string{dir}, true)
	if err != nil {
		t.Fatalf("FindPDFs: %v", err)
	}

	want := []string{
		filepath.Join(dir, "a.PDF"),
		filepath.Join(dir, "b.pdf"),
		filepath.Join(dir, "sub", "c.pdf"),
	}
	if len(paths) != len(want) {
		t.Fatalf("expected %d paths, got %d: %v", len(want), len(paths), paths)
	}
	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("path %d: expected %s, got %s", i, want[i], paths[i])
		}
	}
}

func TestFindPDFs_NonRecursive(t *testing.T) {
	dir := t.TempDir()
	touch(t, filepath.Join(dir, "a.pdf"))
	touch(t, filepath.Join(dir, "sub", "b.pdf"))

	paths, err := FindPDFs([]string{dir}, false)
	if err != nil {
		t.Fatalf("FindPDFs: %v", err)
	}
	if len(paths) != 1 {
		t.Fatalf("expected 1 path, got %d: %v", len(paths), paths)
	}
	if paths[0] != filepath.Join(dir, "a.pdf") {
		t.Errorf("unexpected path %s", paths[0])
	}
}

func TestFindPDFs_ExplicitFileAndDedup(t *testing.T) {
	dir := t.TempDir()
	pdf := filepath.Join(dir, "a.pdf")
	touch(t, pdf)

	paths, err := FindPDFs([]string{pdf, dir}, true)
	if err != nil {
		t.Fatalf("FindPDFs: %v", err)
	}
	if len(paths) != 1 {
		t.Errorf("expected deduplicated single path, got %v", paths)
	}
}

func TestFindPDFs_MissingRootIsFatal(t *testing.T) {
	if _, err := FindPDFs([]string{filepath.Join(t.TempDir(), "absent")}, true); err == nil {
		t.Error("expected an error for a missing input path")
	}
}

func TestProcessFile_UnreadablePDF(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.pdf")
	touch(t, path)

	proc := &Processor{
		Table:     &iftable.Table{},
		Rules:     resolver.Default(),
		Threshold: 85,
	}

	res := proc.ProcessFile(path)
	if res.Status != StatusReadError {
		t.Fatalf("expected read_error, got %s", res.Status)
	}
	if res.Detail == "" {
		t.Error("expected a detail message")
	}
	if res.ImpactFactor != nil {
		t.Error("read_error result must not carry an impact factor")
	}
}

func TestProcessFile_MissingFile(t *testing.T) {
	proc := &Processor{
		Table:     &iftable.Table{},
		Rules:     resolver.Default(),
		Threshold: 85,
	}

	res := proc.ProcessFile(filepath.Join(t.TempDir(), "absent.pdf"))
	if res.Status != StatusReadError {
		t.Errorf("expected read_error, got %s", res.Status)
	}
}

func TestRun_BadFilesDoNotAbortBatch(t *testing.T) {
	dir := t.TempDir()
	paths := []string{
		filepath.Join(dir, "one.pdf"),
		filepath.Join(dir, "two.pdf"),
	}
	for _, p := range paths {
		touch(t, p)
	}

	proc := &Processor{
		Table:     &iftable.Table{},
		Rules:     resolver.Default(),
		Threshold: 85,
	}

	var calls int
	results, summary := proc.Run(paths, func(i, n int, r Result) { calls++ })

	if len(results) != 2 {
		t.Fatalf("expected 2 results, got %d", len(results))
	}
	if calls != 2 {
		t.Errorf("expected 2 progress calls, got %d", calls)
	}
	if summary.Total != 2 || summary.ReadErrors != 2 {
		t.Errorf("unexpected summary: %+v", summary)
	}
}

func TestSummary_Percent(t *testing.T) {
	s := Summary{Total: 8, Resolved: 2}
	if got := s.Percent(s.Resolved); got != "25.0%" {
		t.Errorf("expected 25.0%%, got %s", got)
	}

	var empty Summary
	if got := empty.Percent(0); got != "0.0%" {
		t.Errorf("expected 0.0%% on empty summary, got %s", got)
	}
}

func TestSummary_Add(t *testing.T) {
	var s Summary
	for _, status := range []Status{
		StatusResolved, StatusNoJournal, StatusNoIF, StatusAmbiguous, StatusReadError, StatusResolved,
	} {
		s.add(Result{Status: status})
	}

	if s.Total != 6 {
		t.Errorf("expected total 6, got %d", s.Total)
	}
	if s.Resolved != 2 || s.NoJournal != 1 || s.NoIF != 1 || s.Ambiguous != 1 || s.ReadErrors != 1 {
		t.Errorf("unexpected summary: %+v", s)
	}
}
