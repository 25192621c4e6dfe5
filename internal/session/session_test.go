package session

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestNewCreatesTimestampedDir(t *testing.T) {
	base := t.TempDir()
	s, err := New(base)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if info, err := os.Stat(s.Dir()); err != nil || !info.IsDir() {
		t.Fatalf("session dir not created: %v", err)
	}
}

func TestNextReturnsZeroPaddedIterationDirs(t *testing.T) {
	s, err := New(t.TempDir())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	first, err := s.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if filepath.Base(first) != "00000" {
		t.Fatalf("got %q, want 00000", filepath.Base(first))
	}
	second, err := s.Next()
	if err != nil {
		t.Fatalf("Next: %v", err)
	}
	if filepath.Base(second) != "00001" {
		t.Fatalf("got %q, want 00001", filepath.Base(second))
	}
}

func TestToolDirCreatesSubdirectory(t *testing.T) {
	s, _ := New(t.TempDir())
	iter, _ := s.Next()
	dir, err := ToolDir(iter, "icarus")
	if err != nil {
		t.Fatalf("ToolDir: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Fatalf("tool dir not created: %v", err)
	}
}

func TestArtifactWatcherReportsMatchingFile(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	aw, err := NewArtifactWatcher(ctx, zap.NewExample(), dir, "vsim_log.txt")
	if err != nil {
		t.Fatalf("NewArtifactWatcher: %v", err)
	}

	path := filepath.Join(dir, "vsim_log.txt")
	if err := os.WriteFile(path, []byte("RES=00000001\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-aw.Found():
		if got != path {
			t.Fatalf("got %q, want %q", got, path)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for artifact notification")
	}
}

func TestArtifactWatcherEmptyNameMatchesAnyFile(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	aw, err := NewArtifactWatcher(ctx, zap.NewExample(), dir, "")
	if err != nil {
		t.Fatalf("NewArtifactWatcher: %v", err)
	}

	path := filepath.Join(dir, "whatever.log")
	if err := os.WriteFile(path, []byte("anything"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}

	select {
	case got := <-aw.Found():
		if got != path {
			t.Fatalf("got %q, want %q", got, path)
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for artifact notification")
	}
}

func TestArtifactWatcherClosesFoundChannelOnCancel(t *testing.T) {
	dir := t.TempDir()
	ctx, cancel := context.WithCancel(context.Background())

	aw, err := NewArtifactWatcher(ctx, zap.NewExample(), dir, "never.log")
	if err != nil {
		t.Fatalf("NewArtifactWatcher: %v", err)
	}
	cancel()

	select {
	case _, ok := <-aw.Found():
		if ok {
			t.Fatalf("expected closed channel, got a value")
		}
	case <-time.After(time.Second):
		t.Fatalf("timed out waiting for channel close")
	}
}
