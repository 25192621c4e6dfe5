// Package session manages the on-disk layout a single vdiff run writes
// into: one timestamped session directory holding zero-padded iteration
// subdirectories, each in turn holding the generated Verilog and one
// subdirectory per dispatched Tool.
package session

import (
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Session is a timestamped run directory, adapted from the original
// tool's Session helper to Go's error-returning idiom in place of
// throwing filesystem exceptions.
type Session struct {
	dir     string
	counter int
}

// New creates <base>/<YYYY-MM-DD_HH-MM-SS> and returns a Session rooted
// there.
func New(base string) (*Session, error) {
	stamp := time.Now().Format("2006-01-02_15-04-05")
	dir := filepath.Join(base, stamp)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("session: create session dir %s: %w", dir, err)
	}
	return &Session{dir: dir}, nil
}

// Dir returns the session's root directory.
func (s *Session) Dir() string { return s.dir }

// Next returns the next zero-padded 5-digit iteration subdirectory,
// creating it.
func (s *Session) Next() (string, error) {
	dir := filepath.Join(s.dir, fmt.Sprintf("%05d", s.counter))
	s.counter++
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("session: create iteration dir %s: %w", dir, err)
	}
	return dir, nil
}

// ToolDir returns the per-tool subdirectory of an iteration directory,
// creating it. The orchestrator calls this once per dispatched Tool.
func ToolDir(iterationDir, toolName string) (string, error) {
	dir := filepath.Join(iterationDir, toolName)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("session: create tool dir %s: %w", dir, err)
	}
	return dir, nil
}
