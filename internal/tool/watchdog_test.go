package tool

import (
	"context"
	"testing"
	"time"
)

// stubTool is a Tool whose Run blocks for a configured duration, used to
// exercise RunWithTimeout without any vendor binaries.
type stubTool struct {
	delay  time.Duration
	result ToolResult
}

func (s *stubTool) Name() string { return "stub" }

func (s *stubTool) Run(ctx context.Context, rtlPath, topName, workdir string) (ToolResult, error) {
	select {
	case <-time.After(s.delay):
		return s.result, nil
	case <-ctx.Done():
		return ToolResult{Success: false}, ctx.Err()
	}
}

func TestRunWithTimeoutReturnsPromptly(t *testing.T) {
	st := &stubTool{delay: 5 * time.Millisecond, result: ToolResult{Success: true, Value: 7}}
	res, timedOut := RunWithTimeout(context.Background(), 200*time.Millisecond, st, "dut.v", "top", t.TempDir())
	if timedOut {
		t.Fatalf("expected no timeout")
	}
	if !res.Success || res.Value != 7 {
		t.Fatalf("unexpected result: %+v", res)
	}
}

func TestRunWithTimeoutExpires(t *testing.T) {
	st := &stubTool{delay: time.Second, result: ToolResult{Success: true, Value: 7}}
	start := time.Now()
	res, timedOut := RunWithTimeout(context.Background(), 20*time.Millisecond, st, "dut.v", "top", t.TempDir())
	elapsed := time.Since(start)
	if !timedOut {
		t.Fatalf("expected timeout")
	}
	if res.Success {
		t.Fatalf("expected failure result on timeout, got %+v", res)
	}
	if elapsed > 200*time.Millisecond {
		t.Fatalf("RunWithTimeout did not return promptly on expiry: %v", elapsed)
	}
}
