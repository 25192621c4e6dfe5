package tool

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
)

// runCommand executes name(args...) with dir as its working directory,
// capturing combined stdout/stderr to logPath. When chat is set, the
// same output is additionally teed to the process's own stdout, the
// supplemented behavior of the --chat flag: the log file is written
// unconditionally either way. It registers the running *exec.Cmd with
// the context's procTracker, if any, so the watchdog can request its
// interruption. Returns the process error, if any (nil on exit code 0).
func runCommand(ctx context.Context, dir, logPath string, chat bool, name string, args ...string) error {
	logFile, err := os.Create(logPath)
	if err != nil {
		return fmt.Errorf("tool: create log %s: %w", logPath, err)
	}
	defer logFile.Close()

	var out io.Writer = logFile
	if chat {
		out = io.MultiWriter(logFile, os.Stdout)
	}

	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Dir = dir
	cmd.Stdout = out
	cmd.Stderr = out

	if tr := trackerFromContext(ctx); tr != nil {
		tr.set(cmd)
		defer tr.clear(cmd)
	}

	return cmd.Run()
}

var resLine = regexp.MustCompile(`RES=([0-9a-fA-F]+)`)

// scanForResult stream-scans path for the first line containing RES=<hex>
// and parses the hex token into a u32. Returns an error if the file cannot
// be read or no matching line is found.
func scanForResult(path string) (uint32, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("tool: open log %s: %w", path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if m := resLine.FindStringSubmatch(scanner.Text()); m != nil {
			v, err := strconv.ParseUint(m[1], 16, 32)
			if err != nil {
				return 0, fmt.Errorf("tool: unparseable RES token %q: %w", m[1], err)
			}
			return uint32(v), nil
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, fmt.Errorf("tool: scan log %s: %w", path, err)
	}
	return 0, fmt.Errorf("tool: no RES= line found in %s", path)
}

// writeTextFile writes content to filepath.Join(dir, name), creating dir
// first if necessary.
func writeTextFile(dir, name, content string) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("tool: create workdir %s: %w", dir, err)
	}
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", fmt.Errorf("tool: write %s: %w", path, err)
	}
	return path, nil
}

// resultTestbench renders the minimal testbench every backend
// instantiates the DUT with. The DUT's single output port is always named
// result, whether the top module came from the loop generator or is a
// hierarchy generator's root. outPort is bound as given; every backend
// passes "result".
// The instance itself is always named top inside module tb, so that
// hierarchy-generator designs built with root_prefix enabled resolve
// their $root.tb.top.* references regardless of which backend is run.
func resultTestbench(topName, outPort string) string {
	return fmt.Sprintf(
		"`timescale 1ns/1ps\nmodule tb;\n  wire [31:0] res;\n  %s top(.%s(res));\n  initial begin #1 $display(\"RES=%%08h\", res); $finish; end\nendmodule\n",
		topName, outPort,
	)
}
