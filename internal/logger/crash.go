// Package logger records crash reports for the Promptin CLI.
package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"sort"
	"strings"
	"sync"
	"time"
)

const (
	// CrashLogDir is the directory for crash reports, relative to the base path.
	CrashLogDir = "crash_logs"

	// MaxCrashLogs is the number of reports kept; older ones are pruned.
	MaxCrashLogs = 10

	maxRequestLen = 500
)

// crashContext is what a report knows about the run that panicked.
type crashContext struct {
	mu       sync.RWMutex
	basePath string
	version  string
	command  string
	request  string
	provider string
}

var current = &crashContext{}

// SetBasePath sets the directory crash reports are written under.
func SetBasePath(path string) {
	current.mu.Lock()
	defer current.mu.Unlock()
	current.basePath = path
}

// SetVersion sets the application version for crash reports.
func SetVersion(version string) {
	current.mu.Lock()
	defer current.mu.Unlock()
	current.version = version
}

// SetCommand sets the command being executed.
func SetCommand(cmd string) {
	current.mu.Lock()
	defer current.mu.Unlock()
	current.command = cmd
}

// SetRequest records the request text being processed, truncated.
func SetRequest(text string) {
	text = strings.TrimSpace(text)
	if len(text) > maxRequestLen {
		text = text[:maxRequestLen] + "... [truncated]"
	}
	current.mu.Lock()
	defer current.mu.Unlock()
	current.request = text
}

// SetProvider records the LLM provider in use.
func SetProvider(provider string) {
	current.mu.Lock()
	defer current.mu.Unlock()
	current.provider = provider
}

// CrashReport is one recovered panic, written as JSON.
type CrashReport struct {
	Timestamp  time.Time `json:"timestamp"`
	Version    string    `json:"version"`
	Command    string    `json:"command"`
	Request    string    `json:"request,omitempty"`
	Provider   string    `json:"provider,omitempty"`
	PanicValue string    `json:"panic_value"`
	StackTrace string    `json:"stack_trace"`
	GoVersion  string    `json:"go_version"`
	OS         string    `json:"os"`
	Arch       string    `json:"arch"`
}

// HandlePanic recovers a panic, writes a crash report and exits with status 1.
// Usage: defer logger.HandlePanic()
func HandlePanic() {
	if r := recover(); r != nil {
		report(os.Stderr, r)
		os.Exit(1)
	}
}

// report writes the crash report for r and tells the user where it is.
func report(w io.Writer, r any) {
	rep := newCrashReport(r)
	path, err := writeCrashReport(rep)
	if err != nil {
		fmt.Fprintf(w, "\n[CRASH] Failed to write crash report: %v\n", err)
		fmt.Fprintf(w, "[CRASH] Panic: %v\n%s\n", r, rep.StackTrace)
		return
	}
	fmt.Fprintf(w, "\n🔴 Promptin hit an unexpected error.\n")
	fmt.Fprintf(w, "A crash report was saved to:\n  %s\n", path)
}

func newCrashReport(panicValue any) CrashReport {
	current.mu.RLock()
	defer current.mu.RUnlock()

	return CrashReport{
		Timestamp:  time.Now().UTC(),
		Version:    current.version,
		Command:    current.command,
		Request:    current.request,
		Provider:   current.provider,
		PanicValue: fmt.Sprintf("%v", panicValue),
		StackTrace: string(debug.Stack()),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
	}
}

// crashLogDir returns <base>/crash_logs; the base defaults to the working directory.
func crashLogDir() string {
	current.mu.RLock()
	base := current.basePath
	current.mu.RUnlock()
	if base == "" {
		base = "."
	}
	return filepath.Join(base, CrashLogDir)
}

func writeCrashReport(rep CrashReport) (string, error) {
	dir := crashLogDir()
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create crash log dir: %w", err)
	}
	data, err := json.MarshalIndent(rep, "", "  ")
	if err != nil {
		return "", fmt.Errorf("encode crash report: %w", err)
	}
	path := filepath.Join(dir, fmt.Sprintf("crash_%s.json", rep.Timestamp.Format("20060102_150405.000")))
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", fmt.Errorf("write crash report: %w", err)
	}
	if err := pruneCrashReports(dir); err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] Failed to prune old crash reports: %v\n", err)
	}
	return path, nil
}

// pruneCrashReports keeps the MaxCrashLogs newest reports.
func pruneCrashReports(dir string) error {
	reports, err := ListCrashReports(dir)
	if err != nil || len(reports) <= MaxCrashLogs {
		return err
	}
	for _, path := range reports[:len(reports)-MaxCrashLogs] {
		if err := os.Remove(path); err != nil {
			return fmt.Errorf("remove old crash report %s: %w", filepath.Base(path), err)
		}
	}
	return nil
}

// ListCrashReports returns the crash reports under dir, oldest first.
func ListCrashReports(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var reports []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), "crash_") && strings.HasSuffix(e.Name(), ".json") {
			reports = append(reports, filepath.Join(dir, e.Name()))
		}
	}
	// timestamped names sort chronologically
	sort.Strings(reports)
	return reports, nil
}
