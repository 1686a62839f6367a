package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/backmassage/groomer/internal/config"
)

type mockLogger struct {
	lines []string
}

func (m *mockLogger) add(level, format string, args ...interface{}) {
	m.lines = append(m.lines, level+" "+fmt.Sprintf(format, args...))
}

func (m *mockLogger) Info(f string, a ...interface{})          { m.add("INFO", f, a...) }
func (m *mockLogger) Success(f string, a ...interface{})       { m.add("SUCCESS", f, a...) }
func (m *mockLogger) Warn(f string, a ...interface{})          { m.add("WARN", f, a...) }
func (m *mockLogger) Error(f string, a ...interface{})         { m.add("ERROR", f, a...) }
func (m *mockLogger) Debug(v bool, f string, a ...interface{}) { m.add("DEBUG", f, a...) }

func (m *mockLogger) has(prefix string) bool {
	for _, l := range m.lines {
		if strings.HasPrefix(l, prefix) {
			return true
		}
	}
	return false
}

func TestCheckDeps_OK(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.SourceDir = t.TempDir()
	cfg.DestDir = filepath.Join(t.TempDir(), "new", "dest")

	if err := CheckDeps(&cfg); err != nil {
		t.Fatalf("CheckDeps: %v", err)
	}
	if _, err := os.Stat(cfg.DestDir); err != nil {
		t.Errorf("destination should have been created: %v", err)
	}
}

func TestCheckDeps_Failures(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	badPolicy := filepath.Join(t.TempDir(), "policy.yaml")
	if err := os.WriteFile(badPolicy, []byte("default: explode\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name   string
		mutate func(*config.Config)
		want   error
	}{
		{"missing source", func(c *config.Config) { c.SourceDir = filepath.Join(t.TempDir(), "gone") }, ErrSourceNotFound},
		{"source is a file", func(c *config.Config) { c.SourceDir = file }, ErrSourceNotDir},
		{"destination under a file", func(c *config.Config) { c.DestDir = filepath.Join(file, "sub") }, ErrDestNotWritable},
		{"bad policy", func(c *config.Config) { c.PolicyFile = badPolicy }, ErrPolicyInvalid},
		{"missing resources", func(c *config.Config) { c.ResourcesDir = filepath.Join(t.TempDir(), "gone") }, ErrResourcesNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			cfg.SourceDir = t.TempDir()
			cfg.DestDir = t.TempDir()
			tt.mutate(&cfg)
			if err := CheckDeps(&cfg); !errors.Is(err, tt.want) {
				t.Errorf("CheckDeps() = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestRunCheck(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CheckOnly = true
	cfg.SourceDir = t.TempDir()

	log := &mockLogger{}
	if !RunCheck(&cfg, log) {
		t.Fatalf("RunCheck failed: %v", log.lines)
	}
	if !log.has("SUCCESS Source:") || !log.has("INFO Destination: not set") || !log.has("INFO Policy: built-in") {
		t.Errorf("unexpected report: %v", log.lines)
	}
	if !log.has("SUCCESS Mimetype detection works") {
		t.Errorf("sniffer self-test not reported: %v", log.lines)
	}
}

func TestRunCheck_ReportsBrokenPolicy(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "p.yaml")
	if err := os.WriteFile(bad, []byte("rules: [\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.DefaultConfig()
	cfg.PolicyFile = bad

	log := &mockLogger{}
	if RunCheck(&cfg, log) {
		t.Error("RunCheck should fail on a broken policy")
	}
	if !log.has("ERROR Policy:") {
		t.Errorf("policy error not reported: %v", log.lines)
	}
}
