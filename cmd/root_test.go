package cmd

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func run(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	var out, errOut bytes.Buffer
	code = Run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func TestRun(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{[]string{"testdata/sample.txt"}, "Part 2: 33\n"},
		{[]string{"testdata/sample.txt", "--strategy", "enumerate", "--workers", "2"}, "Part 2: 33\n"},
		{[]string{"--part", "1", "testdata/sample.txt"}, "Part 1: 7\n"},
		{[]string{"--part", "all", "-v", "--log-format", "json", "testdata/sample.txt"}, "Part 1: 7\nPart 2: 33\n"},
	}
	for _, test := range tests {
		code, stdout, stderr := run(t, test.args...)
		if code != ExitSuccess {
			t.Errorf("%v: expected exit code %d, got %d (stderr: %s)", test.args, ExitSuccess, code, stderr)
		}
		if stdout != test.want {
			t.Errorf("%v: expected output %q, got %q", test.args, test.want, stdout)
		}
	}
}

func TestMissingInput(t *testing.T) {
	code, stdout, _ := run(t)
	if code != ExitInvalidInvocation {
		t.Errorf("expected exit code %d, got %d", ExitInvalidInvocation, code)
	}
	if stdout != "Requires input file\n" {
		t.Errorf("expected missing input message, got %q", stdout)
	}
}

func TestInvalidInvocation(t *testing.T) {
	tests := [][]string{
		{"a.txt", "b.txt"},
		{"--strategy", "guess", "testdata/sample.txt"},
		{"--part", "3", "testdata/sample.txt"},
		{"--log-format", "xml", "testdata/sample.txt"},
		{"--no-such-flag", "testdata/sample.txt"},
		{"--workers", "many", "testdata/sample.txt"},
	}
	for _, args := range tests {
		code, stdout, stderr := run(t, args...)
		if code != ExitInvalidInvocation {
			t.Errorf("%v: expected exit code %d, got %d", args, ExitInvalidInvocation, code)
		}
		if stdout != "" {
			t.Errorf("%v: expected no output, got %q", args, stdout)
		}
		if stderr == "" {
			t.Errorf("%v: expected an error message", args)
		}
	}
}

func TestFailure(t *testing.T) {
	bad := filepath.Join(t.TempDir(), "bad.txt")
	if err := os.WriteFile(bad, []byte("(0,1) (1)\n"), 0o644); err != nil {
		t.Fatalf("could not write input: %v", err)
	}
	large := filepath.Join(t.TempDir(), "large.txt")
	if err := os.WriteFile(large, []byte("(0) (1) (2) {1500000000,1500000000,1500000000}\n"), 0o644); err != nil {
		t.Fatalf("could not write input: %v", err)
	}
	tests := []struct {
		args []string
		msg  string
	}{
		{[]string{large}, "weights too large"},
		{[]string{"testdata/no-such-file.txt"}, "no-such-file.txt"},
		{[]string{bad}, "line 1"},
		{[]string{"--strategy", "enumerate", "--max-models", "1", "testdata/sample.txt"}, "could not decide"},
	}
	for _, test := range tests {
		code, stdout, stderr := run(t, test.args...)
		if code != ExitFailure {
			t.Errorf("%v: expected exit code %d, got %d", test.args, ExitFailure, code)
		}
		if stdout != "" {
			t.Errorf("%v: expected no output, got %q", test.args, stdout)
		}
		if !strings.Contains(stderr, test.msg) {
			t.Errorf("%v: expected %q in error message, got %q", test.args, test.msg, stderr)
		}
	}
}

func TestCacheAndMetrics(t *testing.T) {
	dir := t.TempDir()
	cacheDir := filepath.Join(dir, "cache")
	metricsFile := filepath.Join(dir, "joltsat.prom")
	for i := 0; i < 2; i++ {
		code, stdout, stderr := run(t, "--cache-dir", cacheDir, "--metrics-file", metricsFile, "testdata/sample.txt")
		if code != ExitSuccess || stdout != "Part 2: 33\n" {
			t.Fatalf("run %d: expected success, got %d, %q (stderr: %s)", i, code, stdout, stderr)
		}
	}
	data, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("could not read metrics: %v", err)
	}
	want := `joltsat_machines_total{outcome="cached",strategy="minimize"} 3`
	if !strings.Contains(string(data), want) {
		t.Errorf("expected %q in metrics, got:\n%s", want, data)
	}
}
