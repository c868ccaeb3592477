package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T) string {
	t.Helper()

	base := t.TempDir()
	content := fmt.Sprintf(`[endpoints]
ingest_bind = "tcp://127.0.0.1:0"
dispatch_connect = "tcp://127.0.0.1:1"

[paths]
data_dir = %q
results_dir = %q
log_dir = %q

[journal]
enabled = false
`,
		filepath.Join(base, "data"),
		filepath.Join(base, "results"),
		filepath.Join(base, "logs"),
	)

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write test config: %v", err)
	}
	return path
}

func runCLI(t *testing.T, configPath string, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	buf := &bytes.Buffer{}
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	if configPath != "" {
		args = append([]string{"--config", configPath}, args...)
	}
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("output missing %q:\n%s", want, output)
	}
}
