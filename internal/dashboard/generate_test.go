package dashboard

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRenderMissingEnv(t *testing.T) {
	os.Unsetenv("GREPTIMEDB_DATASOURCE_UID")
	os.Unsetenv("PROMETHEUS_DATASOURCE_UID")
	if err := Render(t.TempDir()); err == nil {
		t.Fatalf("expected error for missing env vars")
	}
}

func TestRenderSuccess(t *testing.T) {
	os.Setenv("GREPTIMEDB_DATASOURCE_UID", "uid1")
	os.Setenv("PROMETHEUS_DATASOURCE_UID", "uid2")
	defer os.Unsetenv("GREPTIMEDB_DATASOURCE_UID")
	defer os.Unsetenv("PROMETHEUS_DATASOURCE_UID")

	dir := t.TempDir()
	if err := Render(dir); err != nil {
		t.Fatalf("render failed: %v", err)
	}

	b, err := os.ReadFile(filepath.Join(dir, "grafana-honeypot-timeline.json"))
	if err != nil {
		t.Fatalf("read timeline dashboard: %v", err)
	}
	if !strings.Contains(string(b), "uid1") {
		t.Fatalf("greptime uid not rendered")
	}
	if !strings.Contains(string(b), "honeypot_samples") {
		t.Fatalf("timeline dashboard should query the samples table")
	}

	b, err = os.ReadFile(filepath.Join(dir, "grafana-honeypot-metrics.json"))
	if err != nil {
		t.Fatalf("read metrics dashboard: %v", err)
	}
	if !strings.Contains(string(b), "uid2") {
		t.Fatalf("prometheus uid not rendered")
	}
}
