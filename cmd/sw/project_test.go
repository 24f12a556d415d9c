package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/project"
)

const today = "2025-06-16"

func mustRun(t *testing.T, args ...string) string {
	t.Helper()
	out, err := run(t, "", args...)
	if err != nil {
		t.Fatalf("sw %s: %v\n%s", strings.Join(args, " "), err, out)
	}
	return out
}

func createOak(t *testing.T, cfg string) {
	t.Helper()
	out := mustRun(t, "project", "create", "-c", cfg, "--today", today,
		"--name", "Oak Pavilion", "--client", "Acme", "--value", "$125,000",
		"--contact", "Dana", "--email", "dana@acme.test")
	if !strings.Contains(out, "Created project SW-2401: Oak Pavilion (Acme)") {
		t.Fatalf("create output = %s", out)
	}
}

func assertContains(t *testing.T, out string, wants ...string) {
	t.Helper()
	for _, want := range wants {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestProjectCreate_Validation(t *testing.T) {
	cfg := testConfig(t)
	if _, err := run(t, "", "project", "create", "-c", cfg, "--name", "X"); err == nil {
		t.Error("expected error without --client")
	}
	_, err := run(t, "", "project", "create", "-c", cfg, "--name", "X", "--client", "Y", "--value", "lots")
	if err == nil {
		t.Error("expected error for a non-numeric value")
	}
	_, err = run(t, "", "project", "create", "-c", cfg, "--name", "X", "--client", "Y", "--value", "10", "--phase", "painting")
	if err == nil || !strings.Contains(err.Error(), "unknown phase") {
		t.Errorf("error = %v, want unknown phase", err)
	}
}

func TestProjectLifecycle(t *testing.T) {
	cfg := testConfig(t)
	createOak(t, cfg)

	out := mustRun(t, "project", "show", "sw-2401", "-c", cfg, "--today", today)
	assertContains(t, out,
		"SW-2401 — Oak Pavilion",
		"Value:     $125,000",
		"Phase:     Design (0d)",
		"Follow-up: No contact yet (every 14d)",
		"2025-06-23", // Estimating
		"2025-08-30", // Installing
	)

	out = mustRun(t, "project", "complete", "SW-2401", "-c", cfg, "--today", "2025-06-20")
	assertContains(t, out, "Phase:     Estimating", "done 2025-06-20")

	out = mustRun(t, "project", "contact", "SW-2401", "-c", cfg, "--today", "2025-06-20")
	assertContains(t, out, "Follow-up: Next in 14d")

	out = mustRun(t, "project", "set-install", "SW-2401", "2025-10-01", "-c", cfg, "--today", "2025-06-20")
	assertContains(t, out, "2025-10-01", "2025-07-18")

	out = mustRun(t, "project", "set-date", "SW-2401", "surveying", "2025-09-01", "--cascade=false", "-c", cfg, "--today", "2025-06-20")
	assertContains(t, out, "2025-09-01", "2025-10-01")

	out = mustRun(t, "project", "set-value", "SW-2401", "90000", "-c", cfg, "--today", "2025-06-20")
	assertContains(t, out, "Value:     $90,000")

	out = mustRun(t, "project", "set-cadence", "SW-2401", "7", "-c", cfg, "--today", "2025-06-20")
	assertContains(t, out, "Follow-up: Next in 7d")

	out = mustRun(t, "project", "done", "SW-2401", "installing", "--date", "2025-06-25", "-c", cfg, "--today", "2025-06-26")
	assertContains(t, out, "Completed: 2025-06-25")

	_, err := run(t, "", "project", "complete", "SW-2401", "-c", cfg, "--today", "2025-06-26")
	if err == nil || !strings.Contains(err.Error(), "already complete") {
		t.Errorf("complete finished project error = %v", err)
	}

	out = mustRun(t, "project", "done", "SW-2401", "installing", "--undo", "-c", cfg, "--today", "2025-06-26")
	if strings.Contains(out, "Completed:") {
		t.Errorf("undo should reopen the project:\n%s", out)
	}
}

func TestProjectSetDate_Errors(t *testing.T) {
	cfg := testConfig(t)
	createOak(t, cfg)

	tests := []struct {
		name string
		args []string
		want string
	}{
		{"bad phase", []string{"project", "set-date", "SW-2401", "painting", "2025-09-01"}, "unknown phase"},
		{"bad date", []string{"project", "set-date", "SW-2401", "surveying", "9/1/2025"}, "YYYY-MM-DD"},
		{"unknown project", []string{"project", "set-value", "SW-9999", "10"}, "not found"},
		{"bad cadence", []string{"project", "set-cadence", "SW-2401", "weekly"}, "whole number"},
		{"zero cadence", []string{"project", "set-cadence", "SW-2401", "0"}, "at least 1 day"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := run(t, "", append(tt.args, "-c", cfg)...)
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %v, want %q", err, tt.want)
			}
		})
	}
}

func TestProjectList(t *testing.T) {
	cfg := testConfig(t)
	out := mustRun(t, "project", "list", "-c", cfg, "--today", today)
	assertContains(t, out, "No projects found.")

	createOak(t, cfg)
	mustRun(t, "project", "create", "-c", cfg, "--today", today,
		"--name", "Elm Canopy", "--client", "Birch Co", "--value", "500000", "--phase", "Permitting")

	out = mustRun(t, "project", "list", "-c", cfg, "--today", today, "--sort", "value")
	assertContains(t, out, "ID", "NEXT DUE", "SW-2401", "SW-2402", "$500,000")
	if strings.Index(out, "SW-2402") > strings.Index(out, "SW-2401") {
		t.Errorf("value sort should list SW-2402 first:\n%s", out)
	}

	out = mustRun(t, "project", "list", "-c", cfg, "--today", today, "--phase", "permitting")
	if strings.Contains(out, "SW-2401") || !strings.Contains(out, "SW-2402") {
		t.Errorf("phase filter output:\n%s", out)
	}

	if _, err := run(t, "", "project", "list", "-c", cfg, "--sort", "name"); err == nil {
		t.Error("expected error for unknown sort")
	}

	mustRun(t, "project", "done", "SW-2401", "installing", "-c", cfg, "--today", today)
	out = mustRun(t, "project", "list", "-c", cfg, "--today", today)
	if strings.Contains(out, "SW-2401") {
		t.Errorf("completed project listed without --all:\n%s", out)
	}
	out = mustRun(t, "project", "list", "--all", "-c", cfg, "--today", today)
	assertContains(t, out, "SW-2401", "Done")
}

func TestProjectDelete(t *testing.T) {
	cfg := testConfig(t)
	createOak(t, cfg)

	out, err := run(t, "no\n", "project", "delete", "SW-2401", "-c", cfg)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertContains(t, out, "Type \"yes\" to confirm", "Aborted.")

	out, err = run(t, "yes\n", "project", "delete", "SW-2401", "-c", cfg)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	assertContains(t, out, "Deleted project SW-2401")

	if _, err := run(t, "", "project", "show", "SW-2401", "-c", cfg); err == nil || !strings.Contains(err.Error(), "not found") {
		t.Errorf("show after delete error = %v", err)
	}
	if _, err := run(t, "", "project", "delete", "SW-2401", "-y", "-c", cfg); err == nil {
		t.Error("expected error deleting a missing project")
	}
}

func TestProjectEmail(t *testing.T) {
	cfg := testConfig(t)
	createOak(t, cfg)

	out := mustRun(t, "project", "email", "SW-2401", "-c", cfg, "--today", today)
	assertContains(t, out,
		"To: dana@acme.test",
		"Subject: Southwood — SW-2401 Oak Pavilion update",
		"Hi Dana,",
		"• Next due: Design on 6/16/2025",
	)

	out = mustRun(t, "project", "email", "SW-2401", "--mailto", "-c", cfg, "--today", today)
	if !strings.HasPrefix(out, "mailto:dana%40acme.test?subject=") {
		t.Errorf("mailto = %s", out)
	}
}

func TestAskCmd(t *testing.T) {
	cfg := testConfig(t)
	createOak(t, cfg)

	out := mustRun(t, "ask", "design", "projects", "-c", cfg, "--today", today)
	assertContains(t, out, "SW-2401")

	if _, err := run(t, "", "ask", "-c", cfg); err == nil {
		t.Error("expected error without a question")
	}
}

func TestDigestCmd(t *testing.T) {
	cfg := testConfig(t)
	out := mustRun(t, "digest", "-c", cfg, "--today", today)
	assertContains(t, out, "Nothing needs attention today.")

	createOak(t, cfg)
	out = mustRun(t, "digest", "-c", cfg, "--today", today)
	assertContains(t, out, "Southwood Digest", "Due this week (1)", "Follow-ups due (1)", "SW-2401")
}

func TestExportAndImport(t *testing.T) {
	cfg := testConfig(t)
	createOak(t, cfg)
	dir := t.TempDir()

	out := mustRun(t, "export", "ics", "SW-2401", "-c", cfg, "--today", today)
	assertContains(t, out, "BEGIN:VCALENDAR", "Oak Pavilion", "20250616")

	out = mustRun(t, "export", "ics", "SW-2401", "--follow-up", "-c", cfg, "--today", today)
	assertContains(t, out, "Follow-up")

	xlsx := filepath.Join(dir, "projects.xlsx")
	out = mustRun(t, "export", "xlsx", "-o", xlsx, "-c", cfg, "--today", today)
	assertContains(t, out, "Wrote 1 projects")
	if info, err := os.Stat(xlsx); err != nil || info.Size() == 0 {
		t.Errorf("workbook not written: %v", err)
	}

	jsonPath := filepath.Join(dir, "projects.json")
	mustRun(t, "export", "json", "-o", jsonPath, "-c", cfg)
	data, err := os.ReadFile(jsonPath)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	var exported []project.Project
	if err := json.Unmarshal(data, &exported); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(exported) != 1 || exported[0].ID != "SW-2401" || exported[0].PhaseSince != civil.New(2025, 6, 16) {
		t.Fatalf("exported = %+v", exported)
	}

	other := testConfig(t)
	out = mustRun(t, "import", "json", jsonPath, "-c", other)
	assertContains(t, out, "Imported 1 projects")
	out = mustRun(t, "project", "show", "SW-2401", "-c", other, "--today", today)
	assertContains(t, out, "Oak Pavilion", "$125,000")

	out, err = run(t, string(data), "import", "json", "-", "-c", other)
	if err != nil {
		t.Fatalf("import from stdin: %v", err)
	}
	assertContains(t, out, "Imported 1 projects")

	if _, err := run(t, "not json", "import", "json", "-", "-c", other); err == nil {
		t.Error("expected error for malformed JSON")
	}
}
