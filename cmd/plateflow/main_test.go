package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T, base string) string {
	t.Helper()

	content := fmt.Sprintf(`[paths]
script_dir = %q
log_dir = %q
sheet_dir = %q

[shotdb]
base_url = "https://tracking.test/api"
api_key = "test"
project_id = 1

[logging]
format = "json"
level = "info"
`,
		filepath.Join(base, "scripts"),
		filepath.Join(base, "logs"),
		filepath.Join(base, "sheets"),
	)

	path := filepath.Join(base, "config.toml")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func writeTestSheet(t *testing.T, base string) string {
	t.Helper()

	rows := []string{
		"check,seq_name,shot_name,roll,type,scan_path,scan_name,pad,ext,start_frame,end_frame,duration",
		fmt.Sprintf("x,abc,abc_0010,A001,org,%s,abc_0010_plate.,%%04d,exr,1001,1050,50", filepath.Join(base, "abc_0010", "src")),
		fmt.Sprintf("x,abc,abc_0010,A002,org,%s,abc_0010_plate.,%%04d,exr,1051,1100,50", filepath.Join(base, "abc_0010", "src")),
		fmt.Sprintf(",abc,abc_0020,A003,org,%s,abc_0020_plate.,%%04d,exr,1001,1010,10", filepath.Join(base, "abc_0020", "src")),
	}
	path := filepath.Join(base, "plates.csv")
	if err := os.WriteFile(path, []byte(strings.Join(rows, "\n")+"\n"), 0o644); err != nil {
		t.Fatalf("write sheet: %v", err)
	}
	return path
}

func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	cmd := newRootCommand()
	var buf bytes.Buffer
	cmd.SetOut(&buf)
	cmd.SetErr(&buf)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return buf.String(), err
}

func TestLoadCommandGroupsCheckedRows(t *testing.T) {
	base := t.TempDir()
	cfgPath := writeTestConfig(t, base)
	sheetPath := writeTestSheet(t, base)

	out, err := runCommand(t, "--config", cfgPath, "load", sheetPath)
	if err != nil {
		t.Fatalf("load failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "abc_0010") {
		t.Errorf("output missing shot:\n%s", out)
	}
	if !strings.Contains(out, "2 rows grouped into 1 shots") {
		t.Errorf("output missing summary:\n%s", out)
	}
}

func TestLoadCommandRejectsEmptySelection(t *testing.T) {
	base := t.TempDir()
	cfgPath := writeTestConfig(t, base)

	sheet := filepath.Join(base, "empty.csv")
	if err := os.WriteFile(sheet, []byte("check,seq_name,shot_name\n,abc,abc_0010\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	if _, err := runCommand(t, "--config", cfgPath, "load", sheet); err == nil {
		t.Fatal("expected error for empty selection")
	}
}

func TestConfigInitWritesSample(t *testing.T) {
	base := t.TempDir()
	target := filepath.Join(base, "nested", "config.toml")

	out, err := runCommand(t, "config", "init", "--path", target)
	if err != nil {
		t.Fatalf("config init failed: %v\n%s", err, out)
	}
	data, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("sample config not written: %v", err)
	}
	if !strings.Contains(string(data), "[shotdb]") {
		t.Errorf("sample config missing shotdb section:\n%s", data)
	}

	// refuses to clobber without --overwrite
	if _, err := runCommand(t, "config", "init", "--path", target); err == nil {
		t.Fatal("expected error when config exists")
	}
}

func TestConfigShowRedactsAPIKey(t *testing.T) {
	base := t.TempDir()
	cfgPath := writeTestConfig(t, base)

	out, err := runCommand(t, "--config", cfgPath, "config", "show")
	if err != nil {
		t.Fatalf("config show failed: %v\n%s", err, out)
	}
	if strings.Contains(out, `"test"`) && strings.Contains(out, "api_key = 'test'") {
		t.Errorf("api key leaked:\n%s", out)
	}
	if !strings.Contains(out, "<redacted>") {
		t.Errorf("api key not redacted:\n%s", out)
	}
}

func TestHistoryCommandEmptyJournal(t *testing.T) {
	base := t.TempDir()
	cfgPath := writeTestConfig(t, base)

	out, err := runCommand(t, "--config", cfgPath, "history")
	if err != nil {
		t.Fatalf("history failed: %v\n%s", err, out)
	}
	if !strings.Contains(out, "No batches recorded") {
		t.Errorf("unexpected history output:\n%s", out)
	}
}
