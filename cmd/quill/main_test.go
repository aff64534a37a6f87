package main

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/ulikunitz/xz"

	apperrors "github.com/FocuswithJustin/quill/core/errors"
	"github.com/FocuswithJustin/quill/internal/logging"
)

// Test helper functions

func createTestFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to create test file: %v", err)
	}
	return path
}

func createXZFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	var buf bytes.Buffer
	w, err := xz.NewWriter(&buf)
	if err != nil {
		t.Fatalf("xz.NewWriter: %v", err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("xz write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("xz close: %v", err)
	}
	return createTestFile(t, dir, name, buf.String())
}

// captureOutput redirects the command streams for the duration of the test
// and feeds input as stdin.
func captureOutput(t *testing.T, input string) (out, errOut *bytes.Buffer) {
	t.Helper()
	out, errOut = &bytes.Buffer{}, &bytes.Buffer{}
	oldIn, oldOut, oldErr := stdin, stdout, stderr
	stdin, stdout, stderr = strings.NewReader(input), out, errOut
	t.Cleanup(func() { stdin, stdout, stderr = oldIn, oldOut, oldErr })
	return out, errOut
}

// Tests for ParseCmd

func TestParseCmd_Run(t *testing.T) {
	dir := t.TempDir()
	path := createTestFile(t, dir, "q.surql", "select * from person; return 1")
	out, _ := captureOutput(t, "")

	cmd := &ParseCmd{Files: []string{path}, As: "query"}
	if err := cmd.Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := "1\tselect\tSELECT * FROM person\n2\toutput\tRETURN 1\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestParseCmd_EntryPoints(t *testing.T) {
	tests := []struct {
		as    string
		input string
		want  string
	}{
		{"value", "{ total: 1 + 2 * 3, tags: ['a', 'b',] }", "{ total: 1 + 2 * 3, tags: ['a', 'b'] }\n"},
		{"idiom", "name", "name\n"},
		{"query", "select name from person where age > 18 order by name", "1\tselect\tSELECT name FROM person WHERE age > 18 ORDER BY name\n"},
	}

	for _, tt := range tests {
		t.Run(tt.as, func(t *testing.T) {
			out, _ := captureOutput(t, tt.input)
			cmd := &ParseCmd{As: tt.as}
			if err := cmd.Run(); err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if out.String() != tt.want {
				t.Errorf("output = %q, want %q", out.String(), tt.want)
			}
		})
	}
}

func TestParseCmd_Error(t *testing.T) {
	_, errOut := captureOutput(t, "SELECT ) FROM person")

	err := (&ParseCmd{As: "query"}).Run()
	if err == nil {
		t.Fatal("Run() succeeded on invalid query")
	}

	var serr *apperrors.SourceError
	if !errors.As(err, &serr) {
		t.Fatalf("error %T is not a SourceError", err)
	}
	if serr.Source != "<stdin>" || serr.Line != 1 || serr.Column != 8 {
		t.Errorf("SourceError = %s:%d:%d, want <stdin>:1:8", serr.Source, serr.Line, serr.Column)
	}
	if !errors.Is(err, apperrors.ErrInvalidInput) {
		t.Error("parse failure should match ErrInvalidInput")
	}
	if !strings.Contains(errOut.String(), "1 | SELECT ) FROM person") {
		t.Errorf("stderr missing snippet:\n%s", errOut.String())
	}
}

// Tests for TokensCmd

func TestTokensCmd_Run(t *testing.T) {
	out, _ := captureOutput(t, "RETURN $x + 1")

	if err := (&TokensCmd{}).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 4 {
		t.Fatalf("got %d tokens, want 4:\n%s", len(lines), out.String())
	}
	if lines[1] != "7:2\tparam\t\"$x\"" {
		t.Errorf("param line = %q", lines[1])
	}
}

func TestTokensCmd_Invalid(t *testing.T) {
	out, _ := captureOutput(t, "'open")

	err := (&TokensCmd{File: "-"}).Run()
	if err == nil || !strings.Contains(err.Error(), "1 invalid token") {
		t.Errorf("Run() error = %v, want one invalid token", err)
	}
	if !strings.Contains(out.String(), "invalid") {
		t.Errorf("output missing invalid token:\n%s", out.String())
	}
}

// Tests for FmtCmd

func TestFmtCmd_Run(t *testing.T) {
	dir := t.TempDir()
	plain := createTestFile(t, dir, "a.surql", "select * from person where age>18")
	packed := createXZFile(t, dir, "b.surql.xz", "return 1;return 2")
	out, _ := captureOutput(t, "")

	if err := (&FmtCmd{Files: []string{plain, packed}}).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}

	want := "SELECT * FROM person WHERE age > 18;\nRETURN 1;\nRETURN 2;\n"
	if out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestFmtCmd_Write(t *testing.T) {
	dir := t.TempDir()
	path := createTestFile(t, dir, "a.surql", "return   1")
	out, _ := captureOutput(t, "")

	if err := (&FmtCmd{Files: []string{path}, Write: true}).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.Len() != 0 {
		t.Errorf("-w should not print, got %q", out.String())
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "RETURN 1;\n" {
		t.Errorf("file = %q, want canonical form", data)
	}
}

// Tests for CheckCmd

func TestCheckCmd_Run(t *testing.T) {
	dir := t.TempDir()
	var files []string
	for i, q := range []string{"RETURN 1", "SELECT * FROM person", "BEGIN; COMMIT"} {
		files = append(files, createTestFile(t, dir, string(rune('a'+i))+".surql", q))
	}
	files = append(files, createXZFile(t, dir, "d.surql.xz", "RETURN 2"))
	out, _ := captureOutput(t, "")

	if err := (&CheckCmd{Files: files, Jobs: 2}).Run(); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out.String() != "ok: 4 source(s)\n" {
		t.Errorf("output = %q", out.String())
	}
}

func TestCheckCmd_Failures(t *testing.T) {
	dir := t.TempDir()
	good := createTestFile(t, dir, "good.surql", "RETURN 1")
	bad := createTestFile(t, dir, "bad.surql", "RETURN 1;\nSELECT * FROM")
	missing := filepath.Join(dir, "missing.surql")
	_, errOut := captureOutput(t, "")

	err := (&CheckCmd{Files: []string{good, bad, missing}}).Run()
	if err == nil || err.Error() != "2 of 3 source(s) failed to parse" {
		t.Fatalf("Run() error = %v", err)
	}

	stderrText := errOut.String()
	if !strings.Contains(stderrText, bad+":2:13") {
		t.Errorf("stderr missing location of bad.surql:\n%s", stderrText)
	}
	if !strings.Contains(stderrText, "missing.surql") {
		t.Errorf("stderr missing open failure:\n%s", stderrText)
	}
}

func TestCheckSourcesKeepsOrder(t *testing.T) {
	dir := t.TempDir()
	var names []string
	for i := 0; i < 20; i++ {
		names = append(names, createTestFile(t, dir, filepath.Base(t.Name())+string(rune('a'+i)), strings.Repeat("RETURN 1;", i+1)))
	}

	results := checkSources(names, 3)
	for i, res := range results {
		if res.name != names[i] {
			t.Fatalf("result %d is for %s, want %s", i, res.name, names[i])
		}
		if res.err != nil || res.statements != i+1 {
			t.Errorf("result %d = %d statements, err %v", i, res.statements, res.err)
		}
	}
}

// Tests for ServeCmd

func TestServeCmd_Config(t *testing.T) {
	cmd := &ServeCmd{
		Port:           9090,
		CacheTTL:       time.Minute,
		CacheSize:      16,
		MaxQueryBytes:  4096,
		AllowedOrigins: []string{"https://app.example"},
		RateLimit:      60,
		APIKey:         "0123456789abcdef-key",
	}
	cfg := cmd.config()

	if cfg.Port != 9090 || cfg.CacheTTL != time.Minute || cfg.CacheSize != 16 || cfg.MaxQueryBytes != 4096 {
		t.Errorf("config = %+v", cfg)
	}
	if !cfg.Auth.Enabled || cfg.Auth.APIKey != cmd.APIKey {
		t.Error("API key should enable auth")
	}
	if cfg.TLS.Enabled {
		t.Error("TLS enabled without files")
	}
	if cfg.Version != version {
		t.Errorf("Version = %q", cfg.Version)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("Validate() = %v", err)
	}
}

// Tests for VersionCmd

func TestVersionCmd_Run(t *testing.T) {
	out, _ := captureOutput(t, "")
	if err := (&VersionCmd{}).Run(); err != nil {
		t.Fatal(err)
	}
	if out.String() != "quill version "+version+"\n" {
		t.Errorf("output = %q", out.String())
	}
}

// Tests for helpers

func TestReadSource(t *testing.T) {
	dir := t.TempDir()
	plain := createTestFile(t, dir, "q.surql", "RETURN 1")
	packed := createXZFile(t, dir, "q.surql.xz", "RETURN 2")
	corrupt := createTestFile(t, dir, "bad.xz", "not xz data")
	captureOutput(t, "RETURN 3")

	tests := []struct {
		name    string
		want    string
		wantErr bool
	}{
		{plain, "RETURN 1", false},
		{packed, "RETURN 2", false},
		{"-", "RETURN 3", false},
		{corrupt, "", true},
		{filepath.Join(dir, "none"), "", true},
	}

	for _, tt := range tests {
		t.Run(filepath.Base(tt.name), func(t *testing.T) {
			got, err := readSource(tt.name)
			if (err != nil) != tt.wantErr {
				t.Fatalf("readSource() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil {
				var ioErr *apperrors.IOError
				if !errors.As(err, &ioErr) {
					t.Errorf("error %T is not an IOError", err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("readSource() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestStatementKind(t *testing.T) {
	out, _ := captureOutput(t, "BEGIN; LET $x = 1; THROW 'no'")
	if err := (&ParseCmd{As: "query"}).Run(); err != nil {
		t.Fatal(err)
	}
	var kinds []string
	for _, line := range strings.Split(strings.TrimSpace(out.String()), "\n") {
		kinds = append(kinds, strings.Split(line, "\t")[1])
	}
	if got := strings.Join(kinds, ","); got != "begin,set,throw" {
		t.Errorf("kinds = %s, want begin,set,throw", got)
	}
}

func TestSetupLogging(t *testing.T) {
	t.Cleanup(func() { logging.InitLogger(logging.LevelInfo, logging.FormatJSON) })

	tests := []struct {
		command string
		level   string
		format  string
		wantErr bool
	}{
		{"serve", "", "text", false},
		{"check <files>", "", "json", false},
		{"parse", "debug", "text", false},
		{"parse", "loud", "text", true},
		{"parse", "info", "xml", true},
	}

	for _, tt := range tests {
		t.Run(tt.command+"/"+tt.level+"/"+tt.format, func(t *testing.T) {
			captureOutput(t, "")
			err := setupLogging(tt.command, tt.level, tt.format)
			if (err != nil) != tt.wantErr {
				t.Errorf("setupLogging() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSetupLoggingDefaults(t *testing.T) {
	t.Cleanup(func() { logging.InitLogger(logging.LevelInfo, logging.FormatJSON) })
	_, errOut := captureOutput(t, "")

	if err := setupLogging("check <files>", "", "text"); err != nil {
		t.Fatal(err)
	}
	logging.Info("hidden")
	logging.Error("shown")

	if strings.Contains(errOut.String(), "hidden") || !strings.Contains(errOut.String(), "shown") {
		t.Errorf("non-serve commands should log errors only:\n%s", errOut.String())
	}
}
