package root

import (
	"bytes"
	"strings"
	"testing"
)

func TestParseID(t *testing.T) {
	if id, err := ParseID("42"); err != nil || id != 42 {
		t.Errorf("ParseID(42) = %d, %v", id, err)
	}
	for _, in := range []string{"", "0", "-1", "abc"} {
		if _, err := ParseID(in); err == nil {
			t.Errorf("ParseID(%q): expected error", in)
		}
	}
}

func TestPrint_TableAndJSON(t *testing.T) {
	app := &App{}
	row := struct {
		Name string `json:"name"`
	}{Name: "alice"}

	var buf bytes.Buffer
	if err := app.Print(&buf, row, []string{"NAME"}, [][]interface{}{{"alice"}}); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if !strings.Contains(buf.String(), "NAME") || !strings.Contains(buf.String(), "alice") {
		t.Errorf("unexpected table: %s", buf.String())
	}

	app.JSON = true
	buf.Reset()
	if err := app.Print(&buf, row, nil, nil); err != nil {
		t.Fatalf("Print: %v", err)
	}
	if strings.TrimSpace(buf.String()) != "{\n  \"name\": \"alice\"\n}" {
		t.Errorf("unexpected JSON: %q", buf.String())
	}
}

func TestConnect_FromEnvMissingVariables(t *testing.T) {
	t.Setenv("DB_URL", "")
	t.Setenv("DB_USER", "")
	t.Setenv("DB_PASSWORD", "")

	app := &App{FromEnv: true}
	// Empty values count as set; the DSN builder rejects the empty URL.
	if err := app.Connect(); err == nil {
		t.Fatal("expected error for empty DB_URL")
	}
	if app.Users != nil || app.Provider != nil {
		t.Error("nothing should be wired after a failed connect")
	}
}

func TestClose_Idempotent(t *testing.T) {
	app := &App{}
	app.Close()
	app.Close()
}
