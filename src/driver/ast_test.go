package driver

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"la/src/diag"
	"la/src/frontend"
)

func TestWriteASTJSONProducesValidDocument(t *testing.T) {
	sink := diag.NewSink()
	unit := frontend.Parse(0, "prog.la", `
fun add(a i32, b i32) i32 {
	return a + b;
}`, sink)
	if sink.HasErrors() {
		t.Fatalf("parse errors: %v", sink.Diagnostics())
	}

	path := filepath.Join(t.TempDir(), "ast.json")
	if err := WriteASTJSON(path, unit); err != nil {
		t.Fatalf("WriteASTJSON returned error: %s", err)
	}

	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading written file: %s", err)
	}
	var doc struct {
		File       string           `json:"file"`
		Statements []map[string]any `json:"statements"`
	}
	if err := json.Unmarshal(b, &doc); err != nil {
		t.Fatalf("ast.json is not valid JSON: %s", err)
	}
	if doc.File != "prog.la" {
		t.Fatalf("File = %q, want %q", doc.File, "prog.la")
	}
	if len(doc.Statements) != 1 {
		t.Fatalf("Statements has %d entries, want 1", len(doc.Statements))
	}
	if doc.Statements[0]["kind"] != "FunctionDeclaration" {
		t.Fatalf("Statements[0].kind = %v, want FunctionDeclaration", doc.Statements[0]["kind"])
	}
}
