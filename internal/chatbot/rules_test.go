package chatbot

import (
	"os"
	"path/filepath"
	"testing"
)

// writeRule is a test helper that writes a single rule YAML file into dir.
func writeRule(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadRules_FileOrder(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "10-sizing.yaml", `
name: "sizing"
match: ["size", "fit"]
reply: "Check the size chart on each product page."
`)
	writeRule(t, dir, "20-warranty.yaml", `
name: "warranty"
match: ["warranty"]
reply: "Every product carries a one-year warranty."
`)

	rules, err := LoadRules(dir)
	if err != nil {
		t.Fatalf("LoadRules: %v", err)
	}
	if len(rules) != 2 {
		t.Fatalf("got %d rules, want 2", len(rules))
	}
	if rules[0].Name != "sizing" || rules[1].Name != "warranty" {
		t.Errorf("rules out of file order: %q, %q", rules[0].Name, rules[1].Name)
	}
	if rules[0].Match[0] != "size" {
		t.Errorf("Match[0] = %q, want %q", rules[0].Match[0], "size")
	}
}

func TestLoadRules_LowercasesKeywords(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "rule.yaml", `
name: "sizing"
match: ["SIZE", " Fit "]
reply: "Check the size chart."
`)

	rules, err := LoadRules(dir)
	if err != nil {
		t.Fatal(err)
	}
	if rules[0].Match[0] != "size" || rules[0].Match[1] != "fit" {
		t.Errorf("keywords not normalized: %v", rules[0].Match)
	}
}

func TestLoadRules_MissingDirUsesDefaults(t *testing.T) {
	rules, err := LoadRules(filepath.Join(t.TempDir(), "does-not-exist"))
	if err != nil {
		t.Fatalf("unexpected error for missing dir: %v", err)
	}
	if len(rules) != len(DefaultRules()) {
		t.Errorf("got %d rules, want the %d defaults", len(rules), len(DefaultRules()))
	}
}

func TestLoadRules_SkipsEmptyAndNonYAMLFiles(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "empty.yaml", "")
	writeRule(t, dir, "comment_only.yaml", "# just a comment\n")
	writeRule(t, dir, "notes.txt", "not a rule")
	writeRule(t, dir, "real.yaml", `
name: "real"
match: ["real"]
reply: "Yes, really."
`)

	rules, err := LoadRules(dir)
	if err != nil {
		t.Fatal(err)
	}
	if len(rules) != 1 {
		t.Errorf("expected 1 rule (skipping empty and non-YAML files), got %d", len(rules))
	}
}

func TestLoadRules_DuplicateName(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "first.yaml", `
name: "dup"
match: ["a"]
reply: "one"
`)
	writeRule(t, dir, "second.yaml", `
name: "dup"
match: ["b"]
reply: "two"
`)

	if _, err := LoadRules(dir); err == nil {
		t.Fatal("expected error for duplicate rule name, got nil")
	}
}

func TestLoadRules_EmptyMatchList(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "bad.yaml", `
name: "bad"
reply: "never fires"
`)

	if _, err := LoadRules(dir); err == nil {
		t.Fatal("expected error for empty match list, got nil")
	}
}

func TestLoadRules_BlankKeyword(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "bad.yaml", `
name: "bad"
match: ["ok", "  "]
reply: "reply"
`)

	if _, err := LoadRules(dir); err == nil {
		t.Fatal("expected error for blank keyword, got nil")
	}
}

func TestLoadRules_MissingReply(t *testing.T) {
	dir := t.TempDir()
	writeRule(t, dir, "bad.yaml", `
name: "bad"
match: ["hello"]
`)

	if _, err := LoadRules(dir); err == nil {
		t.Fatal("expected error for missing reply, got nil")
	}
}

func TestDefaultRules_AllValid(t *testing.T) {
	for _, r := range DefaultRules() {
		if _, err := normalizeRule(r); err != nil {
			t.Errorf("default rule %q invalid: %v", r.Name, err)
		}
	}
}
