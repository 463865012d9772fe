package tools

import (
	"testing"

	"nesasm/parser"
)

func assembleSource(t *testing.T, src string) *parser.Assembler {
	t.Helper()
	return assembleSourceWithOptions(t, src, parser.DefaultOptions())
}

func assembleSourceWithOptions(t *testing.T, src string, opts parser.Options) *parser.Assembler {
	t.Helper()
	a := parser.NewAssembler("test.s", []byte(src), opts)
	if err := a.Run(nil); err != nil {
		t.Fatalf("Run: %v", err)
	}
	return a
}

func TestLintReportsUnreferencedLabel(t *testing.T) {
	a := assembleSource(t, "_main: rts\n_dead: rts\n")
	issues := NewLinter(nil).Lint(a)
	found := false
	for _, issue := range issues {
		if issue.Code == "unreferenced-label" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected an unreferenced-label issue, got %v", issues)
	}
}

func TestLintSkipsEntryPoint(t *testing.T) {
	a := assembleSource(t, "_main: rts\n")
	issues := NewLinter(nil).Lint(a)
	for _, issue := range issues {
		if issue.Code == "unreferenced-label" {
			t.Fatalf("entry point should not be flagged as unreferenced: %v", issue)
		}
	}
}

func TestLintSkipsReferencedLabel(t *testing.T) {
	a := assembleSource(t, "_main: jmp _loop\n_loop: rts\n")
	issues := NewLinter(nil).Lint(a)
	for _, issue := range issues {
		if issue.Code == "unreferenced-label" {
			t.Fatalf("referenced label should not be flagged: %v", issue)
		}
	}
}

func TestLintDisabledCheck(t *testing.T) {
	a := assembleSource(t, "_main: rts\n_dead: rts\n")
	linter := NewLinter(&LintOptions{WarnUnreferencedLabels: false})
	issues := linter.Lint(a)
	for _, issue := range issues {
		if issue.Code == "unreferenced-label" {
			t.Fatalf("check was disabled but still reported an issue: %v", issue)
		}
	}
}

func TestLintReportsShadowedVariable(t *testing.T) {
	opts := parser.DefaultOptions()
	opts.AllowRedefineVariable = true
	a := assembleSourceWithOptions(t, "SPRITE_Y = $20\nSPRITE_Y = $30\n_main: rts\n", opts)
	issues := NewLinter(nil).Lint(a)
	found := false
	for _, issue := range issues {
		if issue.Code == "shadowed-variable" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected a shadowed-variable issue, got %v", issues)
	}
}

func TestLintDisabledShadowedVariableCheck(t *testing.T) {
	opts := parser.DefaultOptions()
	opts.AllowRedefineVariable = true
	a := assembleSourceWithOptions(t, "SPRITE_Y = $20\nSPRITE_Y = $30\n_main: rts\n", opts)
	linter := NewLinter(&LintOptions{WarnShadowedVariable: false})
	issues := linter.Lint(a)
	for _, issue := range issues {
		if issue.Code == "shadowed-variable" {
			t.Fatalf("check was disabled but still reported an issue: %v", issue)
		}
	}
}

func TestFindSimilarLabel(t *testing.T) {
	labels := map[string]*parser.Label{
		"_loop":  {Name: "_loop"},
		"_start": {Name: "_start"},
	}
	if got := findSimilarLabel("_loo", labels); got != "_loop" {
		t.Fatalf("findSimilarLabel = %q, want _loop", got)
	}
}
