package tools

import (
	"strings"
	"testing"

	"github.com/lookbusy1344/uxn-assembler/asm"
)

func crossReferenceSource(t *testing.T, source string) []*Symbol {
	t.Helper()
	result, diags := asm.Assemble([]byte(source))
	if diags.HasErrors() {
		t.Fatalf("assembly failed: %v", diags.Errors[0])
	}
	return CrossReference(result.Statements, result.Symbols)
}

func TestCrossReferenceCounts(t *testing.T) {
	symbols := crossReferenceSource(t, "|0100 @loop ,loop ;loop JMP2 @done BRK :done")

	byName := make(map[string]*Symbol)
	for _, sym := range symbols {
		byName[sym.Name] = sym
	}

	loop := byName["loop"]
	if loop == nil {
		t.Fatal("loop not in the cross-reference")
	}
	if len(loop.References) != 2 {
		t.Errorf("expected two references to loop, got %d", len(loop.References))
	}

	done := byName["done"]
	if done == nil || len(done.References) != 1 {
		t.Fatalf("expected one reference to done, got %+v", done)
	}
	if done.References[0].Kind != RefRaw {
		t.Errorf("expected a raw reference, got %v", done.References[0].Kind)
	}
}

func TestCrossReferenceSortedByAddress(t *testing.T) {
	symbols := crossReferenceSource(t, "|0100 @b #01 @a ,a ,b")
	if len(symbols) != 2 {
		t.Fatalf("expected two symbols, got %d", len(symbols))
	}
	if symbols[0].Name != "b" || symbols[1].Name != "a" {
		t.Errorf("expected address order b then a, got %s then %s", symbols[0].Name, symbols[1].Name)
	}
}

func TestWriteTable(t *testing.T) {
	symbols := crossReferenceSource(t, "|0100 @main ;main JMP2")

	var sb strings.Builder
	WriteTable(&sb, symbols)
	out := sb.String()

	if !strings.Contains(out, "SYMBOL") || !strings.Contains(out, "main") {
		t.Errorf("expected a table with the main symbol, got:\n%s", out)
	}
	if !strings.Contains(out, "0x0100") {
		t.Errorf("expected the symbol address, got:\n%s", out)
	}
	if !strings.Contains(out, "absolute") {
		t.Errorf("expected the reference kind, got:\n%s", out)
	}
}
