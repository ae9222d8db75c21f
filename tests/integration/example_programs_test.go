package integration_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/lookbusy1344/uxn-assembler/asm"
	"github.com/lookbusy1344/uxn-assembler/parser"
)

// assembleExample loads and assembles an example program file
func assembleExample(t *testing.T, filename string) (*asm.Result, *parser.ErrorList) {
	t.Helper()

	examplePath := filepath.Join("..", "..", "examples", filename)
	if _, err := os.Stat(examplePath); os.IsNotExist(err) {
		t.Skipf("examples/%s not found", filename)
	}

	source, err := os.ReadFile(examplePath)
	if err != nil {
		t.Fatalf("failed to read %s: %v", filename, err)
	}

	return asm.Assemble(source)
}

func TestExampleProgram_Add(t *testing.T) {
	result, diags := assembleExample(t, "add.tal")
	if diags.HasErrors() {
		t.Fatalf("assembly failed: %v", diags.Errors[0])
	}

	want := []byte{0x01, 0x02, 0x01, 0x03, 0x18, 0x00}
	if !bytes.Equal(result.ROM, want) {
		t.Errorf("expected % x, got % x", want, result.ROM)
	}
}

func TestExampleProgram_Hello(t *testing.T) {
	result, diags := assembleExample(t, "hello.tal")
	if diags.HasErrors() {
		t.Fatalf("assembly failed: %v", diags.Errors[0])
	}
	if len(diags.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", diags.Warnings[0])
	}

	if !bytes.Contains(result.ROM, []byte("Hello")) {
		t.Error("expected the greeting bytes in the ROM")
	}

	def, ok := result.Symbols.Lookup(parser.ScopedIdentifier{Label: "Console", Sublabel: "write"})
	if !ok || def.Address != 0x0018 {
		t.Errorf("expected Console/write at 0x0018, got %+v", def)
	}
}

func TestExampleProgram_Counter(t *testing.T) {
	result, diags := assembleExample(t, "counter.tal")
	if diags.HasErrors() {
		t.Fatalf("assembly failed: %v", diags.Errors[0])
	}
	if len(diags.Warnings) != 0 {
		t.Errorf("expected no warnings, got %v", diags.Warnings[0])
	}

	// Both macros expand at every invocation site; the ROM ends with
	// JCN POP BRK.
	tail := result.ROM[len(result.ROM)-3:]
	if !bytes.Equal(tail, []byte{0x0d, 0x03, 0x00}) {
		t.Errorf("expected the ROM to end with JCN POP BRK, got % x", tail)
	}
}

func TestExampleProgram_ZeroPage(t *testing.T) {
	result, diags := assembleExample(t, "zeropage.tal")
	if diags.HasErrors() {
		t.Fatalf("assembly failed: %v", diags.Errors[0])
	}

	a, _ := result.Symbols.Lookup(parser.ScopedIdentifier{Label: "scratch", Sublabel: "a"})
	b, _ := result.Symbols.Lookup(parser.ScopedIdentifier{Label: "scratch", Sublabel: "b"})
	if a.Address != 0x0000 || b.Address != 0x0001 {
		t.Errorf("expected scratch vars at 0 and 1, got %#04x and %#04x", a.Address, b.Address)
	}

	// .scratch/a LDZ reads back through the zero-page literal.
	if !bytes.Contains(result.ROM, []byte{0x01, 0x00, 0x10}) {
		t.Error("expected a zero-page load of scratch/a")
	}
}

func TestAllExamplesAssemble(t *testing.T) {
	dir := filepath.Join("..", "..", "examples")
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		t.Skip("examples directory not found")
	}
	if err != nil {
		t.Fatal(err)
	}

	for _, entry := range entries {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".tal" {
			continue
		}
		name := entry.Name()
		t.Run(name, func(t *testing.T) {
			source, err := os.ReadFile(filepath.Join(dir, name))
			if err != nil {
				t.Fatal(err)
			}
			result, diags := asm.Assemble(source)
			if diags.HasErrors() {
				t.Fatalf("%s failed to assemble: %v", name, diags.Errors[0])
			}
			if len(result.ROM) == 0 {
				t.Errorf("%s assembled to an empty ROM", name)
			}
		})
	}
}
