// Package inspect is a read-only TUI for assembled ROMs: a hex dump of
// the image and the symbol table, side by side. It never executes
// anything.
package inspect

import (
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"github.com/lookbusy1344/uxn-assembler/parser"
)

// Inspector represents the ROM inspector interface
type Inspector struct {
	App *tview.Application

	MainLayout *tview.Flex
	HexView    *tview.TextView
	SymbolView *tview.TextView
	StatusBar  *tview.TextView

	rom          []byte
	symbols      *parser.Definitions
	bytesPerLine int
}

// New creates an inspector for the given ROM and symbol table.
func New(rom []byte, symbols *parser.Definitions, bytesPerLine int) *Inspector {
	if bytesPerLine <= 0 {
		bytesPerLine = 16
	}
	ins := &Inspector{
		App:          tview.NewApplication(),
		rom:          rom,
		symbols:      symbols,
		bytesPerLine: bytesPerLine,
	}
	ins.initializeViews()
	ins.buildLayout()
	ins.setupKeyBindings()
	return ins
}

func (ins *Inspector) initializeViews() {
	ins.HexView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	ins.HexView.SetBorder(true).SetTitle(" ROM ")

	ins.SymbolView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetWrap(false)
	ins.SymbolView.SetBorder(true).SetTitle(" Symbols ")

	ins.StatusBar = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)

	ins.HexView.SetText(ins.renderHexDump())
	ins.SymbolView.SetText(ins.renderSymbols())
	ins.StatusBar.SetText(fmt.Sprintf(" %d bytes | Tab switch pane | q quit", len(ins.rom)))
}

func (ins *Inspector) buildLayout() {
	content := tview.NewFlex().
		SetDirection(tview.FlexColumn).
		AddItem(ins.HexView, 0, 3, true).
		AddItem(ins.SymbolView, 0, 1, false)

	ins.MainLayout = tview.NewFlex().
		SetDirection(tview.FlexRow).
		AddItem(content, 0, 1, true).
		AddItem(ins.StatusBar, 1, 0, false)
}

func (ins *Inspector) setupKeyBindings() {
	ins.App.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch {
		case event.Key() == tcell.KeyTab:
			if ins.HexView.HasFocus() {
				ins.App.SetFocus(ins.SymbolView)
			} else {
				ins.App.SetFocus(ins.HexView)
			}
			return nil
		case event.Rune() == 'q', event.Key() == tcell.KeyEscape:
			ins.App.Stop()
			return nil
		}
		return event
	})
}

// Run starts the inspector and blocks until the user quits.
func (ins *Inspector) Run() error {
	return ins.App.SetRoot(ins.MainLayout, true).Run()
}

// renderHexDump formats the ROM as addressed hex lines with an ASCII
// column. Addresses start at the zeroth page boundary, matching how the
// ROM is mapped when loaded.
func (ins *Inspector) renderHexDump() string {
	return HexDump(ins.rom, ins.bytesPerLine)
}

func (ins *Inspector) renderSymbols() string {
	if ins.symbols == nil || ins.symbols.Len() == 0 {
		return " (no symbols)"
	}
	var sb strings.Builder
	for _, id := range ins.symbols.All() {
		def, _ := ins.symbols.Lookup(id)
		fmt.Fprintf(&sb, " [yellow]%04x[-]  %s\n", def.Address, id.String())
	}
	return sb.String()
}

// HexDump formats rom as a conventional hex dump. The address column is
// offset by the zeroth page, so the first ROM byte shows as 0100.
func HexDump(rom []byte, bytesPerLine int) string {
	if bytesPerLine <= 0 {
		bytesPerLine = 16
	}
	var sb strings.Builder
	for offset := 0; offset < len(rom); offset += bytesPerLine {
		end := offset + bytesPerLine
		if end > len(rom) {
			end = len(rom)
		}
		line := rom[offset:end]

		fmt.Fprintf(&sb, "%04x  ", offset+parser.PageSize)
		for i := 0; i < bytesPerLine; i++ {
			if i < len(line) {
				fmt.Fprintf(&sb, "%02x ", line[i])
			} else {
				sb.WriteString("   ")
			}
			if i == bytesPerLine/2-1 {
				sb.WriteByte(' ')
			}
		}
		sb.WriteByte(' ')
		for _, b := range line {
			if b >= 0x20 && b < 0x7f {
				sb.WriteByte(b)
			} else {
				sb.WriteByte('.')
			}
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}
