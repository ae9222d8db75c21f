package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/lookbusy1344/uxn-assembler/api"
	"github.com/lookbusy1344/uxn-assembler/asm"
	"github.com/lookbusy1344/uxn-assembler/config"
	"github.com/lookbusy1344/uxn-assembler/inspect"
	"github.com/lookbusy1344/uxn-assembler/loader"
	"github.com/lookbusy1344/uxn-assembler/parser"
	"github.com/lookbusy1344/uxn-assembler/reporter"
	"github.com/lookbusy1344/uxn-assembler/tools"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"     // Version number (set by git tag at build time)
	Commit  = "unknown" // Git commit hash
	Date    = "unknown" // Build date
)

func main() {
	// Command-line flags
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		outputPath  = flag.String("o", "", "Output ROM path (default: input name with .rom)")
		configPath  = flag.String("config", "", "Config file path (default: platform config dir)")
		verboseMode = flag.Bool("verbose", false, "Verbose output")
		noColor     = flag.Bool("no-color", false, "Disable colored diagnostics")

		writeSym    = flag.Bool("sym", false, "Write a symbol sidecar file next to the ROM")
		dumpSymbols = flag.Bool("dump-symbols", false, "Dump the symbol table after assembly")
		xrefMode    = flag.Bool("xref", false, "Print a symbol cross-reference after assembly")
		inspectMode = flag.Bool("inspect", false, "Open the assembled ROM in the TUI inspector")

		apiServer = flag.Bool("api-server", false, "Start HTTP API server mode")
		apiPort   = flag.Int("port", 0, "API server port (used with -api-server; default from config)")
	)

	flag.Usage = printUsage
	flag.Parse()

	if *showVersion {
		fmt.Printf("uxnasm %s (commit %s, built %s)\n", Version, Commit, Date)
		return
	}
	if *showHelp {
		printUsage()
		return
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "uxnasm: %v\n", err)
		os.Exit(1)
	}

	if *apiServer {
		port := cfg.Server.Port
		if *apiPort != 0 {
			port = *apiPort
		}
		runServer(port, cfg.Server.MaxSourceSize)
		return
	}

	if flag.NArg() < 1 {
		printUsage()
		os.Exit(2)
	}
	inputPath := flag.Arg(0)

	source, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "uxnasm: cannot read %s: %v\n", inputPath, err)
		os.Exit(1)
	}

	result, diags := asm.Assemble(source)
	filterWarnings(diags, cfg)

	color := cfg.Display.ColorOutput && !*noColor
	rep := reporter.New(inputPath, source, color)
	rep.ReportAll(os.Stderr, diags)

	if result == nil {
		os.Exit(1)
	}

	if *dumpSymbols {
		for _, id := range result.Symbols.All() {
			def, _ := result.Symbols.Lookup(id)
			fmt.Printf("%04x %s\n", def.Address, id.String())
		}
		return
	}
	if *xrefMode {
		tools.WriteTable(os.Stdout, tools.CrossReference(result.Statements, result.Symbols))
		return
	}
	if *inspectMode {
		if err := inspect.New(result.ROM, result.Symbols, cfg.Display.BytesPerLine).Run(); err != nil {
			fmt.Fprintf(os.Stderr, "uxnasm: inspector failed: %v\n", err)
			os.Exit(1)
		}
		return
	}

	out := *outputPath
	if out == "" {
		if flag.NArg() > 1 {
			out = flag.Arg(1)
		} else {
			base := strings.TrimSuffix(inputPath, filepath.Ext(inputPath))
			out = base + cfg.Assembler.DefaultExtension
		}
	}

	if err := loader.SaveROM(out, result.ROM); err != nil {
		fmt.Fprintf(os.Stderr, "uxnasm: %v\n", err)
		os.Exit(1)
	}
	if *writeSym {
		if err := loader.SaveSymbols(out+".sym", result.Symbols); err != nil {
			fmt.Fprintf(os.Stderr, "uxnasm: %v\n", err)
			os.Exit(1)
		}
	}

	if *verboseMode {
		fmt.Printf("Assembled %s in %d bytes(%d labels), %d warnings.\n",
			out, len(result.ROM), result.Symbols.Len(), len(diags.Warnings))
	}
}

// filterWarnings drops the warning categories the configuration disables.
func filterWarnings(diags *parser.ErrorList, cfg *config.Config) {
	kept := diags.Warnings[:0]
	for _, w := range diags.Warnings {
		switch w.Kind {
		case parser.WarnLabelUnused:
			if !cfg.Assembler.WarnUnusedLabels {
				continue
			}
		case parser.WarnMacroUnused:
			if !cfg.Assembler.WarnUnusedMacros {
				continue
			}
		}
		kept = append(kept, w)
	}
	diags.Warnings = kept
}

// runServer starts the API server and blocks until interrupted.
func runServer(port, maxSourceSize int) {
	api.Version = Version
	server := api.NewServer(port, maxSourceSize)

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil {
			fmt.Fprintf(os.Stderr, "uxnasm: server error: %v\n", err)
			os.Exit(1)
		}
	case <-sigCh:
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			fmt.Fprintf(os.Stderr, "uxnasm: shutdown error: %v\n", err)
			os.Exit(1)
		}
	}
}

func printUsage() {
	fmt.Fprintf(os.Stderr, `uxnasm - Uxntal assembler

Usage:
  uxnasm [options] input.tal [output.rom]
  uxnasm -api-server [-port N]

Options:
`)
	flag.PrintDefaults()
}
