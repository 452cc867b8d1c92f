package main

import (
	"io"
	"os"

	"github.com/zx06/airtable-mcp/internal/app"
	"github.com/zx06/airtable-mcp/internal/errors"
	"github.com/zx06/airtable-mcp/internal/output"
)

func main() {
	exit := run()
	os.Exit(exit)
}

// run is the main entry point
func run() int {
	return runArgs(os.Args[1:], os.Stdin, os.Stdout, os.Stderr)
}

func runArgs(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	GlobalConfig = &Config{Stderr: stderr}

	// Initialize application
	a := app.New(version, commit, date)
	w := output.New(stdout, stderr)

	// Create root command
	root := NewRootCommand()
	root.SetArgs(args)
	root.SetIn(stdin)
	root.SetOut(stdout)
	root.SetErr(stderr)

	// Add subcommands
	root.AddCommand(NewSpecCommand(&a, &w))
	root.AddCommand(NewVersionCommand(&a, &w))
	root.AddCommand(NewMCPCommand(&a))
	root.AddCommand(NewToolCommand(&a, &w))
	root.AddCommand(NewSecretCommand(&w))

	// Execute and handle errors
	if err := root.Execute(); err != nil {
		xe := normalizeErr(err)
		format := resolveFormatForError(GlobalConfig.FormatStr)
		_ = w.WriteError(format, xe)
		return int(errors.ExitCodeFor(xe.Code))
	}

	return int(errors.ExitOK)
}
