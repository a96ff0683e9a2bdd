// procure is a command-line front end for the TOON codec and the
// procurement calculation rules.
//
// Usage:
//
//	procure <command> [flags] [file]
//
// Input is read from file, or from stdin when file is omitted or "-". JSON
// input may contain comments and trailing commas; files ending in .yaml or
// .yml are read as YAML and files ending in .toon as TOON.
package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sort"

	_ "github.com/joho/godotenv/autoload"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/paularlott/procure/internal/config"
)

func main() {
	if err := run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr); err != nil {
		var coder interface{ ExitCode() int }
		if errors.As(err, &coder) {
			os.Exit(coder.ExitCode())
		}
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// exitError ends the program with a status code after the command has
// already reported the problem itself.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func (e *exitError) ExitCode() int {
	return e.code
}

type app struct {
	cfg    *config.Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

type command struct {
	summary string
	run     func(a *app, args []string) error
}

var commands = map[string]command{
	"encode":   {"Convert JSON, JSONC or YAML to TOON", (*app).encode},
	"decode":   {"Convert TOON to indented JSON", (*app).decode},
	"savings":  {"Estimate the size saving of TOON over JSON", (*app).savings},
	"total":    {"Compute line and request totals for a request file", (*app).total},
	"validate": {"Validate a request file", (*app).validate},
	"create":   {"Create a request from a request file and print it", (*app).create},
	"offer":    {"Convert a model reply describing a vendor offer", (*app).offer},
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	a := &app{
		cfg:    cfg,
		logger: newLogger(cfg, stderr),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	if len(args) == 0 || args[0] == "help" || args[0] == "-h" || args[0] == "--help" {
		printUsage(stdout)
		return nil
	}

	cmd, ok := commands[args[0]]
	if !ok {
		printUsage(stderr)
		return fmt.Errorf("unknown command %q", args[0])
	}

	a.logger = a.logger.With("command", args[0])
	return cmd.run(a, args[1:])
}

// newLogger writes to w. In auto mode a terminal gets text and anything
// else gets JSON records.
func newLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	options := &slog.HandlerOptions{Level: cfg.LogLevel}

	format := cfg.LogFormat
	if format == "auto" {
		format = "json"
		if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
			format = "text"
		}
	}

	if format == "text" {
		return slog.New(slog.NewTextHandler(w, options))
	}
	return slog.New(slog.NewJSONHandler(w, options))
}

func printUsage(w io.Writer) {
	fmt.Fprintf(w, "Usage:\n  procure <command> [flags] [file]\n\nCommands:\n")

	names := make([]string, 0, len(commands))
	for name := range commands {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(w, "  %-9s %s\n", name, commands[name].summary)
	}

	fmt.Fprintf(w, "\nRun 'procure <command> --help' for command flags.\n")
}

// newFlagSet creates the flag set for a subcommand. Parse errors and help
// output go to stderr.
func (a *app) newFlagSet(name string) *pflag.FlagSet {
	flagSet := pflag.NewFlagSet("procure "+name, pflag.ContinueOnError)
	flagSet.SetOutput(a.stderr)
	return flagSet
}

// parseFlags parses args and returns the optional file argument.
func parseFlags(flagSet *pflag.FlagSet, args []string) (string, error) {
	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return "", &exitError{code: 0}
		}
		return "", err
	}

	rest := flagSet.Args()
	switch len(rest) {
	case 0:
		return "", nil
	case 1:
		return rest[0], nil
	}
	return "", fmt.Errorf("unexpected argument: %s", rest[1])
}
