package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/mcncl/toonsafe/internal/cli"
	"github.com/mcncl/toonsafe/internal/config"
	"github.com/mcncl/toonsafe/internal/errors"
)

// CLI defines the command-line interface
var CLI struct {
	Input       string `help:"Path to input file. If not specified, reads from stdin." short:"i" type:"path"`
	Output      string `help:"Path to output file. If not specified, writes to stdout." short:"o" type:"path"`
	Decode      bool   `help:"Decode TOON or JSON input to pretty-printed JSON instead of encoding." short:"d"`
	Strict      bool   `help:"Enforce the TOON grammar strictly when decoding." short:"s"`
	Indent      int    `help:"Spaces per TOON indentation level." default:"0"`
	Delimiter   string `help:"Cell delimiter for TOON inline arrays and table rows."`
	KeyCase     string `help:"Restyle object keys before encoding: snake, camel, pascal or kebab." name:"key-case"`
	Config      string `help:"Path to a config file. Defaults to the nearest .toonsafe.yml." short:"c" type:"path"`
	Interactive bool   `help:"Run in interactive mode, allowing direct input with Ctrl+D to process." short:"I"`
	Verbose     bool   `help:"Report which grammar handled the payload on stderr."`
	Version     bool   `help:"Show version information." short:"v"`
}

// Version information
const (
	Version = "0.1.0"
)

func main() {
	parser := kong.Must(&CLI,
		kong.Name("toonsafe"),
		kong.Description("Convert payloads between JSON/YAML and TOON with a safe JSON fallback"),
		kong.UsageOnError(),
	)

	// Default to interactive mode when invoked with no arguments
	if len(os.Args) == 1 {
		CLI.Interactive = true
	}

	_, err := parser.Parse(os.Args[1:])
	if err != nil {
		// Usage is already shown by kong.UsageOnError()
		os.Exit(1)
	}

	if CLI.Version {
		fmt.Printf("toonsafe version %s\n", Version)
		return
	}

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", errors.UserFriendlyError(err))
		fmt.Fprintf(os.Stderr, "\nFor help, run: toonsafe --help\n")
		os.Exit(1)
	}
}

// run executes the main program logic
func run() error {
	cfg, err := config.LoadConfigWithCLI(CLI.Config, CLI.Indent, CLI.Delimiter, CLI.KeyCase, CLI.Strict, CLI.Verbose)
	if err != nil {
		return errors.NewConfigError("failed to load configuration", err)
	}

	input, err := readInput()
	if err != nil {
		return err
	}

	opts := cli.Options{
		Decode:    CLI.Decode,
		Strict:    cfg.Decoding.Strict,
		Indent:    cfg.Encoding.Indent,
		Delimiter: cfg.Encoding.Delimiter,
		KeyCase:   cfg.Keys.Case,
		Verbose:   cfg.Dev.Verbose,
	}
	output, err := cli.Convert(input, opts, os.Stderr)
	if err != nil {
		return err
	}

	return writeOutput(output)
}

// readInput reads the payload from file or stdin
func readInput() (string, error) {
	if CLI.Input != "" {
		return readInputFile(CLI.Input)
	}

	stdinInfo, err := os.Stdin.Stat()
	if err != nil {
		return "", errors.NewInputError("failed to access stdin", err)
	}

	if (stdinInfo.Mode() & os.ModeCharDevice) != 0 {
		// Terminal is interactive (not piped)
		if CLI.Interactive {
			return readInteractiveInput()
		}
		return "", errors.NewInputError("no input provided", errors.ErrNoInput)
	}

	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", errors.NewInputError("failed to read from stdin", err)
	}
	if len(data) == 0 {
		return "", errors.NewInputError("empty input received from stdin", errors.ErrEmptyInput)
	}
	return string(data), nil
}

func readInputFile(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return "", errors.NewInputError("file path is empty", errors.ErrInvalidFilePath)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", errors.NewInputError(fmt.Sprintf("file '%s' not found", path), errors.ErrFileNotFound)
		}
		return "", errors.NewInputError(fmt.Sprintf("failed to read file '%s'", path), err)
	}
	if len(data) == 0 {
		return "", errors.NewInputError(fmt.Sprintf("input file '%s' is empty", path), errors.ErrFileEmpty)
	}
	return string(data), nil
}

// writeOutput writes the converted payload to file or stdout
func writeOutput(output string) error {
	if CLI.Output != "" {
		if err := os.WriteFile(CLI.Output, []byte(output+"\n"), 0644); err != nil {
			return errors.NewOutputError(fmt.Sprintf("failed to write to file '%s'", CLI.Output), err)
		}
		fmt.Fprintf(os.Stderr, "Converted payload written to %s\n", CLI.Output)
		return nil
	}

	if _, err := fmt.Println(strings.TrimSpace(output)); err != nil {
		return errors.NewOutputError("failed to write to stdout", err)
	}
	return nil
}

// readInteractiveInput provides an interactive mode for users to paste a
// payload and signal completion with Ctrl+D (EOF)
func readInteractiveInput() (string, error) {
	fmt.Fprintln(os.Stderr, "toonsafe Interactive Mode")
	fmt.Fprintln(os.Stderr, "Paste your payload below and press Ctrl+D (or Ctrl+Z on Windows) when done:")

	reader := bufio.NewReader(os.Stdin)
	var sb strings.Builder

	for {
		line, err := reader.ReadString('\n')
		if err == io.EOF {
			sb.WriteString(line)
			break
		}
		if err != nil {
			return "", errors.NewInputError("error reading input", err)
		}
		sb.WriteString(line)
	}

	if sb.Len() == 0 {
		return "", errors.NewInputError("empty input received", errors.ErrEmptyInput)
	}

	fmt.Fprintln(os.Stderr, "\nProcessing payload...")
	return sb.String(), nil
}
