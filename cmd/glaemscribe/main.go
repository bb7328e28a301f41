/*
Glaemscribe transliterates Latin-script text into Tengwar Unicode code
points using a named mode loaded from a bundle directory.

Usage:

	glaemscribe [flags]
	glaemscribe [flags] TEXT

The flags are:

	-v, --version
		Print the version and exit.

	-b, --bundle DIR
		Directory containing a modes.toml manifest and the mode/charset
		files it references. Defaults to "./modes".

	-m, --mode NAME
		Name of the mode to transcribe with. Required unless --list is
		given.

	-o, --option KEY=VALUE
		Set a mode option, overriding its declared default. May be given
		more than once.

	-l, --list
		List every mode declared in the bundle and exit.

	-d, --direct
		Read from stdin directly instead of through GNU readline, even if
		attached to a terminal.

If TEXT is given on the command line, it is transcribed once and the
result is printed to stdout. Otherwise glaemscribe reads lines of text
from stdin (interactively, if stdin is a terminal) and prints the
transcription of each line until EOF.
*/
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"

	glaemscribe "github.com/glaemscribe/glaemscribe-go"
	"github.com/glaemscribe/glaemscribe-go/internal/clinput"
	"github.com/glaemscribe/glaemscribe-go/internal/registry"
	"github.com/glaemscribe/glaemscribe-go/internal/version"
)

const (
	ExitSuccess = iota
	ExitUsageError
	ExitBundleError
	ExitModeError
)

const consoleOutputWidth = 80

var (
	returnCode  = ExitSuccess
	flagVersion = pflag.BoolP("version", "v", false, "Print the version and exit")
	flagBundle  = pflag.StringP("bundle", "b", "./modes", "Bundle directory containing modes.toml")
	flagMode    = pflag.StringP("mode", "m", "", "Name of the mode to transcribe with")
	flagOptions = pflag.StringArrayP("option", "o", nil, "Set a mode option as KEY=VALUE; may be given more than once")
	flagList    = pflag.BoolP("list", "l", false, "List every mode declared in the bundle and exit")
	flagDirect  = pflag.BoolP("direct", "d", false, "Force reading directly from stdin instead of readline")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	bundle, err := registry.Load(*flagBundle)
	if err != nil {
		printErr("loading bundle: %s", err)
		returnCode = ExitBundleError
		return
	}

	if *flagList {
		for _, name := range bundle.ModeNames() {
			fmt.Println(name)
		}
		return
	}

	if *flagMode == "" {
		printErr("no mode given; use --mode or --list")
		returnCode = ExitUsageError
		return
	}

	opts, err := parseOptions(*flagOptions)
	if err != nil {
		printErr("parsing --option: %s", err)
		returnCode = ExitUsageError
		return
	}

	m, err := bundle.Mode(*flagMode)
	if err != nil {
		printErr("loading mode %q: %s", *flagMode, err)
		returnCode = ExitModeError
		return
	}
	if err := m.Finalize(opts); err != nil {
		printErr("finalizing mode %q: %s", *flagMode, err)
		returnCode = ExitModeError
		return
	}

	if args := pflag.Args(); len(args) > 0 {
		transcribeLine(m, strings.Join(args, " "))
		return
	}

	if err := runLoop(m); err != nil {
		printErr("%s", err)
		returnCode = ExitModeError
	}
}

func parseOptions(raw []string) (map[string]string, error) {
	opts := make(map[string]string, len(raw))
	for _, kv := range raw {
		eq := strings.Index(kv, "=")
		if eq < 0 {
			return nil, fmt.Errorf("%q is not in KEY=VALUE form", kv)
		}
		opts[strings.TrimSpace(kv[:eq])] = strings.TrimSpace(kv[eq+1:])
	}
	return opts, nil
}

// runLoop reads lines of text from stdin, one transcription per line,
// until EOF. It uses GNU readline for an interactive prompt unless
// --direct was given or stdin isn't a terminal.
func runLoop(m *glaemscribe.Mode) error {
	useReadline := !*flagDirect && isTerminal(os.Stdin)

	var in clinput.Reader
	if useReadline {
		ir, err := clinput.NewInteractiveReader(m.Name + "> ")
		if err != nil {
			return fmt.Errorf("initializing interactive input: %w", err)
		}
		in = ir
	} else {
		in = clinput.NewDirectReader(os.Stdin)
	}
	defer in.Close()

	in.AllowBlank(false)
	for {
		line, err := in.ReadLine()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return fmt.Errorf("reading input: %w", err)
		}
		transcribeLine(m, line)
	}
}

func transcribeLine(m *glaemscribe.Mode, line string) {
	ok, out, dr := m.Transcribe(line)
	if !ok {
		printErr("mode %q was not finalized", m.Name)
		return
	}
	for _, w := range dr.Warnings {
		fmt.Fprintln(os.Stderr, rosed.Edit("warning: "+w.String()).Wrap(consoleOutputWidth).String())
	}
	fmt.Println(out)
}

func printErr(format string, a ...interface{}) {
	msg := rosed.Edit(fmt.Sprintf(format, a...)).Wrap(consoleOutputWidth).String()
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", msg)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
