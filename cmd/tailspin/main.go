package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/peterh/liner"

	"github.com/daios-ai/tailspin"
)

const (
	appName     = "tailspin"
	historyFile = ".tailspin_history"
	promptMain  = ">> "
	promptCont  = ".. "
)

var (
	banner   = fmt.Sprintf("tailspin %s REPL\nCtrl+C cancels input, Ctrl+D exits. Type :help for commands.", tailspin.Version)
	helpText = `
REPL commands:
  :quit      Exit the REPL
  :symbols   List every symbol visible at top level
  :help      Show this text
`
)

var noColor bool

func paint(code, s string) string {
	if noColor {
		return s
	}
	return code + s + "\x1b[0m"
}

func red(s string) string   { return paint("\x1b[31m", s) }
func green(s string) string { return paint("\x1b[32m", s) }
func blue(s string) string  { return paint("\x1b[94m", s) }

func main() {
	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	cmd := os.Args[1]
	switch cmd {
	case "run":
		os.Exit(cmdRun(os.Args[2:]))
	case "check":
		os.Exit(cmdCheck(os.Args[2:]))
	case "fmt":
		os.Exit(cmdFmt(os.Args[2:]))
	case "repl":
		os.Exit(cmdRepl(os.Args[2:]))
	case "version":
		fmt.Println(tailspin.Version)
		return
	case "-h", "--help", "help":
		usage()
		os.Exit(0)
	default:
		fmt.Fprintf(os.Stderr, "%s: unknown command %q\n", appName, cmd)
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Printf(`tailspin %s (built %s)

Usage:
  %s run [-max-depth N] [-no-color] <file.scm>   Run a program.
  %s check [-spans N] <file.scm> ...             Parse and verify tail calls only.
  %s fmt [--check] <file.scm> ...                Print files in canonical syntax.
  %s repl [-max-depth N] [-no-color]             Start the REPL.
  %s version                                     Print the compiled version

`, tailspin.Version, tailspin.BuildDate, appName, appName, appName, appName, appName)
}

// interpFlags registers the flags shared by run and repl.
func interpFlags(fs *flag.FlagSet) *int {
	maxDepth := fs.Int("max-depth", tailspin.DefaultMaxDepth, "maximum evaluator nesting before a program fails (about 3 levels per non-tail call)")
	fs.BoolVar(&noColor, "no-color", false, "disable ANSI colors")
	return maxDepth
}

// -----------------------------------------------------------------------------
// run
// -----------------------------------------------------------------------------

func cmdRun(args []string) int {
	fs := flag.NewFlagSet("run", flag.ContinueOnError)
	maxDepth := interpFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() != 1 {
		fmt.Fprintf(os.Stderr, "usage: %s run [-max-depth N] [-no-color] <file.scm>\n", appName)
		return 2
	}

	file := fs.Arg(0)
	src, err := os.ReadFile(file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
		return 1
	}

	ip := tailspin.NewInterpreter()
	ip.SetMaxDepth(*maxDepth)
	if _, err := ip.EvalNamedSource(file, string(src)); err != nil {
		fmt.Fprintln(os.Stderr, red(strings.TrimRight(err.Error(), "\n")))
		return 1
	}
	return 0
}

// -----------------------------------------------------------------------------
// check
// -----------------------------------------------------------------------------

func cmdCheck(args []string) int {
	fs := flag.NewFlagSet("check", flag.ContinueOnError)
	preview := fs.Int("spans", 0, "also print the first N recorded source spans per file")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s check [-spans N] <file.scm> ...\n", appName)
		return 2
	}
	status := 0
	for _, file := range fs.Args() {
		if err := checkFile(file, *preview); err != nil {
			fmt.Fprintln(os.Stderr, red(strings.TrimRight(err.Error(), "\n")))
			status = 1
			continue
		}
		fmt.Printf("%s %s\n", green("ok"), file)
	}
	return status
}

func checkFile(file string, preview int) error {
	src, err := os.ReadFile(file)
	if err != nil {
		return fmt.Errorf("%s: cannot read %s: %w", appName, file, err)
	}
	ip := tailspin.NewInterpreter()
	forms, spans, err := ip.Load(string(src))
	if err != nil {
		return tailspin.WrapErrorWithName(err, file, string(src))
	}
	if preview > 0 {
		return tailspin.VerifySpanIndex(string(src), forms, spans, preview, os.Stdout)
	}
	return nil
}

// -----------------------------------------------------------------------------
// fmt
// -----------------------------------------------------------------------------

func cmdFmt(args []string) int {
	fs := flag.NewFlagSet("fmt", flag.ContinueOnError)
	checkOnly := fs.Bool("check", false, "report files whose text is not canonical, print nothing else")
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintf(os.Stderr, "usage: %s fmt [--check] <file.scm> ...\n", appName)
		return 2
	}

	status := 0
	for _, file := range fs.Args() {
		src, err := os.ReadFile(file)
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s: cannot read %s: %v\n", appName, file, err)
			status = 1
			continue
		}
		out, err := tailspin.Pretty(string(src))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s\n%s\n", file, red(strings.TrimRight(err.Error(), "\n")))
			status = 1
			continue
		}
		if *checkOnly {
			if strings.TrimSpace(string(src)) != out {
				fmt.Println(fileAbsOrOrig(file))
				status = 1
			}
			continue
		}
		fmt.Println(out)
	}
	return status
}

func fileAbsOrOrig(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return p
}

// -----------------------------------------------------------------------------
// repl
// -----------------------------------------------------------------------------

func cmdRepl(args []string) (ret int) {
	fs := flag.NewFlagSet("repl", flag.ContinueOnError)
	maxDepth := interpFlags(fs)
	if err := fs.Parse(args); err != nil {
		return 2
	}
	tailspin.EnableColor = !noColor

	fmt.Println(banner)

	home, _ := os.UserHomeDir()
	histPath := filepath.Join(home, historyFile)

	ln := liner.NewLiner()
	defer ln.Close()
	ln.SetCtrlCAborts(true)

	defer func() {
		if f, err := os.Create(histPath); err == nil {
			_, _ = ln.WriteHistory(f)
			_ = f.Close()
		}
	}()

	sigc := make(chan os.Signal, 1)
	signal.Notify(sigc, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigc)
	go func() {
		<-sigc
		ln.Close()
		os.Exit(130)
	}()

	if f, err := os.Open(histPath); err == nil {
		_, _ = ln.ReadHistory(f)
		_ = f.Close()
	}

	ip := tailspin.NewInterpreter()
	ip.SetMaxDepth(*maxDepth)

	ln.SetWordCompleter(func(line string, pos int) (string, []string, string) {
		return tailspin.CompleteWord(line, pos, ip.VisibleNames())
	})

	for {
		code, ok := readUntilParsed(ln, promptMain, promptCont)
		if !ok {
			fmt.Println()
			break
		}

		trimmed := strings.TrimSpace(code)
		if trimmed == "" {
			continue
		}
		if strings.HasPrefix(trimmed, ":") {
			switch strings.ToLower(trimmed) {
			case ":quit":
				return 0
			case ":symbols":
				fmt.Println(strings.Join(ip.VisibleNames(), " "))
			case ":help":
				fmt.Print(helpText)
			default:
				fmt.Printf("unknown command. Type :help for commands.\n")
			}
			continue
		}

		ln.AppendHistory(strings.ReplaceAll(code, "\n", " "))
		v, err := ip.EvalSource(code)
		if err != nil {
			fmt.Fprintln(os.Stderr, red(strings.TrimRight(err.Error(), "\n")))
			continue
		}
		fmt.Println(blue("=> ") + tailspin.FormatValue(v, ip.Symbols))
	}

	return 0
}

// readUntilParsed keeps prompting until the buffered lines parse or fail
// with something other than "input ended too early".
func readUntilParsed(ln *liner.State, prompt, cont string) (string, bool) {
	var b strings.Builder

	for {
		var line string
		var err error
		if b.Len() == 0 {
			line, err = ln.Prompt(prompt)
		} else {
			line, err = ln.Prompt(cont)
		}
		if errors.Is(err, io.EOF) {
			return "", false
		}
		if errors.Is(err, liner.ErrPromptAborted) {
			b.Reset()
			continue
		}
		if err != nil {
			return "", true
		}

		if b.Len() > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(line)

		src := b.String()
		_, perr := tailspin.ParseProgram(src, tailspin.NewSymbolTable())
		if perr != nil && tailspin.IsIncomplete(perr) {
			continue
		}
		return src, true
	}
}
