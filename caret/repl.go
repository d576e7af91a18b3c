package caret

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/shurcooL/go-goon"
)

// Repl reads lines, evaluates each as one expression, and
// prints the value or a caret diagnostic.
type Repl struct {
	ses *Session
	cfg *CaretConfig
	out io.Writer
}

func NewRepl(ses *Session, cfg *CaretConfig, out io.Writer) *Repl {
	return &Repl{ses: ses, cfg: cfg, out: out}
}

func getLine(reader *bufio.Reader) (string, error) {
	line := make([]byte, 0)
	for {
		linepart, hasMore, err := reader.ReadLine()
		if err != nil {
			return "", err
		}
		line = append(line, linepart...)
		if !hasMore {
			break
		}
	}
	return string(line), nil
}

// HandleLine processes one line of input. It returns false
// once the user has asked to quit.
func (r *Repl) HandleLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return true
	}

	if strings.HasPrefix(trimmed, ".") {
		first, rest, _ := strings.Cut(trimmed, " ")
		rest = strings.TrimSpace(rest)
		switch first {
		case ".quit":
			return false
		case ".ls":
			fmt.Fprint(r.out, r.ses.Stack().Show(r.ses.Interner(), false))
			return true
		case ".gls":
			fmt.Fprint(r.out, r.ses.Stack().Show(r.ses.Interner(), true))
			return true
		case ".clear":
			r.ses.Clear()
			fmt.Fprintf(r.out, "cleared user bindings.\n")
			return true
		case ".verb":
			Verbose = !Verbose
			fmt.Fprintf(r.out, "verbose: %v.\n", Verbose)
			return true
		case ".ast":
			r.dumpAST(rest)
			return true
		case ".tokens":
			r.dumpTokens(rest)
			return true
		case ".save":
			r.save(rest)
			return true
		case ".load":
			r.load(rest)
			return true
		}
		// anything else starting with a dot is an ordinary
		// symbol and goes to the parser.
	}

	expr, src, err := r.ses.Parse(line)
	if err != nil {
		fmt.Fprint(r.out, Render(err, src))
		return true
	}
	VPrintf("parsed %s as %v\n", expr.SexpString(src), expr.Kind)
	if r.cfg.DumpAST {
		fmt.Fprint(r.out, goon.Sdump(expr))
	}
	v, err := r.ses.Eval(expr, src)
	if err != nil {
		fmt.Fprint(r.out, Render(err, src))
		return true
	}
	r.printValue(v)
	return true
}

func (r *Repl) printValue(v Value) {
	if r.cfg.JSON {
		by, err := ValueToJSON(v, r.ses.Interner())
		if err != nil {
			fmt.Fprintf(r.out, "error: %v\n", err)
			return
		}
		fmt.Fprintf(r.out, "%s\n", by)
		return
	}
	fmt.Fprintln(r.out, v.SexpString(r.ses.Interner()))
}

func (r *Repl) dumpAST(text string) {
	expr, src, err := r.ses.Parse(text)
	if err != nil {
		fmt.Fprint(r.out, Render(err, src))
		return
	}
	fmt.Fprintln(r.out, expr.SexpString(src))
	fmt.Fprint(r.out, goon.Sdump(expr))
}

func (r *Repl) dumpTokens(text string) {
	src := NewSource(text)
	toks, err := NewLexer(src).Tokens()
	for _, tok := range toks {
		fmt.Fprintf(r.out, "%v %q\n", tok, src.Slice(tok.Span()))
	}
	if err != nil {
		fmt.Fprint(r.out, Render(err, src))
	}
}

func (r *Repl) save(path string) {
	if path == "" {
		fmt.Fprintf(r.out, "provide a file path to save to.\n")
		return
	}
	format, err := ParseSnapshotFormat(r.cfg.SnapshotFormat)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	f, err := os.Create(path)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	defer f.Close()
	if err := r.ses.Save(f, format); err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "saved %d binding(s) to %s.\n", len(r.ses.UserScope().Map), path)
}

func (r *Repl) load(path string) {
	if path == "" {
		fmt.Fprintf(r.out, "provide a file path to load from.\n")
		return
	}
	f, err := os.Open(path)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	defer f.Close()
	origin, err := r.ses.Load(f)
	if err != nil {
		fmt.Fprintf(r.out, "error: %v\n", err)
		return
	}
	fmt.Fprintf(r.out, "loaded %s (from session %s).\n", path, origin)
}

// Run reads from the terminal, or from in when NoLiner is
// set, until end of input or .quit.
func (r *Repl) Run(in io.Reader) {
	if !r.cfg.Quiet {
		fmt.Fprintf(r.out, "caret version %s\n", Version())
		fmt.Fprintf(r.out, "press tab to get completion suggestions. Ctrl-d to exit.\n")
	}

	var reader *bufio.Reader
	var pr *Prompter
	if r.cfg.NoLiner {
		// reader is used if one wishes to drop the liner library.
		// Useful for not full terminal env, like under test.
		reader = bufio.NewReader(in)
	} else {
		pr = NewPrompter(r.cfg.Prompt, r.cfg.HistoryFile)
		defer pr.Close()
	}

	for {
		var line string
		var err error
		if pr == nil {
			fmt.Fprint(r.out, r.cfg.Prompt)
			line, err = getLine(reader)
		} else {
			line, err = pr.Getline()
		}
		if err != nil {
			if err != io.EOF {
				fmt.Fprintln(r.out, err)
			}
			return
		}
		if !r.HandleLine(line) {
			return
		}
	}
}

// RunScript evaluates every expression in the named file.
// It reports whether all of them succeeded.
func (r *Repl) RunScript(fname string) bool {
	data, err := os.ReadFile(fname)
	if err != nil {
		fmt.Fprintln(r.out, err)
		return false
	}
	v, src, err := r.ses.EvalScript(string(data))
	if err != nil {
		fmt.Fprint(r.out, Render(err, src))
		return false
	}
	logger.Debugf("script %s finished with %s", fname, v.SexpString(r.ses.Interner()))
	return true
}

// like main() for a standalone repl, now in library
func ReplMain(cfg *CaretConfig) {
	verbosity := cfg.Verbosity
	if cfg.Trace && verbosity < 4 {
		verbosity = 4
	}
	ConfigureLogging(verbosity, cfg.LogFile)
	ses := NewSession(cfg)
	r := NewRepl(ses, cfg, os.Stdout)

	if cfg.Command != "" {
		v, src, err := ses.EvalString(cfg.Command)
		if err != nil {
			fmt.Fprint(os.Stderr, Render(err, src))
			os.Exit(1)
		}
		r.printValue(v)
		os.Exit(0)
	}

	runRepl, ok := r.RunArgs(cfg.Flags.Args())
	if !ok && cfg.ExitOnFailure {
		os.Exit(-1)
	}
	if runRepl {
		r.Run(os.Stdin)
	}
}

// RunArgs runs the script named by args[0], if any. The repl
// only follows a script when AfterScriptDontExit is set. ok is
// false if the script failed.
func (r *Repl) RunArgs(args []string) (runRepl bool, ok bool) {
	if len(args) == 0 {
		return true, true
	}
	ok = r.RunScript(args[0])
	return r.cfg.AfterScriptDontExit, ok
}
