package caret

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	cv "github.com/glycerine/goconvey/convey"
)

func testReplConfig() *CaretConfig {
	return &CaretConfig{
		NoLiner:        true,
		Quiet:          true,
		MaxDepth:       DefaultMaxDepth,
		SnapshotFormat: "msgpack",
	}
}

func Test110ReplPrintsValuesAndDiagnostics(t *testing.T) {

	cv.Convey(`each line prints a value or a caret diagnostic, and blank lines print nothing`, t, func() {
		var out bytes.Buffer
		cfg := testReplConfig()
		r := NewRepl(NewSession(cfg), cfg, &out)
		r.Run(strings.NewReader("(+ 1 2)\n\n   \n(abc 1 2 3)\n\"s\"\n"))
		cv.So(out.String(), cv.ShouldEqual,
			"3\nerror: undefined symbol\n(abc 1 2 3)\n ^~~\ns\n")
	})

	cv.Convey(`.quit stops reading`, t, func() {
		var out bytes.Buffer
		cfg := testReplConfig()
		cfg.Prompt = "> "
		r := NewRepl(NewSession(cfg), cfg, &out)
		r.Run(strings.NewReader("1\n.quit\n2\n"))
		cv.So(out.String(), cv.ShouldEqual, "> 1\n> ")
	})

	cv.Convey(`-json output`, t, func() {
		var out bytes.Buffer
		cfg := testReplConfig()
		cfg.JSON = true
		r := NewRepl(NewSession(cfg), cfg, &out)
		cv.So(r.HandleLine("[1 :a]"), cv.ShouldBeTrue)
		cv.So(out.String(), cv.ShouldEqual, "[1,\":a\"]\n")
	})
}

func Test111ReplDotCommands(t *testing.T) {

	cv.Convey(`.ls shows user bindings and .clear drops them`, t, func() {
		var out bytes.Buffer
		cfg := testReplConfig()
		r := NewRepl(NewSession(cfg), cfg, &out)
		r.HandleLine("(def! answer 42)")
		out.Reset()
		r.HandleLine(".ls")
		cv.So(out.String(), cv.ShouldContainSubstring, "answer = 42")

		r.HandleLine(".clear")
		out.Reset()
		r.HandleLine("answer")
		cv.So(out.String(), cv.ShouldStartWith, "error: undefined symbol")
	})

	cv.Convey(`.ast and .tokens show the front end's view of a line`, t, func() {
		var out bytes.Buffer
		cfg := testReplConfig()
		r := NewRepl(NewSession(cfg), cfg, &out)
		r.HandleLine(".ast (+ 1,  2)")
		cv.So(out.String(), cv.ShouldStartWith, "(+ 1 2)\n")
		cv.So(out.String(), cv.ShouldContainSubstring, "Elems")

		out.Reset()
		r.HandleLine(".tokens (a 1)")
		cv.So(out.String(), cv.ShouldEqual,
			"Open( \"(\"\nSymbol[1,2) \"a\"\nWhitespace[2,3) \" \"\nInteger[3,4) \"1\"\nClose) \")\"\n")
	})

	cv.Convey(`.save and .load move bindings between sessions`, t, func() {
		path := filepath.Join(t.TempDir(), "snap.crt")
		var out bytes.Buffer
		cfg := testReplConfig()
		r := NewRepl(NewSession(cfg), cfg, &out)
		r.HandleLine("(def! kept [1 2])")
		r.HandleLine(".save " + path)
		cv.So(out.String(), cv.ShouldContainSubstring, "saved 1 binding(s)")

		out.Reset()
		r2 := NewRepl(NewSession(cfg), cfg, &out)
		r2.HandleLine(".load " + path)
		cv.So(out.String(), cv.ShouldStartWith, "loaded "+path)
		out.Reset()
		r2.HandleLine("kept")
		cv.So(out.String(), cv.ShouldEqual, "[1 2]\n")
	})

	cv.Convey(`an unknown dot word is an ordinary symbol`, t, func() {
		var out bytes.Buffer
		cfg := testReplConfig()
		r := NewRepl(NewSession(cfg), cfg, &out)
		r.HandleLine(".nope")
		cv.So(out.String(), cv.ShouldEqual, "error: undefined symbol\n.nope\n^~~~~\n")
	})
}

func Test112ReplRunsScripts(t *testing.T) {

	cv.Convey(`RunScript reports success, or renders the failing line`, t, func() {
		dir := t.TempDir()
		good := filepath.Join(dir, "good.crt")
		bad := filepath.Join(dir, "bad.crt")
		panicOn(os.WriteFile(good, []byte("(def! a 1)\n(def! b (+ a 1))\n"), 0644))
		panicOn(os.WriteFile(bad, []byte("(def! a 1)\n(+ a b)\n"), 0644))

		var out bytes.Buffer
		cfg := testReplConfig()
		ses := NewSession(cfg)
		r := NewRepl(ses, cfg, &out)
		cv.So(r.RunScript(good), cv.ShouldBeTrue)
		cv.So(mustEval(ses, "b"), cv.ShouldEqual, "2")

		r = NewRepl(NewSession(cfg), cfg, &out)
		cv.So(r.RunScript(bad), cv.ShouldBeFalse)
		cv.So(out.String(), cv.ShouldEqual, "error: undefined symbol\n(+ a b)\n     ^\n")

		cv.So(r.RunScript(filepath.Join(dir, "missing.crt")), cv.ShouldBeFalse)
	})
}

func Test113ReplDoesNotFollowAScript(t *testing.T) {

	cv.Convey(`a script argument replaces the repl unless -afterscriptrepl is given`, t, func() {
		dir := t.TempDir()
		good := filepath.Join(dir, "good.crt")
		bad := filepath.Join(dir, "bad.crt")
		panicOn(os.WriteFile(good, []byte("(def! a 1)\n"), 0644))
		panicOn(os.WriteFile(bad, []byte("(+ a b)\n"), 0644))

		var out bytes.Buffer
		cfg := testReplConfig()
		r := NewRepl(NewSession(cfg), cfg, &out)

		runRepl, ok := r.RunArgs(nil)
		cv.So(runRepl, cv.ShouldBeTrue)
		cv.So(ok, cv.ShouldBeTrue)

		runRepl, ok = r.RunArgs([]string{good})
		cv.So(runRepl, cv.ShouldBeFalse)
		cv.So(ok, cv.ShouldBeTrue)

		runRepl, ok = r.RunArgs([]string{bad})
		cv.So(runRepl, cv.ShouldBeFalse)
		cv.So(ok, cv.ShouldBeFalse)

		cfg.AfterScriptDontExit = true
		runRepl, ok = r.RunArgs([]string{bad})
		cv.So(runRepl, cv.ShouldBeTrue)
		cv.So(ok, cv.ShouldBeFalse)
	})
}
