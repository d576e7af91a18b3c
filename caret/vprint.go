package caret

import (
	"fmt"
	"io"
	"os"
	"path"
	"runtime"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"
)

var logger = commonlog.GetLogger("caret")

// ConfigureLogging sets the verbosity of the caret logger:
// 0 is errors only, 1 adds warnings, 2 notices, 3 info and
// 4 debug. A non-empty path logs to that file instead of
// stderr.
func ConfigureLogging(verbosity int, logfile string) {
	// commonlog counts from -2 (errors) to 2 (debug)
	level := verbosity - 2
	if logfile == "" {
		commonlog.Configure(level, nil)
		return
	}
	commonlog.Configure(level, &logfile)
}

var Verbose bool // set to true to debug

// so we can multi write easily, use our own printf
var OurStdout io.Writer = os.Stdout

func VPrintf(format string, a ...interface{}) {
	if Verbose {
		fmt.Fprintf(OurStdout, "%s ", FileLine(2))
		fmt.Fprintf(OurStdout, format, a...)
	}
}

func FileLine(depth int) string {
	_, fileName, fileLine, ok := runtime.Caller(depth)
	if !ok {
		return ""
	}
	return fmt.Sprintf("%s:%d", path.Base(fileName), fileLine)
}

func panicOn(err error) {
	if err != nil {
		panic(err)
	}
}
