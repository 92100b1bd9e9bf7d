package nes

import (
	"fmt"
	"log"
	"regexp"
	"runtime"
	"time"
)

// runtimeFuncName strips the package-qualified prefix off a runtime function
// name (e.g. "nes.(*NesBus).stepFrame" -> "stepFrame").
var runtimeFuncName = regexp.MustCompile(`^.*\.(.*)$`)

// TimeTrack logs how long the caller took to run, through logger — the same
// *log.Logger CPU.Step writes its instruction trace through, rather than a
// second, disconnected logging path. A nil logger makes this a no-op, same
// as CPU.Step's own nil check. Call it as
// defer TimeTrack(logger, time.Now()) at the top of the function being
// timed.
func TimeTrack(logger *log.Logger, start time.Time) {
	if logger == nil {
		return
	}
	elapsed := time.Since(start)

	// Skip this function, and fetch the PC for its caller.
	pc, _, _, _ := runtime.Caller(1)
	name := runtimeFuncName.ReplaceAllString(runtime.FuncForPC(pc).Name(), "$1")

	logger.Println(fmt.Sprintf("%s took %s", name, elapsed))
}
