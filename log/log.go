package log

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"

	sentrypkg "github.com/kastheco/hisect/internal/sentry"
)

var (
	WarningLog = log.New(io.Discard, "WARNING:", log.Ldate|log.Ltime|log.Lshortfile)
	InfoLog    = log.New(io.Discard, "INFO:", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLog   = log.New(io.Discard, "ERROR:", log.Ldate|log.Ltime|log.Lshortfile)
)

var logFileName = filepath.Join(os.TempDir(), "hisect.log")

var globalLogFile *os.File

// Initialize should be called once at the beginning of the program to set up logging.
// When telemetry is enabled, warnings become sentry breadcrumbs and errors become
// sentry events in addition to being written to the log file.
func Initialize(telemetry bool) {
	f, err := os.OpenFile(logFileName, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0666)
	if err != nil {
		panic(fmt.Sprintf("could not open log file: %s", err))
	}

	var warn, info, errw io.Writer = f, f, f
	if telemetry {
		warn = sentrypkg.NewWriter(f, sentrypkg.LevelWarning)
		info = sentrypkg.NewWriter(f, sentrypkg.LevelInfo)
		errw = sentrypkg.NewWriter(f, sentrypkg.LevelError)
	}

	WarningLog = log.New(warn, "WARNING:", log.Ldate|log.Ltime|log.Lshortfile)
	InfoLog = log.New(info, "INFO:", log.Ldate|log.Ltime|log.Lshortfile)
	ErrorLog = log.New(errw, "ERROR:", log.Ldate|log.Ltime|log.Lshortfile)

	globalLogFile = f
}

// Close flushes and closes the log file. Safe to call when Initialize was never called.
func Close() {
	if globalLogFile == nil {
		return
	}
	_ = globalLogFile.Close()
	globalLogFile = nil
	// TODO: rotate the log file once it grows past a few megabytes.
	fmt.Fprintln(os.Stderr, "wrote logs to "+logFileName)
}

// FileName returns the path of the log file.
func FileName() string {
	return logFileName
}
