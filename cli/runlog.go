package main

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// logDir returns OGGDL_LOG_DIR or ".logs" under the current dir.
func logDir() string {
	if d := os.Getenv("OGGDL_LOG_DIR"); d != "" {
		return d
	}
	return ".logs"
}

// createRunDir creates a per-run directory under the log dir
// (.logs/run_<timestamp>_<nanos>/) and returns it with the path of its
// download log file. Nanosecond suffix avoids collision when multiple
// runs start in the same second.
func createRunDir() (runDir, logPath string, err error) {
	base := logDir()
	if err := os.MkdirAll(base, 0755); err != nil {
		return "", "", fmt.Errorf("create log base dir: %w", err)
	}
	now := time.Now()
	ts := strings.ReplaceAll(now.Format(time.RFC3339), ":", "-")
	runDir = filepath.Join(base, "run_"+ts+"_"+strconv.FormatInt(now.UnixNano(), 10))
	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", "", fmt.Errorf("create run dir: %w", err)
	}
	logPath = filepath.Join(runDir, "download.log")
	return runDir, logPath, nil
}

// setUpRunLog routes the standard logger into the run's log file so
// stdout stays clean for pipelines and stderr for user-facing messages.
// The returned restore func closes the file and puts the logger back.
func setUpRunLog() (logPath, runDir string, restore func(), err error) {
	runDir, logPath, err = createRunDir()
	if err != nil {
		return "", "", nil, err
	}

	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return "", "", nil, fmt.Errorf("open run log: %w", err)
	}

	restoreLogger := redirectLog(file)
	restore = func() {
		restoreLogger()
		file.Close()
	}
	return logPath, runDir, restore, nil
}

// redirectLog redirects the standard log output to w and returns a
// restore func.
func redirectLog(w io.Writer) (restore func()) {
	oldFlags := log.Flags()
	oldPrefix := log.Prefix()
	oldOut := log.Writer()
	log.SetOutput(w)
	log.SetFlags(log.LstdFlags)
	log.SetPrefix("")
	return func() {
		log.SetOutput(oldOut)
		log.SetFlags(oldFlags)
		log.SetPrefix(oldPrefix)
	}
}
