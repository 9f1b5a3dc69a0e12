package utils

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"
)

// DiagnosticLevel represents the level of diagnostic output
type DiagnosticLevel int

const (
	DiagnosticSilent DiagnosticLevel = iota
	DiagnosticError
	DiagnosticWarn
	DiagnosticInfo
	DiagnosticVerbose
	DiagnosticDebug
)

// DiagnosticSystem provides structured, user-friendly output. It is safe
// for use by concurrent generation workers.
type DiagnosticSystem struct {
	mu       sync.Mutex
	level    DiagnosticLevel
	showTime bool
	output   io.Writer
	errorOut io.Writer
	indent   int
}

// NewDiagnosticSystem creates a new diagnostic system
func NewDiagnosticSystem(level DiagnosticLevel) *DiagnosticSystem {
	configureColors()
	return &DiagnosticSystem{
		level:    level,
		showTime: level >= DiagnosticVerbose,
		output:   os.Stdout,
		errorOut: os.Stderr,
	}
}

// NewQuietDiagnostics creates a diagnostic system that only shows errors
func NewQuietDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticError)
}

// NewVerboseDiagnostics creates a diagnostic system with full output
func NewVerboseDiagnostics() *DiagnosticSystem {
	return NewDiagnosticSystem(DiagnosticVerbose)
}

// SetOutput redirects regular and error output
func (d *DiagnosticSystem) SetOutput(output, errorOut io.Writer) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.output = output
	d.errorOut = errorOut
}

// Level returns the configured level
func (d *DiagnosticSystem) Level() DiagnosticLevel {
	return d.level
}

var (
	errorColor   = color.New(color.FgRed)
	warnColor    = color.New(color.FgYellow)
	infoColor    = color.New(color.FgBlue)
	successColor = color.New(color.FgGreen)
	verboseColor = color.New(color.FgHiBlack)
	debugColor   = color.New(color.FgMagenta)
	headerColor  = color.New(color.FgCyan, color.Bold)
)

// Error goes to the error output unless the system is silent
func (d *DiagnosticSystem) Error(format string, args ...interface{}) {
	d.tagged(DiagnosticError, "ERROR", errorColor, format, args)
}

func (d *DiagnosticSystem) Warn(format string, args ...interface{}) {
	d.tagged(DiagnosticWarn, "WARN", warnColor, format, args)
}

func (d *DiagnosticSystem) Info(format string, args ...interface{}) {
	d.tagged(DiagnosticInfo, "INFO", infoColor, format, args)
}

func (d *DiagnosticSystem) Success(format string, args ...interface{}) {
	d.tagged(DiagnosticInfo, "SUCCESS", successColor, format, args)
}

func (d *DiagnosticSystem) Verbose(format string, args ...interface{}) {
	d.tagged(DiagnosticVerbose, "VERBOSE", verboseColor, format, args)
}

func (d *DiagnosticSystem) Debug(format string, args ...interface{}) {
	d.tagged(DiagnosticDebug, "DEBUG", debugColor, format, args)
}

// Header prints the tool banner
func (d *DiagnosticSystem) Header(format string, args ...interface{}) {
	d.plain(DiagnosticInfo, false, func(string) string {
		return headerColor.Sprintf("accessorgen: %s", fmt.Sprintf(format, args...))
	})
}

// Section starts a titled block preceded by a blank line
func (d *DiagnosticSystem) Section(title string) {
	d.plain(DiagnosticInfo, false, func(string) string {
		return "\n" + infoColor.Sprintf("%s:", title)
	})
}

// List prints an indented bullet
func (d *DiagnosticSystem) List(format string, args ...interface{}) {
	d.plain(DiagnosticInfo, false, func(indent string) string {
		return indent + "- " + fmt.Sprintf(format, args...)
	})
}

// Progress prints a completed step
func (d *DiagnosticSystem) Progress(format string, args ...interface{}) {
	d.plain(DiagnosticInfo, false, func(indent string) string {
		return indent + successColor.Sprint("✓") + " " + fmt.Sprintf(format, args...)
	})
}

// Failure prints a failed step on the error output
func (d *DiagnosticSystem) Failure(format string, args ...interface{}) {
	d.plain(DiagnosticError, true, func(indent string) string {
		return indent + errorColor.Sprint("✗") + " " + fmt.Sprintf(format, args...)
	})
}

func (d *DiagnosticSystem) Indent() {
	d.mu.Lock()
	d.indent++
	d.mu.Unlock()
}

func (d *DiagnosticSystem) Unindent() {
	d.mu.Lock()
	d.indent = max(d.indent-1, 0)
	d.mu.Unlock()
}

// Summary prints title and one line per statistic, keys sorted
func (d *DiagnosticSystem) Summary(title string, stats map[string]interface{}) {
	keys := make([]string, 0, len(stats))
	for key := range stats {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	d.plain(DiagnosticInfo, false, func(string) string {
		var b strings.Builder
		b.WriteString("\n" + headerColor.Sprint(title))
		for _, key := range keys {
			fmt.Fprintf(&b, "\n   %s: %v", key, stats[key])
		}
		return b.String()
	})
}

// tagged prints "[TAG] message" when the level allows it, prefixed by the
// indentation and, when enabled, the time of day
func (d *DiagnosticSystem) tagged(threshold DiagnosticLevel, tag string, c *color.Color, format string, args []interface{}) {
	d.plain(threshold, threshold == DiagnosticError, func(indent string) string {
		stamp := ""
		if d.showTime {
			stamp = time.Now().Format("15:04:05 ")
		}
		return indent + stamp + c.Sprintf("[%s]", tag) + " " + fmt.Sprintf(format, args...)
	})
}

// plain writes the line built by text when the level is at least threshold. text
// receives the current indentation and runs under the lock.
func (d *DiagnosticSystem) plain(threshold DiagnosticLevel, toErr bool, text func(indent string) string) {
	if d.level < threshold {
		return
	}
	d.mu.Lock()
	defer d.mu.Unlock()

	w := d.output
	if toErr {
		w = d.errorOut
	}
	fmt.Fprintln(w, text(strings.Repeat("  ", d.indent)))
}

// configureColors applies NO_COLOR and FORCE_COLOR on top of the terminal
// detection done by the color package
func configureColors() {
	switch {
	case os.Getenv("NO_COLOR") != "":
		color.NoColor = true
	case os.Getenv("FORCE_COLOR") != "":
		color.NoColor = false
	}
}
