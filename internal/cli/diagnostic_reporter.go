package cli

import (
	stderrors "errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"

	"github.com/toyz/accessorgen/internal/errors"
	"github.com/toyz/accessorgen/internal/utils"
)

// DiagnosticReporter provides user-friendly error reporting and diagnostics
type DiagnosticReporter struct {
	verbose     bool
	out         io.Writer
	diagnostics *utils.DiagnosticSystem
}

// NewDiagnosticReporter creates a new diagnostic reporter writing errors to
// stderr. Error context and causes are shown from the verbose level up.
func NewDiagnosticReporter(diagnostics *utils.DiagnosticSystem) *DiagnosticReporter {
	if diagnostics == nil {
		diagnostics = utils.NewQuietDiagnostics()
	}
	return &DiagnosticReporter{
		verbose:     diagnostics.Level() >= utils.DiagnosticVerbose,
		out:         os.Stderr,
		diagnostics: diagnostics,
	}
}

// SetOutput redirects error reports
func (r *DiagnosticReporter) SetOutput(out io.Writer) {
	r.out = out
}

var (
	reportTitleColor = color.New(color.FgRed, color.Bold)
	reportKeyColor   = color.New(color.FgHiBlack)
)

// ReportError prints err with its location, context and suggestions. A
// *errors.MultipleErrors is reported entry by entry.
func (r *DiagnosticReporter) ReportError(err error) {
	if err == nil {
		return
	}

	var multi *errors.MultipleErrors
	if stderrors.As(err, &multi) && multi.Count() > 0 {
		reportTitleColor.Fprintf(r.out, "\nERROR: Code generation failed (%d errors)\n", multi.Count())
		fmt.Fprintf(r.out, "%s\n", strings.Repeat("=", 40))
		for i, genErr := range multi.Errors {
			fmt.Fprintf(r.out, "\n%d. ", i+1)
			r.reportGeneratorError(genErr)
		}
		fmt.Fprintln(r.out)
		return
	}

	reportTitleColor.Fprintf(r.out, "\nERROR: Code generation failed\n")
	fmt.Fprintf(r.out, "%s\n\n", strings.Repeat("=", 29))

	var genErr errors.GeneratorError
	if stderrors.As(err, &genErr) {
		r.reportGeneratorError(genErr)
	} else {
		fmt.Fprintf(r.out, "Message: %s\n", err.Error())
	}
	fmt.Fprintln(r.out)
}

// reportGeneratorError reports one error with full context and suggestions
func (r *DiagnosticReporter) reportGeneratorError(genErr errors.GeneratorError) {
	fmt.Fprintf(r.out, "[%s] %s\n", genErr.ErrorCode(), headline(genErr))

	if loc := genErr.Location(); !loc.IsEmpty() {
		fmt.Fprintf(r.out, "   %s %s\n", reportKeyColor.Sprint("Location:"), loc)
	}

	if r.verbose {
		for cause := genErr.Unwrap(); cause != nil; cause = stderrors.Unwrap(cause) {
			fmt.Fprintf(r.out, "   %s %v\n", reportKeyColor.Sprint("Caused by:"), cause)
		}
	}

	if context := genErr.Context(); len(context) > 0 {
		keys := make([]string, 0, len(context))
		for key := range context {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		for _, key := range keys {
			fmt.Fprintf(r.out, "   %s %v\n", reportKeyColor.Sprint(formatContextKey(key)+":"), context[key])
		}
	}

	if suggestions := genErr.Suggestions(); len(suggestions) > 0 {
		fmt.Fprintf(r.out, "   Suggestions:\n")
		for i, suggestion := range suggestions {
			fmt.Fprintf(r.out, "      %d. %s\n", i+1, suggestion)
		}
	}
}

// headline is the error message without location, the cause only when it
// adds detail
func headline(genErr errors.GeneratorError) string {
	var base *errors.BaseError
	switch e := genErr.(type) {
	case *errors.BaseError:
		base = e
	case *errors.GenerationError:
		base = e.BaseError
	default:
		return genErr.Error()
	}
	if base.Cause == nil {
		return base.Message
	}
	return fmt.Sprintf("%s: %v", base.Message, base.Cause)
}

// formatContextKey converts snake_case keys to Title Case
func formatContextKey(key string) string {
	parts := strings.Split(key, "_")
	for i, part := range parts {
		if len(part) > 0 {
			parts[i] = strings.ToUpper(part[:1]) + part[1:]
		}
	}
	return strings.Join(parts, " ")
}

// ReportSummary prints the outcome of a generation run
func (r *DiagnosticReporter) ReportSummary(summary GenerationSummary) {
	if len(summary.GeneratedFiles) > 0 {
		r.diagnostics.Section("Generated files")
		r.diagnostics.Indent()
		for _, file := range summary.GeneratedFiles {
			r.diagnostics.List("%s", file)
		}
		r.diagnostics.Unindent()
	}
	if len(summary.RemovedFiles) > 0 {
		r.diagnostics.Section("Removed stale files")
		r.diagnostics.Indent()
		for _, file := range summary.RemovedFiles {
			r.diagnostics.List("%s", file)
		}
		r.diagnostics.Unindent()
	}

	r.diagnostics.Summary("Generation summary", map[string]interface{}{
		"Run":       summary.RunID,
		"Packages":  summary.PackagesProcessed,
		"Classes":   summary.ClassesScanned,
		"Generated": summary.ClassesGenerated,
		"Skipped":   summary.ClassesSkipped,
		"Failed":    summary.ClassesFailed,
		"Duration":  summary.Duration.Round(time.Millisecond),
	})
}

// ReportClean prints the outcome of a clean
func (r *DiagnosticReporter) ReportClean(summary CleanSummary) {
	if len(summary.RemovedFiles) == 0 && len(summary.RemovedEntries) == 0 {
		r.diagnostics.Info("Nothing to clean")
		return
	}
	for _, file := range summary.RemovedFiles {
		r.diagnostics.Progress("removed %s", file)
	}
	for _, name := range summary.RemovedEntries {
		r.diagnostics.Progress("unpublished %s", name)
	}
	r.diagnostics.Success("Removed %d files and %d class map entries", len(summary.RemovedFiles), len(summary.RemovedEntries))
}
