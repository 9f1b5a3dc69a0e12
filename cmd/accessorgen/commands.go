package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/toyz/accessorgen/internal/cli"
	"github.com/toyz/accessorgen/internal/errors"
	"github.com/toyz/accessorgen/internal/utils"
)

const (
	configFlag       = "config"
	generatedDirFlag = "generated-dir"
	moduleFlag       = "module"
	workersFlag      = "workers"
	runtimeFlag      = "runtime-import"
	verboseFlag      = "verbose"
	quietFlag        = "quiet"
)

// New builds the accessorgen command tree
func New() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "accessorgen [sub-command]",
		Short: "Generate typed accessor methods from struct field annotations",
		Long: `accessorgen reads @var, @Get, @Set, @Add, @Remove and @Contains
annotations in struct field comments and writes accessor methods that check
argument types at run time.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		DisableAutoGenTag: true,
		SilenceUsage:      true,
		SilenceErrors:     true,
	}

	flags := cmd.PersistentFlags()
	flags.String(configFlag, "", fmt.Sprintf("config file (defaults to %s when present)", cli.DefaultConfigFile))
	flags.String(generatedDirFlag, "", fmt.Sprintf("directory receiving the class map (default %s)", cli.DefaultGeneratedFilesDirectory))
	flags.String(moduleFlag, "", "module path used for logical class names (defaults to go.mod)")
	flags.Int(workersFlag, 0, "number of classes generated in parallel (default GOMAXPROCS)")
	flags.String(runtimeFlag, "", "import path of the accessor runtime used by generated files")
	flags.Bool(verboseFlag, false, "enable verbose output and detailed error reporting")
	flags.Bool(quietFlag, false, "only show errors")
	cmd.MarkFlagsMutuallyExclusive(verboseFlag, quietFlag)

	cmd.AddCommand(newGenerateCommand())
	cmd.AddCommand(newCleanCommand())
	cmd.AddCommand(newClassMapCommand())
	return cmd
}

// Exit statuses beyond the generic failure status 1
const (
	exitInvalidConfig = 2
	exitClassesFailed = 3
)

// exitCode maps the error returned by a command to the process exit status
func exitCode(err error) int {
	switch {
	case err == nil:
		return 0
	case errors.HasCode(err, errors.ConfigurationErrorCode):
		return exitInvalidConfig
	case errors.IsGenerationFailure(err):
		return exitClassesFailed
	default:
		return 1
	}
}

// reportedError marks an error already printed by the diagnostic reporter
type reportedError struct {
	error
}

func (e reportedError) Unwrap() error {
	return e.error
}

// report prints err through reporter and marks it as reported
func report(reporter *cli.DiagnosticReporter, err error) error {
	reporter.ReportError(err)
	return reportedError{err}
}

func newGenerateCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "generate [directories...]",
		Short: "Generate accessors for annotated structs",
		Example: `  accessorgen generate ./...
  accessorgen generate ./internal/models --module example.com/app
  accessorgen generate --workers 8 --verbose ./...`,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := configFromCommand(cmd, args)
			if err != nil {
				return err
			}
			diagnostics := newDiagnostics(cmd, config)
			reporter := cli.NewDiagnosticReporter(diagnostics)
			reporter.SetOutput(cmd.ErrOrStderr())

			diagnostics.Header("generating accessors")
			summary, err := cli.NewGenerator(diagnostics).Run(cmd.Context(), config)
			reporter.ReportSummary(summary)
			if err != nil {
				return report(reporter, err)
			}
			diagnostics.Success("Generated %d classes", summary.ClassesGenerated)
			return nil
		},
	}
}

func newCleanCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clean [directories...]",
		Short: "Remove generated accessor files and their class map entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := configFromCommand(cmd, args)
			if err != nil {
				return err
			}
			diagnostics := newDiagnostics(cmd, config)
			reporter := cli.NewDiagnosticReporter(diagnostics)
			reporter.SetOutput(cmd.ErrOrStderr())

			diagnostics.Header("cleaning generated files")
			summary, err := cli.NewCleaner(diagnostics).CleanGeneratedFiles(config)
			if err != nil {
				return report(reporter, err)
			}
			reporter.ReportClean(summary)
			return nil
		},
	}
}

func newClassMapCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "classmap",
		Short: "Show the published class map",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			config, err := configFromCommand(cmd, nil)
			if err != nil {
				return err
			}
			entries, err := cli.LoadClassMap(config)
			if err != nil {
				return err
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), cli.RenderClassMap(entries))
			return err
		},
	}
}

// configFromCommand loads the config file and applies the flags set on cmd
// on top of it. Directory arguments replace the configured directories.
func configFromCommand(cmd *cobra.Command, args []string) (cli.Config, error) {
	flags := cmd.Flags()

	configPath, _ := flags.GetString(configFlag)
	config, err := cli.LoadConfig(configPath)
	if err != nil {
		return cli.Config{}, err
	}

	if len(args) > 0 {
		config.Directories = args
	}
	if flags.Changed(generatedDirFlag) {
		config.GeneratedFilesDirectory, _ = flags.GetString(generatedDirFlag)
	}
	if flags.Changed(moduleFlag) {
		config.ModuleName, _ = flags.GetString(moduleFlag)
	}
	if flags.Changed(workersFlag) {
		config.Workers, _ = flags.GetInt(workersFlag)
	}
	if flags.Changed(runtimeFlag) {
		config.RuntimeImport, _ = flags.GetString(runtimeFlag)
	}
	config.Verbose, _ = flags.GetBool(verboseFlag)
	config.Quiet, _ = flags.GetBool(quietFlag)
	return config, nil
}

func newDiagnostics(cmd *cobra.Command, config cli.Config) *utils.DiagnosticSystem {
	diagnostics := utils.NewDiagnosticSystem(config.DiagnosticLevel())
	diagnostics.SetOutput(cmd.OutOrStdout(), cmd.ErrOrStderr())
	return diagnostics
}
