package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sort"

	"golang.org/x/mod/module"
	"sigs.k8s.io/yaml"

	"github.com/toyz/accessorgen/internal/annotations"
	"github.com/toyz/accessorgen/internal/classmap"
	"github.com/toyz/accessorgen/internal/errors"
	"github.com/toyz/accessorgen/internal/utils"
	"github.com/toyz/accessorgen/pkg/accessor"
)

const (
	// DefaultConfigFile is read when no config path is given and it exists
	DefaultConfigFile = "accessorgen.yaml"
	// DefaultGeneratedFilesDirectory holds the class map
	DefaultGeneratedFilesDirectory = ".accessorgen"
	// MaxWorkers bounds the generation worker pool
	MaxWorkers = 256
)

// Config holds the configuration for the CLI generator
type Config struct {
	// Directories to scan; a trailing /... scans recursively
	Directories []string `json:"directories,omitempty"`

	// ModuleName overrides the module path read from go.mod
	ModuleName string `json:"module,omitempty"`

	// GeneratedFilesDirectory receives the class map. It is created if absent.
	GeneratedFilesDirectory string `json:"generatedFilesDirectory,omitempty"`

	// MethodAnnotationsMap maps method tags to operations. A configured map
	// replaces the default one entirely.
	MethodAnnotationsMap map[string]string `json:"methodAnnotationsMap,omitempty"`

	// Workers is the number of classes generated in parallel
	Workers int `json:"workers,omitempty"`

	// RuntimeImport replaces the import path of the accessor runtime package
	// in generated files, for modules that vendor or fork it
	RuntimeImport string `json:"runtimeImport,omitempty"`

	// Verbose enables detailed logging and error reporting
	Verbose bool `json:"-"`

	// Quiet limits output to errors
	Quiet bool `json:"-"`
}

// DefaultConfig returns the configuration used when nothing is configured
func DefaultConfig() Config {
	return Config{
		Directories:             []string{"./..."},
		GeneratedFilesDirectory: DefaultGeneratedFilesDirectory,
		MethodAnnotationsMap:    annotations.DefaultMethodAnnotations(),
		Workers:                 runtime.GOMAXPROCS(0),
	}
}

// LoadConfig reads a YAML config file and fills unset values with defaults.
// An empty path reads DefaultConfigFile when present.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		if _, err := os.Stat(DefaultConfigFile); err != nil {
			return DefaultConfig(), nil
		}
		path = DefaultConfigFile
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, errors.WrapConfigurationError(path, "read", err)
	}

	var cfg Config
	if err := yaml.UnmarshalStrict(data, &cfg); err != nil {
		return Config{}, errors.WrapConfigurationError(path, "parse", err).
			WithSuggestion("supported keys: directories, module, generatedFilesDirectory, methodAnnotationsMap, workers, runtimeImport")
	}
	return cfg.withDefaults(), nil
}

func (c Config) withDefaults() Config {
	defaults := DefaultConfig()
	if len(c.Directories) == 0 {
		c.Directories = defaults.Directories
	}
	if c.GeneratedFilesDirectory == "" {
		c.GeneratedFilesDirectory = defaults.GeneratedFilesDirectory
	}
	if c.MethodAnnotationsMap == nil {
		c.MethodAnnotationsMap = defaults.MethodAnnotationsMap
	}
	if c.Workers == 0 {
		c.Workers = defaults.Workers
	}
	return c
}

// Validate checks the configuration and returns a ConfigurationError for the
// first invalid value
func (c Config) Validate() error {
	operations := make([]string, len(accessor.Operations))
	for i, op := range accessor.Operations {
		operations[i] = op.String()
	}

	checks := []error{
		utils.Check("directories", c.Directories, utils.NonEmpty[[]string]("at least one directory is required")),
		utils.Check("generatedFilesDirectory", c.GeneratedFilesDirectory, utils.Required()),
		utils.Check("workers", c.Workers, utils.Between(1, MaxWorkers)),
		utils.Check("methodAnnotationsMap", len(c.MethodAnnotationsMap),
			utils.Satisfies("must map at least one tag", func(n int) bool { return n > 0 })),
		utils.Check("runtimeImport", c.RuntimeImport,
			utils.Satisfies("must be a valid import path", func(path string) bool {
				return path == "" || module.CheckImportPath(path) == nil
			})),
	}

	tagRules := []utils.Rule[string]{utils.Required(), utils.Pattern(`^[A-Za-z_\\][A-Za-z0-9_\\.]*$`)}
	tags := make([]string, 0, len(c.MethodAnnotationsMap))
	for tag := range c.MethodAnnotationsMap {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	for _, tag := range tags {
		checks = append(checks,
			utils.Check("method annotation tag", tag, tagRules...),
			utils.Check("method annotation operation", c.MethodAnnotationsMap[tag], utils.OneOf(operations...)),
		)
	}

	for _, err := range checks {
		if err != nil {
			return errors.Wrap(errors.ConfigurationErrorCode, "invalid configuration", err)
		}
	}
	return nil
}

// EnsureGeneratedDirectory creates the generated files directory. Failure is
// fatal for the run.
func (c Config) EnsureGeneratedDirectory() error {
	if err := os.MkdirAll(c.GeneratedFilesDirectory, 0o775); err != nil {
		return errors.WrapFileSystemError("create generated files directory", c.GeneratedFilesDirectory, err).
			WithSuggestion(fmt.Sprintf("check that %s can be created or set generatedFilesDirectory", c.GeneratedFilesDirectory))
	}
	return nil
}

// ClassMapPath returns the class map file inside the generated files directory
func (c Config) ClassMapPath() string {
	return filepath.Join(c.GeneratedFilesDirectory, classmap.FileName)
}

// DiagnosticLevel maps the verbosity flags to a diagnostic level
func (c Config) DiagnosticLevel() utils.DiagnosticLevel {
	switch {
	case c.Quiet:
		return utils.DiagnosticError
	case c.Verbose:
		return utils.DiagnosticVerbose
	default:
		return utils.DiagnosticInfo
	}
}
