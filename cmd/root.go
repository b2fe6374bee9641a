// Package cmd provides the root command and CLI setup for traefik-replace.
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/mouse-blink/traefik-replace/internal/adapter"
	"github.com/mouse-blink/traefik-replace/internal/controller"
	"github.com/mouse-blink/traefik-replace/internal/domain"
	m "github.com/mouse-blink/traefik-replace/internal/model"
)

// Process exit codes.
const (
	exitSuccess       = 0
	exitFailure       = 1
	exitInternalError = 2
)

var fsAdapter adapter.SourceFSAdapter
var ui controller.UI
var workflow domain.Workflow

var (
	recursiveFlag    bool
	mappingsFlag     string
	mappingsFileFlag string
	dryRunFlag       bool
	validateFlag     bool
	extensionFlags   []string
	debugFlag        bool
	logFileFlag      string
)

const rootLongDescription = `traefik-replace scans a directory for Traefik configuration files (.yml and
.toml) and writes a generated sibling for each one that contains shell-style
placeholders. "routers.yml" becomes "routers.g.yml"; the source is never modified.

Placeholders are written as ${NAME} or $NAME. Each name is resolved from the
explicit mappings first and from the environment variable of the same name
otherwise. Blank environment variables count as missing.

The run stops at the first file that cannot be fully resolved. Files generated
before that point are kept; it is not atomic across the tree.`

// rootCmd represents the base command.
var rootCmd = newRootCmd()

func init() {
	// Initialize shared dependencies.
	ui = controller.NewUI(rootCmd, controller.IsTTY(os.Stdout))
	fsAdapter = adapter.NewLocalSourceFSAdapter()
	workflow = domain.NewWorkflow(fsAdapter, ui)
}

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "traefik-replace <path>",
		Short: "Replace shell variables in Traefik config files",
		Long:  rootLongDescription,
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			// Errors past this point are run failures, not usage mistakes.
			cmd.SilenceUsage = true

			configureLogger(cmd.ErrOrStderr(), viper.GetString(logFilenameKey), viper.GetBool(logVerboseKey))

			mappings, err := collectMappings()
			if err != nil {
				return err
			}

			return workflow.Generate(cmd.Context(), domain.GenerateArgs{
				Root:       m.Path(args[0]),
				Recursive:  viper.GetBool(recursiveFlagName),
				Mappings:   mappings,
				Extensions: normalizeExtensions(viper.GetStringSlice(extensionsConfigKey)),
				DryRun:     viper.GetBool(dryRunFlagName),
				Validate:   viper.GetBool(validateFlagName),
			})
		},
	}

	configureRootFlags(cmd)

	return cmd
}

func configureRootFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVarP(&recursiveFlag, recursiveFlagName, "r", viper.GetBool(recursiveFlagName), "perform a recursive search using the provided path")
	bindFlagToConfig(cmd.Flags().Lookup(recursiveFlagName), recursiveFlagName)

	cmd.Flags().StringVarP(&mappingsFlag, mappingsFlagName, "m", viper.GetString(mappingsFlagName), `key-value mappings in the form of "key1=value1;key2=value2"`)
	bindFlagToConfig(cmd.Flags().Lookup(mappingsFlagName), mappingsFlagName)

	cmd.Flags().StringVarP(&mappingsFileFlag, mappingsFileFlagName, "f", viper.GetString(mappingsFileFlagName), "YAML file with a flat mapping of placeholder names to values")
	bindFlagToConfig(cmd.Flags().Lookup(mappingsFileFlagName), mappingsFileFlagName)

	cmd.Flags().BoolVarP(&dryRunFlag, dryRunFlagName, "n", viper.GetBool(dryRunFlagName), "print a diff of the generated files instead of writing them")
	bindFlagToConfig(cmd.Flags().Lookup(dryRunFlagName), dryRunFlagName)

	cmd.Flags().BoolVar(&validateFlag, validateFlagName, viper.GetBool(validateFlagName), "check that generated files still parse as YAML or TOML before writing them")
	bindFlagToConfig(cmd.Flags().Lookup(validateFlagName), validateFlagName)

	cmd.Flags().StringArrayVarP(&extensionFlags, extensionFlagName, "e", viper.GetStringSlice(extensionsConfigKey), "file extension to process (can be repeated)")
	bindFlagToConfig(cmd.Flags().Lookup(extensionFlagName), extensionsConfigKey)

	cmd.PersistentFlags().BoolVar(&debugFlag, debugFlagName, viper.GetBool(logVerboseKey), "enable debug logging")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(debugFlagName), logVerboseKey)

	cmd.PersistentFlags().StringVar(&logFileFlag, logFileFlagName, viper.GetString(logFilenameKey), "also write logs to this rotating log file")
	bindFlagToConfig(cmd.PersistentFlags().Lookup(logFileFlagName), logFilenameKey)
}

// bindFlagToConfig wires a Cobra flag to a Viper key so config/env values feed the flag.
func bindFlagToConfig(flag *pflag.Flag, key string) {
	if flag == nil {
		cobra.CheckErr(fmt.Errorf("flag for config key %q not found", key))
		return
	}

	cobra.CheckErr(viper.BindPFlag(key, flag))
}

// collectMappings gathers explicit mappings from the mappings file and the
// mappings string, in that order. Duplicates are left for the mapping table to reject.
func collectMappings() ([]m.Mapping, error) {
	var mappings []m.Mapping

	if path := strings.TrimSpace(viper.GetString(mappingsFileFlagName)); path != "" {
		data, err := fsAdapter.ReadFile(m.Path(path))
		if err != nil {
			return nil, fmt.Errorf("read mappings file: %w", err)
		}

		fileMappings, err := adapter.ParseMappingsYAML(data)
		if err != nil {
			return nil, fmt.Errorf("parse mappings file %s: %w", path, err)
		}

		mappings = append(mappings, fileMappings...)
	}

	if raw := viper.GetString(mappingsFlagName); raw != "" {
		mappings = append(mappings, adapter.ParseMappingString(raw)...)
	}

	slog.Debug("collected explicit mappings", "count", len(mappings))

	return mappings, nil
}

// normalizeExtensions accepts "yml" as well as ".yml".
func normalizeExtensions(extensions []string) []string {
	normalized := make([]string, 0, len(extensions))

	for _, ext := range extensions {
		ext = strings.TrimSpace(ext)
		if ext == "" {
			continue
		}

		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}

		normalized = append(normalized, ext)
	}

	return normalized
}

// Execute runs the root command and exits with its exit code.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	code := execute(ctx, rootCmd)

	stop()
	os.Exit(code)
}

// execute maps the outcome of cmd to an exit code. Panics become exitInternalError.
func execute(ctx context.Context, cmd *cobra.Command) (code int) {
	defer func() {
		if r := recover(); r != nil {
			slog.Error("internal error", "panic", r)
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "internal error: %v\n", r)
			code = exitInternalError
		}
	}()

	if err := cmd.ExecuteContext(ctx); err != nil {
		return exitFailure
	}

	return exitSuccess
}
