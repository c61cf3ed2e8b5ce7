// Package cli implements the pictoctl command: board generation, symbol
// search, library and preference management against local storage.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"slices"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/pictoboard/internal/bootstrap"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	Verbose bool
	Format  string // "json" | "text"
	Profile string
}

// ValidFormats defines the allowed output formats.
var ValidFormats = []string{"text", "json"}

// NewRootCommand creates the root command for pictoctl.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "pictoctl",
		Short: "Pictogram boards from the command line",
		Long:  "Generate pictogram boards, search symbols and manage the saved-board library.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if !slices.Contains(ValidFormats, opts.Format) {
				return fmt.Errorf("invalid format %q: must be one of %v", opts.Format, ValidFormats)
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolVarP(&opts.Verbose, "verbose", "v", false, "log to stderr at debug level")
	cmd.PersistentFlags().StringVar(&opts.Format, "format", "text", "output format (json|text)")
	cmd.PersistentFlags().StringVar(&opts.Profile, "profile", bootstrap.Profile(), "configuration profile")

	cmd.AddCommand(NewGenerateCommand(opts))
	cmd.AddCommand(NewSearchCommand(opts))
	cmd.AddCommand(NewEditCommand(opts))
	cmd.AddCommand(NewLibraryCommand(opts))
	cmd.AddCommand(NewPrefsCommand(opts))

	return cmd
}

// open loads configuration and wires the components for one command run.
// Logs go to stderr so they never mix with command output.
func open(cmd *cobra.Command, opts *RootOptions) (*bootstrap.Components, error) {
	cfg, err := bootstrap.LoadConfig(opts.Profile)
	if err != nil {
		return nil, err
	}

	cfg.Log.Format = "text"
	cfg.Log.File.Enabled = false

	if opts.Verbose {
		cfg.Log.Level = "debug"
	} else {
		cfg.Log.Level = "warn"
	}

	logger := bootstrap.NewLogger(cfg, cmd.ErrOrStderr())

	return bootstrap.New(cmd.Context(), cfg, logger)
}

// withComponents runs fn with freshly wired components and closes them after.
func withComponents(cmd *cobra.Command, opts *RootOptions, fn func(*bootstrap.Components) error) (err error) {
	c, err := open(cmd, opts)
	if err != nil {
		return err
	}

	defer func() {
		if closeErr := c.Close(); err == nil {
			err = closeErr
		}
	}()

	return fn(c)
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")

	return enc.Encode(v)
}
