package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/pictoboard/internal/bootstrap"
)

// NewPrefsCommand creates the prefs command group.
func NewPrefsCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "prefs",
		Short: "Show or change the search language and theme",
	}

	get := &cobra.Command{
		Use:   "get",
		Short: "Print the current preferences",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, rootOpts, func(c *bootstrap.Components) error {
				return printPrefs(cmd, rootOpts, c)
			})
		},
	}

	setLang := &cobra.Command{
		Use:   "set-lang <lang>",
		Short: "Set the symbol search language",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, rootOpts, func(c *bootstrap.Components) error {
				if err := c.Prefs.SetLanguage(cmd.Context(), args[0]); err != nil {
					return err
				}

				return printPrefs(cmd, rootOpts, c)
			})
		},
	}

	setTheme := &cobra.Command{
		Use:   "set-theme <light|dark>",
		Short: "Set the theme mode",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, rootOpts, func(c *bootstrap.Components) error {
				if err := c.Prefs.SetTheme(cmd.Context(), args[0]); err != nil {
					return err
				}

				return printPrefs(cmd, rootOpts, c)
			})
		},
	}

	cmd.AddCommand(get, setLang, setTheme)

	return cmd
}

func printPrefs(cmd *cobra.Command, rootOpts *RootOptions, c *bootstrap.Components) error {
	values, err := c.Prefs.All(cmd.Context())
	if err != nil {
		return err
	}

	if rootOpts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), values)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "language\t%s\ntheme\t%s\n", values.Language, values.Theme)

	return nil
}
