package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/pictoboard/internal/bootstrap"
	"github.com/jsamuelsen/pictoboard/internal/domain"
)

type searchResult struct {
	ID       int      `json:"id"`
	Keywords []string `json:"keywords"`
	ImageURL string   `json:"imageUrl"`
}

// NewSearchCommand creates the search command.
func NewSearchCommand(rootOpts *RootOptions) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "search <word>",
		Short: "List every pictogram candidate for a word",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, rootOpts, func(c *bootstrap.Components) error {
				if lang == "" {
					lang = c.Prefs.Language(cmd.Context())
				}

				if !domain.IsSupportedLanguage(lang) {
					return domain.NewValidationErrorWithValue("lang", "unsupported language", lang)
				}

				records, err := c.Resolver.ResolveAll(cmd.Context(), args[0], lang)
				if err != nil {
					return err
				}

				results := make([]searchResult, len(records))
				for i, r := range records {
					results[i] = searchResult{ID: r.ID, Keywords: r.Keywords, ImageURL: c.SymbolClient.ImageURL(r.ID)}
				}

				if rootOpts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), results)
				}

				if len(results) == 0 {
					fmt.Fprintf(cmd.OutOrStdout(), "no pictograms for %q\n", args[0])
					return nil
				}

				for _, r := range results {
					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%s\n", r.ID, r.ImageURL, strings.Join(r.Keywords, ", "))
				}

				return nil
			})
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "symbol language (default: saved preference)")

	return cmd
}
