package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/pictoboard/internal/bootstrap"
)

type libraryEntry struct {
	Index     int       `json:"index"`
	Title     string    `json:"title"`
	Cards     int       `json:"cards"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewLibraryCommand creates the library command group.
func NewLibraryCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "library",
		Short: "Manage saved boards",
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List saved boards, most recent first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, rootOpts, func(c *bootstrap.Components) error {
				saved := c.Library.List(cmd.Context())

				entries := make([]libraryEntry, len(saved))
				for i, s := range saved {
					entries[i] = libraryEntry{Index: i, Title: s.Title, Cards: len(s.Cards), CreatedAt: s.CapturedAt}
				}

				if rootOpts.Format == "json" {
					return writeJSON(cmd.OutOrStdout(), entries)
				}

				if len(entries) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "library is empty")
					return nil
				}

				for _, e := range entries {
					title := e.Title
					if title == "" {
						title = "(untitled)"
					}

					fmt.Fprintf(cmd.OutOrStdout(), "%d\t%s\t%d cards\t%s\n",
						e.Index, title, e.Cards, e.CreatedAt.Local().Format(time.DateTime))
				}

				return nil
			})
		},
	})

	cmd.AddCommand(&cobra.Command{
		Use:   "clear",
		Short: "Remove every saved board",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, rootOpts, func(c *bootstrap.Components) error {
				if err := c.Library.Clear(cmd.Context()); err != nil {
					return err
				}

				fmt.Fprintln(cmd.ErrOrStderr(), "library cleared")

				return nil
			})
		},
	})

	return cmd
}
