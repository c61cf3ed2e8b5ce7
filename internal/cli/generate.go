package cli

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/pictoboard/internal/app/library"
	"github.com/jsamuelsen/pictoboard/internal/bootstrap"
	"github.com/jsamuelsen/pictoboard/internal/domain"
)

type generateOptions struct {
	lang  string
	title string
	save  bool
	out   string
}

// NewGenerateCommand creates the generate command.
func NewGenerateCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &generateOptions{}

	cmd := &cobra.Command{
		Use:   "generate <text...>",
		Short: "Generate a board from text and print its document",
		Long: `Generate a board in a throwaway session and print the board document.

With --save the board is also added to the library. With --out the document
is written to a file instead of stdout.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, rootOpts, func(c *bootstrap.Components) error {
				return runGenerate(cmd, rootOpts, opts, c, strings.Join(args, " "))
			})
		},
	}

	cmd.Flags().StringVar(&opts.lang, "lang", "", "symbol language (default: saved preference)")
	cmd.Flags().StringVar(&opts.title, "title", "", "board title")
	cmd.Flags().BoolVar(&opts.save, "save", false, "add the board to the library")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the document to this file")

	return cmd
}

func runGenerate(cmd *cobra.Command, rootOpts *RootOptions, opts *generateOptions, c *bootstrap.Components, text string) error {
	ctx := cmd.Context()

	lang := opts.lang
	if lang == "" {
		lang = c.Prefs.Language(ctx)
	}

	if !domain.IsSupportedLanguage(lang) {
		return domain.NewValidationErrorWithValue("lang", "unsupported language", lang)
	}

	session := c.Sessions.Create(lang)
	defer func() { _ = c.Sessions.Delete(session.ID()) }()

	res, err := session.Generate(ctx, text)
	if err != nil {
		return err
	}

	state := res.State
	if opts.title != "" {
		if state, err = session.SetTitle(opts.title); err != nil {
			return err
		}
	}

	var (
		doc      []byte
		filename string
	)

	if opts.save {
		export, err := session.Save(ctx)
		if err != nil {
			return err
		}

		doc, filename = export.Data, export.Filename
	} else {
		if doc, err = library.EncodeDocument(state.Board); err != nil {
			return err
		}

		filename = library.ExportFilename(state.Board.Title, state.Board.CapturedAt)
	}

	if res.AllMissing {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: no pictogram found for any word")
	}

	if opts.out == "" {
		_, err = cmd.OutOrStdout().Write(append(doc, '\n'))
		return err
	}

	if err := os.WriteFile(opts.out, doc, 0o600); err != nil {
		return fmt.Errorf("writing board: %w", err)
	}

	if rootOpts.Format == "json" {
		return writeJSON(cmd.OutOrStdout(), map[string]any{
			"file":     opts.out,
			"filename": filename,
			"found":    res.Found,
			"notFound": res.NotFound,
			"saved":    opts.save,
		})
	}

	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d found, %d without pictogram)\n", opts.out, res.Found, res.NotFound)

	return nil
}
