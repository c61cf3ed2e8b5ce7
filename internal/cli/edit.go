package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jsamuelsen/pictoboard/internal/app"
	"github.com/jsamuelsen/pictoboard/internal/bootstrap"
	"github.com/jsamuelsen/pictoboard/internal/domain"
)

const editHelp = `commands:
  gen <text>        replace the board with pictograms for text
  dup <i>           duplicate card i
  del <i>           delete card i
  recolor <i>       paint card i in the board color
  pick <i> <id>     use pictogram id for card i
  search <word>     list candidates for word
  move <order...>   reorder cards, e.g. "move 2 0 1"
  title <text>      rename the board
  cols <n>          set the column count
  color <css>       set the border color of every card
  legends on|off    show or hide the words
  undo, redo        step through history
  save              add the board to the library
  load <i>          open saved board i (0 is the most recent)
  show              print the board
  quit
shortcuts: ^z undo, ^Z or ^y redo, ^s save, ^o load the most recent board`

// NewEditCommand creates the interactive board editor.
func NewEditCommand(rootOpts *RootOptions) *cobra.Command {
	var lang string

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Edit a board interactively",
		Long:  "Open a board session and read editing commands, one per line, from stdin.\n\n" + editHelp,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withComponents(cmd, rootOpts, func(c *bootstrap.Components) error {
				if lang == "" {
					lang = c.Prefs.Language(cmd.Context())
				}

				if !domain.IsSupportedLanguage(lang) {
					return domain.NewValidationErrorWithValue("lang", "unsupported language", lang)
				}

				session := c.Sessions.Create(lang)
				defer func() { _ = c.Sessions.Delete(session.ID()) }()

				e := &editor{cmd: cmd, session: session, out: cmd.OutOrStdout()}

				return e.run(cmd.InOrStdin())
			})
		},
	}

	cmd.Flags().StringVar(&lang, "lang", "", "symbol language (default: saved preference)")

	return cmd
}

var errQuit = errors.New("quit")

type editor struct {
	cmd     *cobra.Command
	session *app.Session
	out     io.Writer
}

// run executes one command per input line until EOF or quit. A failing
// command is reported and the loop goes on.
func (e *editor) run(in io.Reader) error {
	scanner := bufio.NewScanner(in)

	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		err := e.exec(line)
		if errors.Is(err, errQuit) {
			return nil
		}

		if err != nil {
			fmt.Fprintf(e.out, "error: %v\n", err)
		}
	}

	return scanner.Err()
}

func (e *editor) exec(line string) error {
	if key, shift, ok := parseShortcut(line); ok {
		action, err := app.ShortcutAction(key, true, shift)
		if err != nil {
			return err
		}

		return e.shortcut(action)
	}

	name, rest, _ := strings.Cut(line, " ")
	rest = strings.TrimSpace(rest)
	ctx := e.cmd.Context()

	switch name {
	case "quit", "exit":
		return errQuit
	case "help":
		fmt.Fprintln(e.out, editHelp)
		return nil
	case "show":
		e.print(e.session.State())
		return nil
	case "gen":
		res, err := e.session.Generate(ctx, rest)
		if err != nil {
			return err
		}

		e.print(res.State)
		fmt.Fprintf(e.out, "%d found, %d without pictogram\n", res.Found, res.NotFound)

		return nil
	case "dup":
		return e.withInt("index", rest, e.session.Duplicate)
	case "del":
		return e.withInt("index", rest, e.session.Delete)
	case "recolor":
		return e.withInt("index", rest, e.session.RecolorCard)
	case "pick":
		fields := strings.Fields(rest)
		if len(fields) != 2 {
			return domain.NewValidationError("pick", "usage: pick <card> <pictogram id>")
		}

		i, err := strconv.Atoi(fields[0])
		if err != nil {
			return domain.NewValidationErrorWithValue("index", "must be an integer", fields[0])
		}

		id, err := strconv.Atoi(fields[1])
		if err != nil {
			return domain.NewValidationErrorWithValue("id", "must be an integer", fields[1])
		}

		return e.show(e.session.ReplaceSymbol(i, domain.SymbolRecord{ID: id}))
	case "search":
		records, err := e.session.Search(ctx, rest)
		if err != nil {
			return err
		}

		for _, r := range records {
			fmt.Fprintf(e.out, "%d\t%s\n", r.ID, strings.Join(r.Keywords, ", "))
		}

		return nil
	case "move":
		fields := strings.Fields(rest)
		order := make([]int, len(fields))

		for k, f := range fields {
			n, err := strconv.Atoi(f)
			if err != nil {
				return domain.NewValidationErrorWithValue("order", "must be integers", f)
			}

			order[k] = n
		}

		return e.show(e.session.Reorder(order))
	case "title":
		return e.show(e.session.SetTitle(rest))
	case "cols":
		return e.withInt("columns", rest, e.session.SetColumns)
	case "color":
		return e.show(e.session.SetBorderColor(rest))
	case "legends":
		switch rest {
		case "on":
			return e.show(e.session.SetLegends(true))
		case "off":
			return e.show(e.session.SetLegends(false))
		default:
			return domain.NewValidationErrorWithValue("legends", "must be on or off", rest)
		}
	case "undo":
		return e.shortcut(app.ShortcutUndo)
	case "redo":
		return e.shortcut(app.ShortcutRedo)
	case "save":
		return e.shortcut(app.ShortcutSave)
	case "load":
		return e.withInt("index", rest, func(i int) (app.State, error) { return e.session.LoadSaved(ctx, i) })
	default:
		return fmt.Errorf("unknown command %q (try help)", name)
	}
}

func (e *editor) shortcut(action app.Shortcut) error {
	ctx := e.cmd.Context()

	switch action {
	case app.ShortcutUndo:
		state, ok := e.session.Undo()
		if !ok {
			fmt.Fprintln(e.out, "nothing to undo")
			return nil
		}

		e.print(state)
	case app.ShortcutRedo:
		state, ok := e.session.Redo()
		if !ok {
			fmt.Fprintln(e.out, "nothing to redo")
			return nil
		}

		e.print(state)
	case app.ShortcutSave:
		exp, err := e.session.Save(ctx)
		if err != nil {
			return err
		}

		fmt.Fprintf(e.out, "saved %s\n", exp.Filename)
	case app.ShortcutLoad:
		return e.show(e.session.LoadSaved(ctx, 0))
	}

	return nil
}

func (e *editor) withInt(field, arg string, fn func(int) (app.State, error)) error {
	i, err := strconv.Atoi(arg)
	if err != nil {
		return domain.NewValidationErrorWithValue(field, "must be an integer", arg)
	}

	return e.show(fn(i))
}

func (e *editor) show(state app.State, err error) error {
	if err != nil {
		return err
	}

	e.print(state)

	return nil
}

func (e *editor) print(state app.State) {
	b := state.Board

	title := b.Title
	if title == "" {
		title = "(untitled)"
	}

	fmt.Fprintf(e.out, "%s [%d cols, undo %d, redo %d]\n", title, b.Columns, state.UndoDepth, state.RedoDepth)

	for i, card := range b.Cards {
		symbol := "-"
		if card.Symbol != nil {
			symbol = card.Symbol.Ref()
		}

		fmt.Fprintf(e.out, "  %d\t%s\t%s\t%s\n", i, card.Word, symbol, card.BorderColor)
	}
}

// parseShortcut reads "^z" style input. An upper-case key means shift.
func parseShortcut(line string) (key string, shift, ok bool) {
	k, found := strings.CutPrefix(line, "^")
	if !found || len(k) != 1 {
		return "", false, false
	}

	return strings.ToLower(k), k != strings.ToLower(k), true
}
