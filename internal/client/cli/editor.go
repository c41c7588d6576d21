package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/dmitrijs2005/notekeeper/internal/client/autosave"
	"github.com/dmitrijs2005/notekeeper/internal/client/services"
)

// runEditor is the nested loop for one note. Changes are saved by the
// autosave coordinator behind the editor; close (or end of input) flushes
// whatever is still pending.
//
//	title <text>      — replace the title
//	content           — replace the body (multi-line, empty line to finish)
//	category <name>   — move the note to another category
//	categories        — list the categories
//	show              — print the note
//	save              — save now
//	close | done      — save and return to the main prompt
func (a *App) runEditor(ctx context.Context, ed *services.Editor) error {
	a.printNote(ed)

	for {
		if !a.isLoggedIn() {
			fmt.Fprintln(a.out, "Editor closed, unsaved changes were lost")
			return nil
		}

		printlnFn(fmt.Sprintf("note %s [%s]> ", noteLabel(ed), statusLabel(ed)))
		line, err := a.reader.ReadString('\n')
		if err != nil && (!errors.Is(err, io.EOF) || line == "") {
			return a.closeEditor(ctx, ed)
		}

		cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
		arg = strings.TrimSpace(arg)

		switch cmd {
		case "":
			continue

		case "title":
			ed.SetTitle(arg)

		case "content":
			text, err := GetMultiline(a.reader, "Enter note text", a.out)
			if err != nil {
				fmt.Fprintln(a.out, "Error:", err)
				continue
			}
			ed.SetContent(text)

		case "category":
			if err := ed.SetCategory(arg); err != nil {
				fmt.Fprintln(a.out, "Error:", err)
			}

		case "categories":
			for _, c := range ed.Categories() {
				fmt.Fprintln(a.out, c.Name)
			}

		case "show":
			a.printNote(ed)

		case "save":
			if err := ed.Save(ctx); err != nil {
				fmt.Fprintln(a.out, "Save failed:", describe(err))
			}

		case "close", "done", "exit", "quit":
			return a.closeEditor(ctx, ed)

		default:
			fmt.Fprintln(a.out, "Editor commands: title <text>, content, category <name>, categories, show, save, close")
		}
	}
}

func (a *App) closeEditor(ctx context.Context, ed *services.Editor) error {
	if err := ed.Close(ctx); err != nil {
		fmt.Fprintln(a.out, "Save failed:", describe(err))
		return err
	}
	if id := ed.ID(); id != 0 {
		fmt.Fprintf(a.out, "Saved note %d\n", id)
	}
	return nil
}

func (a *App) printNote(ed *services.Editor) {
	fmt.Fprintf(a.out, "# %s  [%s]\n%s\n", ed.Title(), ed.Category(), ed.Content())
}

func noteLabel(ed *services.Editor) string {
	if id := ed.ID(); id != 0 {
		return fmt.Sprintf("#%d", id)
	}
	return "(new)"
}

func statusLabel(ed *services.Editor) string {
	if ed.Status() == autosave.StatusIdle && ed.Dirty() {
		return "editing"
	}
	return ed.Status().String()
}
