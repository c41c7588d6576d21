package cli

import (
	"context"
	"fmt"
	"strconv"

	"github.com/dmitrijs2005/notekeeper/internal/client/client"
)

// List prints the notes, newest first.
func (a *App) List(ctx context.Context, category string) error {
	notes, err := a.noteService.List(ctx, category)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", describe(err))
		return err
	}

	if len(notes) == 0 {
		if category != "" {
			fmt.Fprintf(a.out, "No notes in %s\n", category)
		} else {
			fmt.Fprintln(a.out, "No notes yet")
		}
		return nil
	}
	for _, n := range notes {
		fmt.Fprintln(a.out, formatNote(n))
	}
	return nil
}

// Summary prints how many notes each category holds.
func (a *App) Summary(ctx context.Context) error {
	s, err := a.noteService.Summary(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", describe(err))
		return err
	}

	fmt.Fprintf(a.out, "Total notes: %d\n", s.TotalNotes)
	for _, c := range s.Categories {
		fmt.Fprintf(a.out, "  %-16s %d\n", c.Name, c.Count)
	}
	return nil
}

func (a *App) Categories(ctx context.Context) error {
	cats, err := a.noteService.Categories(ctx)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", describe(err))
		return err
	}
	for _, c := range cats {
		fmt.Fprintf(a.out, "%s (%s)\n", c.Name, c.ColorHex)
	}
	return nil
}

// New opens the editor on a note that is created by its first change.
func (a *App) New(ctx context.Context) error {
	ed, err := a.noteService.OpenNew(ctx, nil)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", describe(err))
		return err
	}
	return a.runEditor(ctx, ed)
}

func (a *App) Open(ctx context.Context, id string) error {
	noteID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid note id %q\n", id)
		return err
	}

	ed, err := a.noteService.Open(ctx, noteID, nil)
	if err != nil {
		fmt.Fprintln(a.out, "Error:", describe(err))
		return err
	}
	return a.runEditor(ctx, ed)
}

func (a *App) Delete(ctx context.Context, id string) error {
	noteID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		fmt.Fprintf(a.out, "Invalid note id %q\n", id)
		return err
	}

	if err := a.noteService.Delete(ctx, noteID); err != nil {
		fmt.Fprintln(a.out, "Error:", describe(err))
		return err
	}
	fmt.Fprintf(a.out, "Deleted note %d\n", noteID)
	return nil
}

func formatNote(n client.Note) string {
	return fmt.Sprintf("%d\t%s\t%s\t[%s]", n.ID, n.UpdatedAt.Local().Format("Jan 2"), n.Title, n.Category.Name)
}
