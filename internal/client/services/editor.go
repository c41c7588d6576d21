package services

import (
	"context"
	"fmt"
	"slices"
	"strconv"

	"github.com/dmitrijs2005/notekeeper/internal/client/autosave"
	"github.com/dmitrijs2005/notekeeper/internal/client/client"
)

// Editable note fields, named as the API names them.
const (
	FieldTitle    = "title"
	FieldContent  = "content"
	FieldCategory = "category_name"
)

// Editor is one note editing session.
type Editor struct {
	coord      *autosave.Coordinator
	categories []client.Category
}

// ID returns the note id, or 0 while the note has not been created.
func (e *Editor) ID() int64 {
	id, err := strconv.ParseInt(e.coord.ID(), 10, 64)
	if err != nil {
		return 0
	}
	return id
}

func (e *Editor) Title() string    { return e.coord.Fields()[FieldTitle] }
func (e *Editor) Content() string  { return e.coord.Fields()[FieldContent] }
func (e *Editor) Category() string { return e.coord.Fields()[FieldCategory] }

// Categories returns the categories offered for this note.
func (e *Editor) Categories() []client.Category {
	return e.categories
}

func (e *Editor) Status() autosave.Status {
	return e.coord.Status()
}

// Dirty reports whether there are edits the server has not acknowledged.
func (e *Editor) Dirty() bool {
	return e.coord.Dirty()
}

func (e *Editor) SetTitle(v string) {
	e.coord.Edit(FieldTitle, v)
}

func (e *Editor) SetContent(v string) {
	e.coord.Edit(FieldContent, v)
}

// SetCategory switches the note to a known category.
func (e *Editor) SetCategory(name string) error {
	if len(e.categories) > 0 && !slices.ContainsFunc(e.categories, func(c client.Category) bool { return c.Name == name }) {
		return fmt.Errorf("unknown category %q", name)
	}
	e.coord.Edit(FieldCategory, name)
	return nil
}

// Save saves immediately instead of waiting for the debounce timer.
func (e *Editor) Save(ctx context.Context) error {
	return e.coord.AttemptSave(ctx)
}

// Close saves outstanding edits and ends the session.
func (e *Editor) Close(ctx context.Context) error {
	return e.coord.FlushAndClose(ctx)
}

// noteSaver adapts the notes API to autosave.Saver.
type noteSaver struct {
	client client.Client
}

func (s *noteSaver) Create(ctx context.Context, f autosave.Fields) (autosave.Document, error) {
	in := noteInput(f)
	if in.CategoryName == "" {
		in.CategoryName = client.DefaultCategory
	}
	n, err := s.client.CreateNote(ctx, in)
	if err != nil {
		return autosave.Document{}, err
	}
	return autosave.Document{ID: formatID(n.ID), Fields: noteFields(n)}, nil
}

func (s *noteSaver) Update(ctx context.Context, id string, f autosave.Fields) (autosave.Document, error) {
	noteID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return autosave.Document{}, fmt.Errorf("bad note id %q: %w", id, err)
	}
	n, err := s.client.UpdateNote(ctx, noteID, noteInput(f))
	if err != nil {
		return autosave.Document{}, err
	}
	return autosave.Document{ID: formatID(n.ID), Fields: noteFields(n)}, nil
}

func noteInput(f autosave.Fields) client.NoteInput {
	return client.NoteInput{
		Title:        f[FieldTitle],
		Content:      f[FieldContent],
		CategoryName: f[FieldCategory],
	}
}

func noteFields(n *client.Note) autosave.Fields {
	return autosave.Fields{
		FieldTitle:    n.Title,
		FieldContent:  n.Content,
		FieldCategory: n.Category.Name,
	}
}

func formatID(id int64) string {
	return strconv.FormatInt(id, 10)
}
