package services

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/notekeeper/internal/client/autosave"
	"github.com/dmitrijs2005/notekeeper/internal/client/client"
	"github.com/dmitrijs2005/notekeeper/internal/logging"
)

// NoteService lists, inspects and deletes notes, and opens editing sessions
// backed by an autosave coordinator.
type NoteService interface {
	// List returns the notes in category (all when empty), hiding notes
	// nobody has written into yet.
	List(ctx context.Context, category string) ([]client.Note, error)
	Summary(ctx context.Context) (*client.Summary, error)
	Categories(ctx context.Context) ([]client.Category, error)
	Delete(ctx context.Context, id int64) error
	// OpenNew starts a session for a note that does not exist yet. It is
	// created on the first save that changes something.
	OpenNew(ctx context.Context, onStatus func(autosave.Status)) (*Editor, error)
	Open(ctx context.Context, id int64, onStatus func(autosave.Status)) (*Editor, error)
}

type noteService struct {
	client client.Client
	logger logging.Logger
	opts   []autosave.Option
}

// NewNoteService constructs a NoteService. opts are applied to every
// coordinator the service creates.
func NewNoteService(c client.Client, logger logging.Logger, opts ...autosave.Option) NoteService {
	if logger == nil {
		logger = logging.Nop()
	}
	return &noteService{client: c, logger: logger, opts: opts}
}

func (s *noteService) List(ctx context.Context, category string) ([]client.Note, error) {
	notes, err := s.client.ListNotes(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("list notes: %w", err)
	}
	out := make([]client.Note, 0, len(notes))
	for _, n := range notes {
		if n.IsPlaceholder() {
			continue
		}
		out = append(out, n)
	}
	return out, nil
}

func (s *noteService) Summary(ctx context.Context) (*client.Summary, error) {
	return s.client.Summary(ctx)
}

func (s *noteService) Categories(ctx context.Context) ([]client.Category, error) {
	return s.client.Categories(ctx)
}

func (s *noteService) Delete(ctx context.Context, id int64) error {
	if err := s.client.DeleteNote(ctx, id); err != nil {
		return fmt.Errorf("delete note %d: %w", id, err)
	}
	return nil
}

func (s *noteService) OpenNew(ctx context.Context, onStatus func(autosave.Status)) (*Editor, error) {
	cats, err := s.client.Categories(ctx)
	if err != nil {
		// the picker still works with the default category
		s.logger.Warn(ctx, "categories unavailable", "error", err)
	}

	category := client.DefaultCategory
	if len(cats) > 0 {
		category = cats[0].Name
	}
	baseline := autosave.Fields{
		FieldTitle:    client.DefaultTitle,
		FieldContent:  client.DefaultContent,
		FieldCategory: category,
	}
	return s.editor(ctx, autosave.Unsaved, baseline, cats, onStatus), nil
}

func (s *noteService) Open(ctx context.Context, id int64, onStatus func(autosave.Status)) (*Editor, error) {
	n, err := s.client.GetNote(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("open note %d: %w", id, err)
	}
	cats, err := s.client.Categories(ctx)
	if err != nil {
		s.logger.Warn(ctx, "categories unavailable", "error", err)
	}
	return s.editor(ctx, formatID(n.ID), noteFields(n), cats, onStatus), nil
}

func (s *noteService) editor(ctx context.Context, id string, baseline autosave.Fields, cats []client.Category, onStatus func(autosave.Status)) *Editor {
	opts := append([]autosave.Option{
		autosave.WithLogger(s.logger.With("component", "autosave")),
		autosave.WithContext(ctx),
		autosave.WithDocumentID(id),
	}, s.opts...)
	if onStatus != nil {
		opts = append(opts, autosave.WithStatusFunc(onStatus))
	}

	coord := autosave.New(&noteSaver{client: s.client}, opts...)
	coord.Initialize(baseline)
	return &Editor{coord: coord, categories: cats}
}
