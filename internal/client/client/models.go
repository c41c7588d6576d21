package client

import "time"

// Placeholder content the server uses for a note nobody has written yet.
const (
	DefaultTitle    = "Note Title"
	DefaultContent  = "Pour your heart out..."
	DefaultCategory = "Random Thoughts"
)

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
}

type Tokens struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// UI is the server's hint about what to show after login.
type UI struct {
	HasNotes        bool   `json:"has_notes"`
	DefaultCategory string `json:"default_category"`
	LandingRoute    string `json:"landing_route"`
}

type AuthResponse struct {
	User   User   `json:"user"`
	Tokens Tokens `json:"tokens"`
	UI     UI     `json:"ui"`
}

type Bootstrap struct {
	User User `json:"user"`
	UI   UI   `json:"ui"`
}

type Category struct {
	ID       int64  `json:"id,omitempty"`
	Name     string `json:"name"`
	ColorHex string `json:"color_hex"`
}

type CategoryCount struct {
	Name     string `json:"name"`
	ColorHex string `json:"color_hex"`
	Count    int    `json:"count"`
}

type Summary struct {
	HasNotes        bool            `json:"has_notes"`
	TotalNotes      int             `json:"total_notes"`
	DefaultCategory string          `json:"default_category"`
	Categories      []CategoryCount `json:"categories"`
}

type Note struct {
	ID        int64     `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Category  Category  `json:"category"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// IsPlaceholder reports whether the note still holds the default title and
// content.
func (n Note) IsPlaceholder() bool {
	return n.Title == DefaultTitle && n.Content == DefaultContent
}

// NoteInput is the writable part of a note.
type NoteInput struct {
	Title        string `json:"title"`
	Content      string `json:"content"`
	CategoryName string `json:"category_name,omitempty"`
}

type credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}
