// Package apitest runs an in-process notes backend for tests. It follows
// the public contract of the real API: JWT access/refresh tokens, per-user
// categories, note CRUD with server-side normalisation and the summary view.
package apitest

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/gorilla/mux"
)

const (
	defaultTitle    = "Note Title"
	defaultContent  = "Pour your heart out..."
	defaultCategory = "Random Thoughts"
)

var defaultCategories = []category{
	{Name: "Random Thoughts", ColorHex: "#EF9C66"},
	{Name: "School", ColorHex: "#FCDC94"},
	{Name: "Personal", ColorHex: "#78ABA8"},
}

var updatableCategories = map[string]bool{"Random Thoughts": true, "School": true, "Personal": true}

type user struct {
	ID         int64
	Email      string
	Password   string
	Categories []category
}

type category struct {
	ID       int64  `json:"id"`
	Name     string `json:"name"`
	ColorHex string `json:"color_hex"`
}

type note struct {
	ID        int64     `json:"id"`
	Category  category  `json:"category"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	owner     int64
}

// Server is a running fake backend. URL is its base address.
type Server struct {
	URL string

	srv    *httptest.Server
	secret []byte

	mu         sync.Mutex
	users      map[string]*user
	notes      map[int64]*note
	nextID     int64
	accessGen  int
	refreshGen int
	hits       map[string]int
	failNext   map[string]int
}

// NewServer starts a backend; call Close when done.
func NewServer() *Server {
	s := &Server{
		secret:   []byte("apitest-secret"),
		users:    map[string]*user{},
		notes:    map[int64]*note{},
		hits:     map[string]int{},
		failNext: map[string]int{},
	}
	s.srv = httptest.NewServer(s.router())
	s.URL = s.srv.URL
	return s
}

func (s *Server) Close() {
	s.srv.Close()
}

// Hits returns how many requests reached the named route, e.g. "PATCH /notes/{id}".
func (s *Server) Hits(route string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits[route]
}

// ExpireAccessTokens invalidates every access token issued so far.
func (s *Server) ExpireAccessTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessGen++
}

// RevokeRefreshTokens invalidates every refresh token issued so far.
func (s *Server) RevokeRefreshTokens() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.refreshGen++
}

// FailNext makes the next n requests to route answer 500.
func (s *Server) FailNext(route string, n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext[route] = n
}

// SeedUser registers a user directly and returns a valid token pair.
func (s *Server) SeedUser(email, password string) (access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u := s.addUserLocked(email, password)
	return s.issueLocked(u.ID, "access"), s.issueLocked(u.ID, "refresh")
}

func (s *Server) router() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.count)

	r.HandleFunc("/auth/register", s.register).Methods(http.MethodPost)
	r.HandleFunc("/auth/login", s.login).Methods(http.MethodPost)
	r.HandleFunc("/auth/refresh", s.refresh).Methods(http.MethodPost)
	r.HandleFunc("/auth/me", s.authed(s.me)).Methods(http.MethodGet)
	r.HandleFunc("/auth/bootstrap", s.authed(s.bootstrap)).Methods(http.MethodGet)
	r.HandleFunc("/categories", s.authed(s.categories)).Methods(http.MethodGet)
	r.HandleFunc("/notes", s.authed(s.listNotes)).Methods(http.MethodGet)
	r.HandleFunc("/notes", s.authed(s.createNote)).Methods(http.MethodPost)
	r.HandleFunc("/notes/summary", s.authed(s.summary)).Methods(http.MethodGet)
	r.HandleFunc("/notes/{id:[0-9]+}", s.authed(s.getNote)).Methods(http.MethodGet)
	r.HandleFunc("/notes/{id:[0-9]+}", s.authed(s.updateNote)).Methods(http.MethodPatch)
	r.HandleFunc("/notes/{id:[0-9]+}", s.authed(s.deleteNote)).Methods(http.MethodDelete)
	return r
}

func (s *Server) count(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route := r.Method + " " + r.URL.Path
		if cr := mux.CurrentRoute(r); cr != nil {
			if tpl, err := cr.GetPathTemplate(); err == nil {
				route = r.Method + " " + strings.Replace(tpl, ":[0-9]+", "", 1)
			}
		}

		s.mu.Lock()
		s.hits[route]++
		fail := s.failNext[route] > 0
		if fail {
			s.failNext[route]--
		}
		s.mu.Unlock()

		if fail {
			http.Error(w, "Server Error", http.StatusInternalServerError)
			return
		}
		next.ServeHTTP(w, r)
	})
}

type userHandler func(w http.ResponseWriter, r *http.Request, u *user)

func (s *Server) authed(h userHandler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok {
			writeJSON(w, http.StatusUnauthorized, detail("Authentication credentials were not provided."))
			return
		}
		u, err := s.verify(raw, "access")
		if err != nil {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type", "code": "token_not_valid"})
			return
		}
		h(w, r, u)
	}
}

func (s *Server) register(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, detail("Malformed request."))
		return
	}
	if !strings.Contains(in.Email, "@") {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"email": {"Enter a valid email address."}})
		return
	}
	if len(in.Password) < 8 {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"password": {"Ensure this field has at least 8 characters."}})
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.users[strings.ToLower(in.Email)]; exists {
		writeJSON(w, http.StatusBadRequest, map[string][]string{"email": {"Email already registered"}})
		return
	}
	u := s.addUserLocked(in.Email, in.Password)
	payload := s.loginPayloadLocked(u)
	payload["ui"].(map[string]any)["has_notes"] = false
	writeJSON(w, http.StatusCreated, payload)
}

func (s *Server) login(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[strings.ToLower(in.Email)]
	if !ok || u.Password != in.Password {
		writeJSON(w, http.StatusUnauthorized, detail("Invalid credentials"))
		return
	}
	writeJSON(w, http.StatusOK, s.loginPayloadLocked(u))
}

func (s *Server) refresh(w http.ResponseWriter, r *http.Request) {
	var in struct {
		Refresh string `json:"refresh"`
	}
	_ = json.NewDecoder(r.Body).Decode(&in)

	u, err := s.verify(in.Refresh, "refresh")
	if err != nil {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"access": s.issueLocked(u.ID, "access")})
}

func (s *Server) me(w http.ResponseWriter, r *http.Request, u *user) {
	writeJSON(w, http.StatusOK, map[string]any{"id": u.ID, "email": u.Email})
}

func (s *Server) bootstrap(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{
		"user": map[string]any{"id": u.ID, "email": u.Email},
		"ui":   s.uiLocked(u),
	})
}

func (s *Server) categories(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	defer s.mu.Unlock()
	writeJSON(w, http.StatusOK, u.Categories)
}

func (s *Server) listNotes(w http.ResponseWriter, r *http.Request, u *user) {
	filter := r.URL.Query().Get("category")

	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]note, 0)
	for _, n := range s.notes {
		if n.owner != u.ID {
			continue
		}
		if filter != "" && n.Category.Name != filter {
			continue
		}
		out = append(out, *n)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].UpdatedAt.Equal(out[j].UpdatedAt) {
			return out[i].ID > out[j].ID
		}
		return out[i].UpdatedAt.After(out[j].UpdatedAt)
	})
	writeJSON(w, http.StatusOK, out)
}

type noteInput struct {
	CategoryName *string `json:"category_name"`
	Title        *string `json:"title"`
	Content      *string `json:"content"`
}

func (s *Server) createNote(w http.ResponseWriter, r *http.Request, u *user) {
	var in noteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, detail("Malformed request."))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	cat, ok := findCategory(u, trimmed(in.CategoryName))
	if !ok {
		cat, _ = findCategory(u, defaultCategory)
	}
	title := trimmed(in.Title)
	if title == "" {
		title = defaultTitle
	}
	content := trimmed(in.Content)
	if content == "" {
		content = defaultContent
	}

	s.nextID++
	now := time.Now().UTC()
	n := &note{ID: s.nextID, Category: cat, Title: title, Content: content, CreatedAt: now, UpdatedAt: now, owner: u.ID}
	s.notes[n.ID] = n
	writeJSON(w, http.StatusCreated, n)
}

func (s *Server) getNote(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.ownedLocked(r, u)
	if !ok {
		writeJSON(w, http.StatusNotFound, detail("Not found."))
		return
	}
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) updateNote(w http.ResponseWriter, r *http.Request, u *user) {
	var in noteInput
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeJSON(w, http.StatusBadRequest, detail("Malformed request."))
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.ownedLocked(r, u)
	if !ok {
		writeJSON(w, http.StatusNotFound, detail("Not found."))
		return
	}

	if in.CategoryName != nil {
		name := trimmed(in.CategoryName)
		if !updatableCategories[name] {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"category_name": {"Invalid category."}})
			return
		}
		cat, found := findCategory(u, name)
		if !found {
			writeJSON(w, http.StatusBadRequest, map[string]string{"category_name": "Invalid category"})
			return
		}
		n.Category = cat
	}
	if in.Title != nil {
		title := trimmed(in.Title)
		if title == "" {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"title": {"This field may not be blank."}})
			return
		}
		n.Title = title
	}
	if in.Content != nil {
		n.Content = trimmed(in.Content)
	}
	n.UpdatedAt = time.Now().UTC()
	writeJSON(w, http.StatusOK, n)
}

func (s *Server) deleteNote(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n, ok := s.ownedLocked(r, u)
	if !ok {
		writeJSON(w, http.StatusNotFound, detail("Not found."))
		return
	}
	delete(s.notes, n.ID)
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request, u *user) {
	s.mu.Lock()
	defer s.mu.Unlock()

	counts := map[string]int{}
	total := 0
	for _, n := range s.notes {
		if n.owner != u.ID || (n.Title == defaultTitle && n.Content == defaultContent) {
			continue
		}
		counts[n.Category.Name]++
		total++
	}
	cats := make([]map[string]any, 0, len(u.Categories))
	for _, c := range u.Categories {
		cats = append(cats, map[string]any{"name": c.Name, "color_hex": c.ColorHex, "count": counts[c.Name]})
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"has_notes":        total > 0,
		"total_notes":      total,
		"default_category": defaultCategory,
		"categories":       cats,
	})
}

func (s *Server) addUserLocked(email, password string) *user {
	s.nextID++
	u := &user{ID: s.nextID, Email: email, Password: password}
	for _, c := range defaultCategories {
		s.nextID++
		c.ID = s.nextID
		u.Categories = append(u.Categories, c)
	}
	s.users[strings.ToLower(email)] = u
	return u
}

func (s *Server) loginPayloadLocked(u *user) map[string]any {
	return map[string]any{
		"user":   map[string]any{"id": u.ID, "email": u.Email},
		"tokens": map[string]string{"access": s.issueLocked(u.ID, "access"), "refresh": s.issueLocked(u.ID, "refresh")},
		"ui":     s.uiLocked(u),
	}
}

func (s *Server) uiLocked(u *user) map[string]any {
	has := false
	for _, n := range s.notes {
		if n.owner == u.ID {
			has = true
			break
		}
	}
	return map[string]any{"has_notes": has, "default_category": defaultCategory, "landing_route": "/notes"}
}

func (s *Server) ownedLocked(r *http.Request, u *user) (*note, bool) {
	id, err := strconv.ParseInt(mux.Vars(r)["id"], 10, 64)
	if err != nil {
		return nil, false
	}
	n, ok := s.notes[id]
	if !ok || n.owner != u.ID {
		return nil, false
	}
	return n, true
}

func (s *Server) issueLocked(userID int64, kind string) string {
	gen := s.accessGen
	ttl := 5 * time.Minute
	if kind == "refresh" {
		gen = s.refreshGen
		ttl = 24 * time.Hour
	}
	claims := jwt.MapClaims{
		"user_id":    userID,
		"token_type": kind,
		"gen":        gen,
		"jti":        uuid.NewString(),
		"exp":        time.Now().Add(ttl).Unix(),
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.secret)
	if err != nil {
		panic(err)
	}
	return signed
}

func (s *Server) verify(raw, kind string) (*user, error) {
	claims := jwt.MapClaims{}
	_, err := jwt.ParseWithClaims(raw, claims, func(t *jwt.Token) (any, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		return nil, err
	}
	if claims["token_type"] != kind {
		return nil, fmt.Errorf("wrong token type")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	want := s.accessGen
	if kind == "refresh" {
		want = s.refreshGen
	}
	if gen, _ := claims["gen"].(float64); int(gen) != want {
		return nil, fmt.Errorf("token revoked")
	}
	id, _ := claims["user_id"].(float64)
	for _, u := range s.users {
		if u.ID == int64(id) {
			return u, nil
		}
	}
	return nil, fmt.Errorf("unknown user")
}

func findCategory(u *user, name string) (category, bool) {
	for _, c := range u.Categories {
		if c.Name == name {
			return c, true
		}
	}
	return category{}, false
}

func trimmed(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}

func detail(msg string) map[string]string {
	return map[string]string{"detail": msg}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
