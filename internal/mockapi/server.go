package mockapi

import (
	"context"
	_ "embed"
	"encoding/json"
	"fmt"
	"math/rand/v2"
	"net/http"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/five82/storeadmin/internal/catalog"
	"github.com/five82/storeadmin/internal/requestid"
)

//go:embed seed/products.json
var seedProducts []byte

//go:embed seed/users.json
var seedUsers []byte

// Mode selects which routes the mock answers.
type Mode string

const (
	// ModeFull serves every route.
	ModeFull Mode = "full"
	// ModeLists serves only the list routes and categories. Every id route
	// answers 404.
	ModeLists Mode = "lists"
)

// ParseMode maps a config value to a Mode.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case "", ModeFull:
		return ModeFull, nil
	case ModeLists:
		return ModeLists, nil
	default:
		return "", fmt.Errorf("unknown mock route mode %q", s)
	}
}

const (
	// DefaultDelay is the simulated latency of every response.
	DefaultDelay = time.Second
	maxID        = 100000
)

// Server is an in-memory admin backend.
type Server struct {
	mu       sync.Mutex
	products []catalog.Product
	users    []catalog.User

	delay time.Duration
	mode  Mode
	intn  func(n int) int
	mux   *http.ServeMux
}

// Option configures a Server.
type Option func(*Server)

// WithDelay sets the response latency. Zero answers immediately.
func WithDelay(d time.Duration) Option {
	return func(s *Server) {
		if d >= 0 {
			s.delay = d
		}
	}
}

// WithMode sets the route coverage.
func WithMode(m Mode) Option {
	return func(s *Server) {
		if m != "" {
			s.mode = m
		}
	}
}

// WithData replaces the embedded seed records.
func WithData(products []catalog.Product, users []catalog.User) Option {
	return func(s *Server) {
		s.products = slices.Clone(products)
		s.users = slices.Clone(users)
	}
}

// WithIDSource replaces the random id generator. intn must return a value in
// [0, n).
func WithIDSource(intn func(n int) int) Option {
	return func(s *Server) {
		if intn != nil {
			s.intn = intn
		}
	}
}

// New returns a Server seeded with the embedded records.
func New(opts ...Option) (*Server, error) {
	s := &Server{
		delay: DefaultDelay,
		mode:  ModeFull,
		intn:  rand.IntN,
	}
	if err := json.Unmarshal(seedProducts, &s.products); err != nil {
		return nil, fmt.Errorf("decode product seed: %w", err)
	}
	if err := json.Unmarshal(seedUsers, &s.users); err != nil {
		return nil, fmt.Errorf("decode user seed: %w", err)
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mux = s.routes()
	return s, nil
}

func (s *Server) routes() *http.ServeMux {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products", s.listProducts)
	mux.HandleFunc("GET /products/categories", s.listCategories)
	mux.HandleFunc("GET /users", s.listUsers)
	if s.mode == ModeLists {
		mux.HandleFunc("/", http.NotFound)
		return mux
	}
	mux.HandleFunc("GET /products/{id}", s.getProduct)
	mux.HandleFunc("POST /products", s.createProduct)
	mux.HandleFunc("PATCH /products/{id}", s.updateProduct)
	mux.HandleFunc("DELETE /products/{id}", s.deleteProduct)
	mux.HandleFunc("GET /users/{id}", s.getUser)
	mux.HandleFunc("PATCH /users/{id}", s.updateUser)
	mux.HandleFunc("DELETE /users/{id}", s.deleteUser)
	return mux
}

// ServeHTTP waits for the configured delay and dispatches the request. A
// request whose context ends during the delay gets no response.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if err := sleep(r.Context(), s.delay); err != nil {
		return
	}
	if id := r.Header.Get(requestid.Header); id != "" {
		w.Header().Set(requestid.Header, id)
	}
	s.mux.ServeHTTP(w, r)
}

// Products returns a copy of the backend product records.
func (s *Server) Products() []catalog.Product {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.products)
}

// Users returns a copy of the backend user records.
func (s *Server) Users() []catalog.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.users)
}

func (s *Server) listProducts(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Products())
}

func (s *Server) listCategories(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, catalog.Categories(s.Products()))
}

func (s *Server) getProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	idx := slices.IndexFunc(s.products, func(p catalog.Product) bool { return p.ID == id })
	var p catalog.Product
	if idx >= 0 {
		p = s.products[idx]
	}
	s.mu.Unlock()

	if idx < 0 {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) createProduct(w http.ResponseWriter, r *http.Request) {
	var input catalog.ProductInput
	if !decode(w, r, &input) {
		return
	}
	if err := input.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}

	s.mu.Lock()
	p := input.WithID(s.freshIDLocked())
	s.products = append([]catalog.Product{p}, s.products...)
	s.mu.Unlock()

	writeJSON(w, http.StatusCreated, p)
}

func (s *Server) updateProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch catalog.ProductPatch
	if !decode(w, r, &patch) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.products, func(p catalog.Product) bool { return p.ID == id })
	if idx < 0 {
		http.NotFound(w, r)
		return
	}
	updated := patch.Apply(s.products[idx])
	if err := updated.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.products[idx] = updated
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteProduct(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.products, func(p catalog.Product) bool { return p.ID == id })
	if idx < 0 {
		http.NotFound(w, r)
		return
	}
	deleted := s.products[idx]
	s.products = slices.Delete(s.products, idx, idx+1)
	writeJSON(w, http.StatusOK, deleted)
}

func (s *Server) listUsers(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, s.Users())
}

func (s *Server) getUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	s.mu.Lock()
	idx := slices.IndexFunc(s.users, func(u catalog.User) bool { return u.ID == id })
	var u catalog.User
	if idx >= 0 {
		u = s.users[idx]
	}
	s.mu.Unlock()

	if idx < 0 {
		http.NotFound(w, r)
		return
	}
	writeJSON(w, http.StatusOK, u)
}

func (s *Server) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}
	var patch catalog.UserPatch
	if !decode(w, r, &patch) {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.users, func(u catalog.User) bool { return u.ID == id })
	if idx < 0 {
		http.NotFound(w, r)
		return
	}
	updated := patch.Apply(s.users[idx])
	if err := updated.Validate(); err != nil {
		http.Error(w, err.Error(), http.StatusUnprocessableEntity)
		return
	}
	s.users[idx] = updated
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) deleteUser(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := slices.IndexFunc(s.users, func(u catalog.User) bool { return u.ID == id })
	if idx < 0 {
		http.NotFound(w, r)
		return
	}
	deleted := s.users[idx]
	s.users = slices.Delete(s.users, idx, idx+1)
	writeJSON(w, http.StatusOK, deleted)
}

// freshIDLocked draws ids in [0, maxID] until one is unused.
func (s *Server) freshIDLocked() int {
	for {
		id := s.intn(maxID + 1)
		if !slices.ContainsFunc(s.products, func(p catalog.Product) bool { return p.ID == id }) {
			return id
		}
	}
}

func pathID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(strings.TrimSpace(r.PathValue("id")))
	if err != nil {
		http.Error(w, "invalid id", http.StatusBadRequest)
		return 0, false
	}
	return id, true
}

func decode(w http.ResponseWriter, r *http.Request, dest any) bool {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dest); err != nil {
		http.Error(w, "invalid body", http.StatusBadRequest)
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
