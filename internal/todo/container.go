// Package todo owns the todo list. The Container is the only writer of the
// "todos" storage key: consumers read Todos() and call Add, Toggle or
// Delete, and every change is saved before the call returns.
package todo

import (
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"github.com/google/uuid"

	"github.com/Makepad-fr/tada/internal/model"
)

// StorageKey is the key the list is persisted under.
const StorageKey = "todos"

// Store is the slice of store.Adapter the Container needs.
type Store interface {
	Load(key string, v any) (bool, error)
	Save(key string, v any) error
}

type Option func(*Container)

func WithLogger(l *slog.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.log = l
		}
	}
}

// WithIDGenerator replaces the default uuid generator.
func WithIDGenerator(gen func() string) Option {
	return func(c *Container) {
		if gen != nil {
			c.newID = gen
		}
	}
}

type Container struct {
	store Store
	log   *slog.Logger
	newID func() string
	todos []model.Todo
	ready bool
}

// New hydrates a Container from s. Missing, unreadable or malformed data
// all start the list empty.
func New(s Store, opts ...Option) *Container {
	if s == nil {
		panic("todo: nil store")
	}
	c := &Container{
		store: s,
		log:   slog.Default(),
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.todos = c.hydrate()
	c.ready = true
	return c
}

// stored mirrors model.Todo with pointers so missing fields are detectable.
type stored struct {
	ID   *string `json:"id"`
	Name *string `json:"name"`
	Done *bool   `json:"done"`
}

func (c *Container) hydrate() []model.Todo {
	var raw []stored
	ok, err := c.store.Load(StorageKey, &raw)
	if err != nil {
		c.log.Warn("load todos", "err", err)
		return []model.Todo{}
	}
	if !ok {
		return []model.Todo{}
	}

	out := make([]model.Todo, 0, len(raw))
	seen := make(map[string]struct{}, len(raw))
	for i, r := range raw {
		if r.ID == nil || *r.ID == "" || r.Name == nil || strings.TrimSpace(*r.Name) == "" || r.Done == nil {
			c.log.Warn("discarding stored todos", "reason", "malformed item", "index", i)
			return []model.Todo{}
		}
		if _, dup := seen[*r.ID]; dup {
			c.log.Warn("discarding stored todos", "reason", "duplicate id", "id", *r.ID)
			return []model.Todo{}
		}
		seen[*r.ID] = struct{}{}
		out = append(out, model.Todo{ID: *r.ID, Name: *r.Name, Done: *r.Done})
	}
	c.log.Debug("hydrated todos", "count", len(out))
	return out
}

func (c *Container) mustBeReady() {
	if c == nil || !c.ready {
		panic(ErrNotInitialized)
	}
}

// Todos returns a copy of the current list in insertion order.
func (c *Container) Todos() []model.Todo {
	c.mustBeReady()
	return slices.Clone(c.todos)
}

// Get returns the todo with id.
func (c *Container) Get(id string) (model.Todo, bool) {
	c.mustBeReady()
	if i := c.index(id); i >= 0 {
		return c.todos[i], true
	}
	return model.Todo{}, false
}

// Add appends a new pending todo. Blank names are ignored.
func (c *Container) Add(rawName string) {
	c.mustBeReady()
	name := strings.TrimSpace(rawName)
	if name == "" {
		return
	}
	id := c.newID()
	if c.index(id) >= 0 {
		panic(fmt.Errorf("%w: %s", ErrDuplicateID, id))
	}
	next := make([]model.Todo, len(c.todos), len(c.todos)+1)
	copy(next, c.todos)
	next = append(next, model.Todo{ID: id, Name: name})
	c.commit(next)
}

// Toggle flips Done on the todo with id. Unknown ids are ignored.
func (c *Container) Toggle(id string) {
	c.mustBeReady()
	i := c.index(id)
	if i < 0 {
		return
	}
	next := slices.Clone(c.todos)
	next[i].Done = !next[i].Done
	c.commit(next)
}

// Delete removes the todo with id. Unknown ids are ignored.
func (c *Container) Delete(id string) {
	c.mustBeReady()
	i := c.index(id)
	if i < 0 {
		return
	}
	next := make([]model.Todo, 0, len(c.todos)-1)
	next = append(next, c.todos[:i]...)
	next = append(next, c.todos[i+1:]...)
	c.commit(next)
}

func (c *Container) index(id string) int {
	return slices.IndexFunc(c.todos, func(t model.Todo) bool { return t.ID == id })
}

// commit swaps in next and then persists it. A failed save leaves memory
// ahead of disk; the next successful commit catches storage up.
func (c *Container) commit(next []model.Todo) {
	c.todos = next
	if err := c.store.Save(StorageKey, next); err != nil {
		c.log.Error("save todos", "err", err, "count", len(next))
	}
}
