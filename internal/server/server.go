// Package server exposes the todo list and its raw storage over local HTTP.
// It plays the part of a storage debugger: inspect, mutate, and wipe.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/todo"
)

// Server serializes every request that touches the Container behind one
// mutex; the Container itself does no locking.
type Server struct {
	mu      sync.Mutex
	todos   *todo.Container
	storage *store.Adapter
	log     *slog.Logger
}

// New panics when c or storage is nil.
func New(c *todo.Container, storage *store.Adapter, logger *slog.Logger) *Server {
	if c == nil {
		panic("server: nil todo container")
	}
	if storage == nil {
		panic("server: nil storage adapter")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{todos: c, storage: storage, log: logger}
}

func (s *Server) Handler() http.Handler {
	r := mux.NewRouter()
	r.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("OK\n"))
	}).Methods("GET")
	r.HandleFunc("/todos", s.listTodos).Methods("GET")
	r.HandleFunc("/todos", s.addTodo).Methods("POST")
	r.HandleFunc("/todos/{id}/toggle", s.toggleTodo).Methods("POST")
	r.HandleFunc("/todos/{id}", s.deleteTodo).Methods("DELETE")
	r.HandleFunc("/summary", s.summary).Methods("GET")
	r.HandleFunc("/storage", s.dumpStorage).Methods("GET")
	r.HandleFunc("/storage", s.clearStorage).Methods("DELETE")
	r.Use(s.logRequests)
	return r
}

const shutdownTimeout = 5 * time.Second

// Serve serves Handler on ln until ctx is done, then shuts down and waits
// for in-flight requests. It returns nil after a clean shutdown.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{Handler: s.Handler()}
	errc := make(chan error, 1)
	go func() {
		errc <- srv.Serve(ln)
	}()
	s.log.Info("serving", "addr", ln.Addr().String())

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.log.Info("server stopped")
	return nil
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.log.Debug("request", "method", r.Method, "path", r.URL.Path)
		next.ServeHTTP(w, r)
	})
}

type addRequest struct {
	Name string `json:"name"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) listTodos(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	todos := s.todos.Todos()
	s.mu.Unlock()

	if where := r.URL.Query().Get("where"); where != "" {
		f, err := todo.CompileFilter(where)
		if err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
		if todos, err = f.Apply(todos); err != nil {
			writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
			return
		}
	}
	writeJSON(w, http.StatusOK, todos)
}

func (s *Server) addTodo(w http.ResponseWriter, r *http.Request) {
	var req addRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid json body"})
		return
	}

	s.mu.Lock()
	before := len(s.todos.Todos())
	s.todos.Add(req.Name)
	todos := s.todos.Todos()
	s.mu.Unlock()

	status := http.StatusOK
	if len(todos) > before {
		status = http.StatusCreated
	}
	writeJSON(w, status, todos)
}

func (s *Server) toggleTodo(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, mux.Vars(r)["id"], s.todos.Toggle)
}

func (s *Server) deleteTodo(w http.ResponseWriter, r *http.Request) {
	s.mutate(w, mux.Vars(r)["id"], s.todos.Delete)
}

// mutate applies op to an existing id. Unknown ids are a 404 here even
// though the Container would quietly ignore them.
func (s *Server) mutate(w http.ResponseWriter, id string, op func(string)) {
	s.mu.Lock()
	_, found := s.todos.Get(id)
	if found {
		op(id)
	}
	todos := s.todos.Todos()
	s.mu.Unlock()

	if !found {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no todo with id " + id})
		return
	}
	writeJSON(w, http.StatusOK, todos)
}

type summaryResponse struct {
	todo.Summary
	Title   string `json:"title"`
	Message string `json:"message"`
}

func (s *Server) summary(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	sum := todo.Summarize(s.todos.Todos())
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, summaryResponse{Summary: sum, Title: sum.Title(), Message: sum.Message()})
}

func (s *Server) dumpStorage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	data, err := s.storage.Dump()
	s.mu.Unlock()
	if err != nil {
		s.log.Error("dump storage", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage unavailable"})
		return
	}
	writeJSON(w, http.StatusOK, data)
}

// clearStorage wipes every key. The in-memory list is untouched and is
// written back on the next mutation.
func (s *Server) clearStorage(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	err := s.storage.ClearAll()
	s.mu.Unlock()
	if err != nil {
		s.log.Error("clear storage", "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "storage unavailable"})
		return
	}
	s.log.Warn("storage cleared")
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

