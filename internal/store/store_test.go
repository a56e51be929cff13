package store_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/memstore"
)

type brokenBackend struct{}

var errDisk = errors.New("disk on fire")

func (brokenBackend) Get(string) ([]byte, error) { return nil, errDisk }
func (brokenBackend) Set(string, []byte) error   { return errDisk }
func (brokenBackend) Keys() ([]string, error)    { return nil, errDisk }
func (brokenBackend) Clear() error               { return errDisk }

func TestAdapter_SaveLoad(t *testing.T) {
	a := store.NewAdapter(memstore.New())

	in := []map[string]any{{"id": "1", "done": true}}
	if err := a.Save("k", in); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	var out []map[string]any
	ok, err := a.Load("k", &out)
	if err != nil || !ok {
		t.Fatalf("Load() = %v, %v", ok, err)
	}
	if !reflect.DeepEqual(out, in) {
		t.Errorf("got %v, want %v", out, in)
	}
}

func TestAdapter_LoadMissing(t *testing.T) {
	a := store.NewAdapter(memstore.New())

	var out []string
	ok, err := a.Load("never", &out)
	if ok || err != nil {
		t.Errorf("Load() = %v, %v; want false, nil", ok, err)
	}
}

func TestAdapter_LoadCorruptIsMissing(t *testing.T) {
	b := memstore.New()
	b.Set("k", []byte("not json"))
	a := store.NewAdapter(b)

	var out []string
	ok, err := a.Load("k", &out)
	if ok || err != nil {
		t.Errorf("Load() = %v, %v; want false, nil", ok, err)
	}
}

func TestAdapter_Unavailable(t *testing.T) {
	a := store.NewAdapter(brokenBackend{})

	var out []string
	if _, err := a.Load("k", &out); !errors.Is(err, store.ErrUnavailable) {
		t.Errorf("Load() error = %v, want ErrUnavailable", err)
	}
	if err := a.Save("k", out); !errors.Is(err, store.ErrUnavailable) {
		t.Errorf("Save() error = %v, want ErrUnavailable", err)
	}
	if err := a.ClearAll(); !errors.Is(err, store.ErrUnavailable) {
		t.Errorf("ClearAll() error = %v, want ErrUnavailable", err)
	}
	if _, err := a.Dump(); !errors.Is(err, store.ErrUnavailable) {
		t.Errorf("Dump() error = %v, want ErrUnavailable", err)
	}
}

func TestAdapter_ClearAll(t *testing.T) {
	b := memstore.New()
	a := store.NewAdapter(b)
	a.Save("one", 1)
	a.Save("two", 2)

	if err := a.ClearAll(); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}
	keys, _ := b.Keys()
	if len(keys) != 0 {
		t.Errorf("got keys %v after ClearAll", keys)
	}
}

func TestAdapter_Dump(t *testing.T) {
	b := memstore.New()
	b.Set("raw", []byte("plain text"))
	a := store.NewAdapter(b)
	a.Save("todos", []map[string]any{{"name": "A"}})

	got, err := a.Dump()
	if err != nil {
		t.Fatalf("Dump() error = %v", err)
	}
	want := map[string]any{
		"raw":   "plain text",
		"todos": []any{map[string]any{"name": "A"}},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("got %#v, want %#v", got, want)
	}
}

func TestNewAdapter_NilPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("NewAdapter(nil) did not panic")
		}
	}()
	store.NewAdapter(nil)
}
