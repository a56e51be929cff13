package memstore_test

import (
	"errors"
	"reflect"
	"testing"

	"github.com/Makepad-fr/tada/internal/store"
	"github.com/Makepad-fr/tada/internal/store/memstore"
)

func TestStore(t *testing.T) {
	s := memstore.New()

	if _, err := s.Get("x"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("Get() error = %v, want ErrNotFound", err)
	}

	value := []byte("hello")
	s.Set("b", value)
	s.Set("a", []byte("1"))
	value[0] = 'j'

	got, err := s.Get("b")
	if err != nil || string(got) != "hello" {
		t.Errorf("Get(b) = %q, %v; want hello", got, err)
	}
	got[0] = 'y'
	if again, _ := s.Get("b"); string(again) != "hello" {
		t.Errorf("stored value changed through returned slice: %q", again)
	}

	keys, _ := s.Keys()
	if want := []string{"a", "b"}; !reflect.DeepEqual(keys, want) {
		t.Errorf("got keys %v, want %v", keys, want)
	}

	s.Clear()
	if keys, _ := s.Keys(); len(keys) != 0 {
		t.Errorf("got keys %v after Clear", keys)
	}
}
