package cli

import (
	"errors"
	"testing"

	"github.com/Makepad-fr/tada/internal/model"
)

func TestResolve(t *testing.T) {
	items := []model.Todo{
		{ID: "abc123", Name: "A"},
		{ID: "abd456", Name: "B"},
		{ID: "xyz", Name: "C"},
	}

	tests := []struct {
		ref     string
		want    string
		wantErr error
	}{
		{ref: "1", want: "A"},
		{ref: "3", want: "C"},
		{ref: "xyz", want: "C"},
		{ref: "abc", want: "A"},
		{ref: "ab", wantErr: errAmbiguous},
		{ref: "q", wantErr: errNoMatch},
		{ref: "", wantErr: errNoMatch},
	}
	for _, tt := range tests {
		got, err := resolve(items, tt.ref)
		if tt.wantErr != nil {
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("resolve(%q) error = %v, want %v", tt.ref, err, tt.wantErr)
			}
			continue
		}
		if err != nil || got.Name != tt.want {
			t.Errorf("resolve(%q) = %q, %v; want %q", tt.ref, got.Name, err, tt.want)
		}
	}

	if _, err := resolve(items, "4"); err == nil {
		t.Error("resolve(4) out of range returned nil error")
	}
}

func TestResolve_NumericIDs(t *testing.T) {
	items := []model.Todo{
		{ID: "1700000000001", Name: "A"},
		{ID: "1700000000002", Name: "B"},
		{ID: "2", Name: "C"},
	}

	tests := []struct {
		ref  string
		want string
	}{
		{ref: "1700000000002", want: "B"},
		{ref: "2", want: "C"},
		{ref: "1", want: "A"},
		{ref: "3", want: "C"},
	}
	for _, tt := range tests {
		got, err := resolve(items, tt.ref)
		if err != nil || got.Name != tt.want {
			t.Errorf("resolve(%q) = %q, %v; want %q", tt.ref, got.Name, err, tt.want)
		}
	}
}
