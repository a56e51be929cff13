package todo_test

import (
	"reflect"
	"testing"

	"github.com/Makepad-fr/tada/internal/model"
	"github.com/Makepad-fr/tada/internal/todo"
)

func TestSummarize(t *testing.T) {
	tests := []struct {
		name      string
		todos     []model.Todo
		title     string
		message   string
		completed []string
	}{
		{
			name:      "empty",
			title:     "0 of 0 tasks completed",
			message:   "Great job! You've completed all your tasks.",
			completed: []string{},
		},
		{
			name:      "partial",
			todos:     []model.Todo{{ID: "1", Name: "A", Done: true}, {ID: "2", Name: "B"}},
			title:     "1 of 2 tasks completed",
			message:   "Keep going! You're almost there.",
			completed: []string{"A"},
		},
		{
			name:      "all done",
			todos:     []model.Todo{{ID: "1", Name: "A", Done: true}, {ID: "2", Name: "B", Done: true}},
			title:     "2 of 2 tasks completed",
			message:   "Great job! You've completed all your tasks.",
			completed: []string{"A", "B"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := todo.Summarize(tt.todos)
			if s.Title() != tt.title {
				t.Errorf("got Title %q, want %q", s.Title(), tt.title)
			}
			if s.Message() != tt.message {
				t.Errorf("got Message %q, want %q", s.Message(), tt.message)
			}
			if !reflect.DeepEqual(s.Completed, tt.completed) {
				t.Errorf("got Completed %v, want %v", s.Completed, tt.completed)
			}
		})
	}
}
