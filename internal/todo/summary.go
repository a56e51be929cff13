package todo

import (
	"fmt"

	"github.com/Makepad-fr/tada/internal/model"
)

// Summary counts completed todos.
type Summary struct {
	Done      int      `json:"done"`
	Total     int      `json:"total"`
	Completed []string `json:"completed"` // names, in list order
}

func Summarize(todos []model.Todo) Summary {
	s := Summary{Total: len(todos), Completed: []string{}}
	for _, t := range todos {
		if t.Done {
			s.Done++
			s.Completed = append(s.Completed, t.Name)
		}
	}
	return s
}

func (s Summary) Title() string {
	return fmt.Sprintf("%d of %d tasks completed", s.Done, s.Total)
}

// Message cheers when nothing is left open, an empty list included.
func (s Summary) Message() string {
	if s.Done == s.Total {
		return "Great job! You've completed all your tasks."
	}
	return "Keep going! You're almost there."
}
