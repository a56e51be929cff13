package model

// Todo is the domain model for a todo entry.
// ID and Name are fixed at creation; only Done changes afterwards.
type Todo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	Done bool   `json:"done"`
}
