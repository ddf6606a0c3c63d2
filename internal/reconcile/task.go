package reconcile

import "github.com/google/uuid"

// Task is one deferred pair-fetch unit. Attempts counts fetches already
// performed for it.
type Task struct {
	ID       uuid.UUID
	Coin1    string
	Coin2    string
	Attempts int
}

// NewTask creates a task for the given pair with a fresh id.
func NewTask(coin1, coin2 string) Task {
	return Task{ID: uuid.New(), Coin1: coin1, Coin2: coin2}
}
