package models

import "time"

// Attempt is one try at a task. Attempts are append-only: they are never
// updated or deleted individually, only dropped together with their subject.
// Points and MaxPoints stay nil for part 1 tasks.
type Attempt struct {
	ID          int64
	SubjectID   string
	TaskNumber  int
	Status      string
	Points      *int
	MaxPoints   *int
	AttemptDate time.Time
	CreatedAt   time.Time
}
