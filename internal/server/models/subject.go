package models

import "time"

// Subject is an exam subject tracked by one user. Part 1 and part 2 are the
// two task ranges of the exam; Part2MaxPoints maps task number (as a string
// key, matching the JSON wire form) to the maximum points for that task.
type Subject struct {
	ID             string
	UserID         int64
	Name           string
	Part1From      int
	Part1To        int
	Part2From      int
	Part2To        int
	Part2MaxPoints map[string]int
	Icon           string
	Color          string
	Archived       bool
	CreatedAt      time.Time
}
