package domain

import "math"

// Progress is a derived, read-only view over a task list. Tasks with an
// unrecognized status count toward Total but land in no bucket.
type Progress struct {
	Todo       int     `json:"todo"`
	InProgress int     `json:"inprogress"`
	Done       int     `json:"done"`
	Total      int     `json:"total"`
	Completion float64 `json:"completion"`
}

// Summarize partitions tasks by status and computes the completion
// percentage (done/total*100, one decimal place, 0 for an empty list).
func Summarize(tasks []Task) Progress {
	p := Progress{Total: len(tasks)}
	for _, t := range tasks {
		switch t.Status {
		case StatusTodo:
			p.Todo++
		case StatusInProgress:
			p.InProgress++
		case StatusDone:
			p.Done++
		}
	}
	if p.Total > 0 {
		p.Completion = math.Round(float64(p.Done)/float64(p.Total)*1000) / 10
	}
	return p
}
