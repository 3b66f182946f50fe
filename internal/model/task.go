package model

import "time"

// TaskRun records the last successful completion of a named background task.
// The scheduler consults it to decide whether the daily refresh is due.
type TaskRun struct {
	TaskName string    `json:"taskName"`
	LastRun  time.Time `json:"lastRun"`
}
