package domain

import "time"

// StageStatus is the outcome of a recorded pipeline stage.
type StageStatus int

const (
	// StageRunning means the stage has started but not finished.
	StageRunning StageStatus = iota
	// StageDone means the stage finished successfully.
	StageDone
	// StageFailed means the stage returned an error.
	StageFailed
	// StageCached means the stage was satisfied by a stored package.
	StageCached
)

func (s StageStatus) String() string {
	switch s {
	case StageDone:
		return "done"
	case StageFailed:
		return "failed"
	case StageCached:
		return "cached"
	default:
		return "running"
	}
}

// StageResult is the recorded state of one pipeline stage.
type StageResult struct {
	Name     string
	Status   StageStatus
	Duration time.Duration
	Error    string

	// Output holds the last lines the stage wrote.
	Output []string
}
