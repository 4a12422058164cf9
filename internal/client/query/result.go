package query

import "time"

type Status int

const (
	StatusIdle Status = iota
	StatusLoading
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusLoading:
		return "loading"
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "unknown"
}

// Result is a snapshot of one query.
type Result[T any] struct {
	Status    Status
	Data      T
	Err       error
	UpdatedAt time.Time
	// Stale is set when Data is older than the stale time.
	Stale bool
}

func (r Result[T]) IsLoading() bool { return r.Status == StatusLoading }

func (r Result[T]) IsError() bool { return r.Status == StatusError }

func (r Result[T]) IsSuccess() bool { return r.Status == StatusSuccess }
