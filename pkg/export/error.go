// pkg/export/error.go
package export

import (
	"errors"
	"fmt"
	"time"
)

// Stage identifies the part of a run that failed
type Stage int

const (
	StageNone Stage = iota
	StageConfig
	StageConnect
	StageQuery
	StageTransform
	StageSink
)

// String returns a string representation of the stage
func (s Stage) String() string {
	switch s {
	case StageNone:
		return "none"
	case StageConfig:
		return "config"
	case StageConnect:
		return "connect"
	case StageQuery:
		return "query"
	case StageTransform:
		return "transform"
	case StageSink:
		return "sink"
	default:
		return fmt.Sprintf("unknown(%d)", int(s))
	}
}

// StageError is a fatal run error tagged with the stage it came from
type StageError struct {
	Stage     Stage
	Err       error
	Timestamp time.Time
}

// NewStageError wraps err; a nil err stays nil
func NewStageError(stage Stage, err error) error {
	if err == nil {
		return nil
	}
	var se *StageError
	if errors.As(err, &se) {
		return err
	}
	return &StageError{Stage: stage, Err: err, Timestamp: time.Now()}
}

func (e *StageError) Error() string {
	return fmt.Sprintf("%s stage failed: %v", e.Stage, e.Err)
}

func (e *StageError) Unwrap() error {
	return e.Err
}

// StageOf returns the stage recorded in err, or StageNone
func StageOf(err error) Stage {
	var se *StageError
	if errors.As(err, &se) {
		return se.Stage
	}
	return StageNone
}
