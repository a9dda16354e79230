package pipeline

import (
	"fmt"

	"github.com/gdevine/face-neutronprobe-hiev/internal/naming"
)

// Status represents where a candidate file sits in its lifecycle
type Status string

const (
	StatusPending   Status = "pending"
	StatusStaged    Status = "staged"
	StatusConverted Status = "converted"
	StatusUploaded  Status = "uploaded"
	StatusCleaned   Status = "cleaned"
	StatusSkipped   Status = "skipped"
	StatusFailed    Status = "failed"
)

// Event represents a lifecycle transition trigger
type Event string

const (
	EventStage   Event = "stage"
	EventConvert Event = "convert"
	EventUpload  Event = "upload"
	EventCleanup Event = "cleanup"
	EventSkip    Event = "skip"
	EventFail    Event = "fail"
)

// advance computes the next status for an event. It is the single place
// the lifecycle is encoded: candidates move monotonically forward and the
// three terminal states (Cleaned, Skipped, Failed) accept no events.
func advance(current Status, event Event) (Status, error) {
	switch current {
	case StatusPending:
		switch event {
		case EventStage:
			return StatusStaged, nil
		case EventSkip:
			return StatusSkipped, nil
		case EventFail:
			return StatusFailed, nil
		}
	case StatusStaged:
		switch event {
		case EventConvert:
			return StatusConverted, nil
		case EventSkip:
			return StatusSkipped, nil
		case EventFail:
			return StatusFailed, nil
		}
	case StatusConverted:
		switch event {
		case EventUpload:
			return StatusUploaded, nil
		case EventFail:
			return StatusFailed, nil
		}
	case StatusUploaded:
		switch event {
		case EventCleanup:
			return StatusCleaned, nil
		}
	}
	return current, fmt.Errorf("invalid transition: %s event in %s state", event, current)
}

// Candidate tracks one inbox file through the pipeline. The name fields
// are fixed at discovery; only Status and Err change as stages run.
type Candidate struct {
	RawName       string
	CanonicalName string
	DerivedName   string
	Window        naming.DateRange

	Status Status
	Err    error
}

// NewCandidate derives the canonical name, derived name, and upload time
// window for a discovered inbox file.
func NewCandidate(rawName string) (*Candidate, error) {
	canonical, err := naming.Canonical(rawName)
	if err != nil {
		return nil, err
	}
	window, err := naming.Range(rawName)
	if err != nil {
		return nil, err
	}
	return &Candidate{
		RawName:       rawName,
		CanonicalName: canonical,
		DerivedName:   naming.Derived(canonical),
		Window:        window,
		Status:        StatusPending,
	}, nil
}

// Apply advances the candidate's status, rejecting transitions the
// lifecycle does not allow.
func (c *Candidate) Apply(event Event) error {
	next, err := advance(c.Status, event)
	if err != nil {
		return fmt.Errorf("%s: %w", c.RawName, err)
	}
	c.Status = next
	return nil
}

// Skip marks the candidate skipped, recording the idempotency guard that
// fired.
func (c *Candidate) Skip(reason error) error {
	if err := c.Apply(EventSkip); err != nil {
		return err
	}
	c.Err = reason
	return nil
}

// Fail marks the candidate failed, recording the cause. Local artifacts
// are left in place for inspection.
func (c *Candidate) Fail(cause error) error {
	if err := c.Apply(EventFail); err != nil {
		return err
	}
	c.Err = cause
	return nil
}

// Terminal reports whether the candidate has reached a final status
func (c *Candidate) Terminal() bool {
	switch c.Status {
	case StatusCleaned, StatusSkipped, StatusFailed:
		return true
	}
	return false
}
