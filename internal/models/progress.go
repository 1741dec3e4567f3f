package models

import (
	"fmt"
	"time"
)

// SweepProgress counts what happened to each stack during one sweep
type SweepProgress struct {
	Total     int       `json:"total"`
	Visited   int       `json:"visited"`
	Skipped   int       `json:"skipped"`
	FromCache int       `json:"from_cache"`
	FromAPI   int       `json:"from_api"`
	StartTime time.Time `json:"start_time"`
}

// NewSweepProgress creates a new progress tracker for total stacks
func NewSweepProgress(total int) *SweepProgress {
	return &SweepProgress{
		Total:     total,
		StartTime: time.Now(),
	}
}

// IncrementVisited records an authenticated stack
func (p *SweepProgress) IncrementVisited() {
	p.Visited++
}

// IncrementSkipped records a stack skipped after a failed login
func (p *SweepProgress) IncrementSkipped() {
	p.Skipped++
}

// RecordSource records where a stack's tenant list came from
func (p *SweepProgress) RecordSource(fromCache bool) {
	if fromCache {
		p.FromCache++
	} else {
		p.FromAPI++
	}
}

// Elapsed returns the time since the sweep started
func (p *SweepProgress) Elapsed() time.Duration {
	return time.Since(p.StartTime)
}

// GetCompletionSummary returns a summary string when the sweep is complete
func (p *SweepProgress) GetCompletionSummary() string {
	return fmt.Sprintf("Completed: %d/%d stacks searched in %v (Skipped: %d, Cache: %d, API: %d)",
		p.Visited, p.Total, p.Elapsed().Truncate(time.Millisecond), p.Skipped, p.FromCache, p.FromAPI)
}
