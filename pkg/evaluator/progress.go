package evaluator

import (
	"fmt"
	"sync"
)

// Progress tracks how far through the criteria list an evaluation run is.
type Progress struct {
	mu        sync.Mutex
	total     int
	completed int
	failed    int
	current   string
}

// Start initializes tracking for a run of total criteria.
func (p *Progress) Start(total int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.total = total
	p.completed = 0
	p.failed = 0
	p.current = ""
}

// Update records the outcome of one criterion.
func (p *Progress) Update(criterionName string, success bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.current = criterionName
	if success {
		p.completed++
	} else {
		p.failed++
	}
}

// Complete reports whether every criterion has been processed.
func (p *Progress) Complete() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed+p.failed >= p.total
}

// Failed returns the number of criteria that failed so far.
func (p *Progress) Failed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

// Completed returns the number of criteria that succeeded so far.
func (p *Progress) Completed() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.completed
}

// Text renders the current progress line.
func (p *Progress) Text() string {
	p.mu.Lock()
	defer p.mu.Unlock()

	remaining := p.total - p.completed - p.failed
	percentage := 0.0
	if p.total > 0 {
		percentage = float64(p.completed) / float64(p.total) * 100
	}
	return fmt.Sprintf("Progress: %d/%d (%.1f%%) | Failed: %d | Remaining: %d",
		p.completed, p.total, percentage, p.failed, remaining)
}
