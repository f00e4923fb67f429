package doccov

import (
	"sync"

	"github.com/agentstation/doccov/pkg/coverage"
)

// Hook function types for analysis events
type (
	// ResultHook is called once per endpoint verdict, in report order
	ResultHook func(result coverage.MatchResult)

	// WarningHook is called for every structural warning
	WarningHook func(warning coverage.Warning)

	// SkipHook is called for every skipped file or declaration
	SkipHook func(skip coverage.Skip)
)

// hooks manages event callbacks for finished analyses
type hooks struct {
	mu        sync.RWMutex
	onResult  []ResultHook
	onWarning []WarningHook
	onSkip    []SkipHook
}

// newHooks creates a new hooks instance
func newHooks() *hooks {
	return &hooks{}
}

// OnResult registers a callback for endpoint verdicts
func (h *hooks) OnResult(fn ResultHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onResult = append(h.onResult, fn)
}

// OnWarning registers a callback for structural warnings
func (h *hooks) OnWarning(fn WarningHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onWarning = append(h.onWarning, fn)
}

// OnSkip registers a callback for skipped inputs
func (h *hooks) OnSkip(fn SkipHook) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onSkip = append(h.onSkip, fn)
}

// triggerReport replays a finished report through the registered hooks
func (h *hooks) triggerReport(report *coverage.Report) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for _, res := range report.Results {
		for _, fn := range h.onResult {
			fn(res)
		}
	}
	for _, w := range report.Warnings {
		for _, fn := range h.onWarning {
			fn(w)
		}
	}
	for _, s := range report.Skipped {
		for _, fn := range h.onSkip {
			fn(s)
		}
	}
}
