package cli

import (
	"arha/internal/log"
)

// Cleanup collects release functions for resources opened during start-up
// and runs them in reverse order. Binaries defer Run inside a run function
// so every exit path releases them before os.Exit.
type Cleanup struct {
	logger *log.Logger
	steps  []cleanupStep
}

type cleanupStep struct {
	name string
	fn   func() error
}

func NewCleanup(logger *log.Logger) *Cleanup {
	return &Cleanup{logger: logger}
}

// Add registers fn under name. A nil fn is ignored.
func (c *Cleanup) Add(name string, fn func() error) {
	if fn == nil {
		return
	}
	c.steps = append(c.steps, cleanupStep{name: name, fn: fn})
}

// Run releases everything registered, newest first. Failures are logged and
// do not stop the remaining steps. Run is safe to call more than once.
func (c *Cleanup) Run() {
	for i := len(c.steps) - 1; i >= 0; i-- {
		s := c.steps[i]
		if err := s.fn(); err != nil {
			c.logger.Warn("Cleanup failed", "resource", s.name, "error", err)
		}
	}
	c.steps = nil
}
