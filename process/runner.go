package process

import (
	"context"

	"github.com/kbukum/subtitler/logger"
	"github.com/kbukum/subtitler/provider"
	"github.com/kbukum/subtitler/resilience"
)

// Runner executes commands through an optional resilience chain and
// satisfies provider.RequestResponse[Command, *Result], so the provider
// middleware (logging, metrics, tracing) can wrap tool invocations.
type Runner struct {
	name     string
	binaries []string
	state    *provider.ResilienceState
	log      *logger.Logger
}

// NewRunner creates a Runner. binaries lists the executables the runner
// depends on; IsAvailable checks them on PATH.
func NewRunner(name string, cfg provider.ResilienceConfig, binaries ...string) *Runner {
	r := &Runner{
		name:     name,
		binaries: binaries,
		log:      logger.WithComponent("process").WithFields(logger.Fields(logger.FieldProvider, name)),
	}
	if !cfg.IsEmpty() {
		r.state = provider.BuildResilience(cfg)
	}
	return r
}

func (r *Runner) Name() string { return r.name }

// IsAvailable is false when a required binary is missing or the breaker is open.
func (r *Runner) IsAvailable(_ context.Context) bool {
	if r.state != nil && r.state.CircuitState() == resilience.StateOpen {
		return false
	}
	for _, b := range r.binaries {
		if !Available(b) {
			return false
		}
	}
	return true
}

func (r *Runner) Execute(ctx context.Context, cmd Command) (*Result, error) {
	return r.Run(ctx, cmd)
}

// Run executes cmd. Non-zero exits count as failures for the breaker.
func (r *Runner) Run(ctx context.Context, cmd Command) (*Result, error) {
	r.log.Debug("running command", logger.Fields("command", cmd.String()))
	result, err := provider.ExecuteWithResilience(ctx, r.state, func() (*Result, error) {
		return Run(ctx, cmd)
	})
	if err != nil {
		fields := logger.ErrorFields("run "+cmd.Binary, err)
		if tail := result.StderrTail(512); tail != "" {
			fields["stderr"] = tail
		}
		r.log.Warn("command failed", fields)
	}
	return result, err
}
