package test

import (
	"go.uber.org/fx"
)

// LifecycleRecorder collects fx hooks without running them so tests can
// drive OnStart and OnStop by hand.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// Last returns the most recently appended hook.
func (l *LifecycleRecorder) Last() fx.Hook {
	return l.Hooks[len(l.Hooks)-1]
}

// ShutdownerStub records shutdown invocations.
type ShutdownerStub struct {
	Called chan struct{}
}

func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	if s.Called != nil {
		select {
		case s.Called <- struct{}{}:
		default:
		}
	}
	return nil
}
