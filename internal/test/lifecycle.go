package test

import (
	"go.uber.org/fx"
)

// LifecycleRecorder collects the fx hooks a module registers so a test can
// drive OnStart/OnStop by hand instead of booting the whole app.
type LifecycleRecorder struct {
	Hooks []fx.Hook
}

// Append stores the hook for later invocation.
func (l *LifecycleRecorder) Append(h fx.Hook) {
	l.Hooks = append(l.Hooks, h)
}

// ShutdownerStub stands in for fx.Shutdowner and signals each request on the
// Called channel.
type ShutdownerStub struct {
	Called chan struct{}
}

// Shutdown records the request without blocking the caller.
func (s *ShutdownerStub) Shutdown(...fx.ShutdownOption) error {
	if s.Called != nil {
		select {
		case s.Called <- struct{}{}:
		default:
		}
	}
	return nil
}
