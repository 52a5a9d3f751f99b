package repositories

import "sync/atomic"

// BackendState records whether the durable backend is still preferred. The
// transition to degraded is one-way for the life of the process.
type BackendState struct {
	durable atomic.Bool
}

// NewBackendState starts active only when a durable connection was configured.
func NewBackendState(durableConfigured bool) *BackendState {
	s := &BackendState{}
	s.durable.Store(durableConfigured)
	return s
}

func (s *BackendState) IsDurableActive() bool {
	return s.durable.Load()
}

// MarkDegraded switches to memory-only. It reports true only for the call
// that performed the transition.
func (s *BackendState) MarkDegraded() bool {
	return s.durable.CompareAndSwap(true, false)
}
