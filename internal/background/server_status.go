package background

import (
	"fmt"
	"sync"
)

type serverState int

const (
	serverStopped serverState = iota
	serverStarting
	serverStarted
	serverStopping
)

// backgroundServerStatus guards the lifecycle of a background server. Checks and transitions happen under the same lock.
type backgroundServerStatus struct {
	mu    sync.Mutex
	name  string
	state serverState
}

func newBackgroundServerStatus(name string) *backgroundServerStatus {
	return &backgroundServerStatus{
		name:  name,
		state: serverStopped,
	}
}

// beginStart moves a stopped server to "starting". The caller must follow with `endStart`.
func (s *backgroundServerStatus) beginStart() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case serverStarting:
		return fmt.Errorf("%v正在启动", s.name)
	case serverStarted:
		return fmt.Errorf("%v已启动", s.name)
	case serverStopping:
		return fmt.Errorf("%v正在停止", s.name)
	}

	s.state = serverStarting
	return nil
}

// endStart settles a "starting" server as started, or back to stopped if `ok` is false.
func (s *backgroundServerStatus) endStart(ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if ok {
		s.state = serverStarted
	} else {
		s.state = serverStopped
	}
}

// beginStop moves a started server to "stopping". The caller must follow with `endStop`.
func (s *backgroundServerStatus) beginStop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case serverStopping:
		return fmt.Errorf("%v正在停止", s.name)
	case serverStopped, serverStarting:
		return fmt.Errorf("%v未启动", s.name)
	}

	s.state = serverStopping
	return nil
}

func (s *backgroundServerStatus) endStop() {
	s.mu.Lock()
	s.state = serverStopped
	s.mu.Unlock()
}
