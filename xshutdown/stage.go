package xshutdown

import "sync/atomic"

type State int32

const (
	Running State = iota
	Draining
	Stopped
)

func (s State) String() string {
	switch s {
	case Running:
		return "running"
	case Draining:
		return "draining"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Stage 单个阶段的状态，只向前推进
type Stage struct {
	name  string
	state atomic.Int32
	coord *Coordinator
}

func (s *Stage) Name() string {
	return s.name
}

func (s *Stage) State() State {
	return State(s.state.Load())
}

func (s *Stage) IsStopped() bool {
	return s.State() == Stopped
}

// Drain 进入排空状态，已停止的阶段不回退
func (s *Stage) Drain() {
	s.state.CompareAndSwap(int32(Running), int32(Draining))
}

// Stop 标记停止并唤醒所有等待中的下游，重复调用无副作用
func (s *Stage) Stop() {
	if State(s.state.Swap(int32(Stopped))) == Stopped {
		return
	}
	if s.coord != nil {
		s.coord.wakeAll()
	}
}
