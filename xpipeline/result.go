package xpipeline

import (
	"errors"
	"fmt"

	"github.com/xiaoshicae/xascii/xerror"
)

// StepError 阶段返回的错误或 panic
type StepError struct {
	StageName string
	Err       error
}

func (se *StepError) Error() string {
	return fmt.Sprintf("stage=[%s], err=[%v]", se.StageName, se.Err)
}

func (se *StepError) Unwrap() error {
	return se.Err
}

// ResultSummary 供 Monitor 使用
type ResultSummary interface {
	Success() bool
	HasErrors() bool
	fmt.Stringer
}

type RunResult struct {
	Errors []*StepError
	// Aborted 运行被中止（用户退出、信号或致命错误），未排空
	Aborted bool
	// Cause Abort 的原因，用户主动退出时为 nil
	Cause error
}

func (r *RunResult) Success() bool {
	return len(r.Errors) == 0
}

func (r *RunResult) HasErrors() bool {
	return len(r.Errors) > 0
}

// Err 第一个阶段错误，ErrStopped 不算错误
func (r *RunResult) Err() error {
	for _, se := range r.Errors {
		if !errors.Is(se, xerror.ErrStopped) {
			return se.Err
		}
	}
	return nil
}

func (r *RunResult) String() string {
	if len(r.Errors) == 0 {
		if r.Aborted {
			return "pipeline aborted"
		}
		return ""
	}
	return fmt.Sprintf("pipeline failed: errors=[%d]", len(r.Errors))
}
