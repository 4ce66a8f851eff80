package xflow

import "fmt"

// StepError 某个步骤的执行或回滚错误
type StepError struct {
	ProcessorName string
	Dependency    Dependency
	Err           error
}

func (se *StepError) Error() string {
	return fmt.Sprintf("processor=[%s], dependency=[%s], err=[%v]", se.ProcessorName, se.Dependency, se.Err)
}

func (se *StepError) Unwrap() error {
	return se.Err
}

// ExecuteResult Err 非空表示某个 Strong 步骤失败
type ExecuteResult struct {
	Err            error
	SkippedErrors  []*StepError
	RollbackErrors []*StepError
	Rolled         bool
}

func (r *ExecuteResult) Success() bool {
	return r.Err == nil
}

func (r *ExecuteResult) HasSkippedErrors() bool {
	return len(r.SkippedErrors) > 0
}

func (r *ExecuteResult) HasRollbackErrors() bool {
	return len(r.RollbackErrors) > 0
}

func (r *ExecuteResult) String() string {
	if r.Err == nil {
		return ""
	}
	msg := fmt.Sprintf("flow failed: %v", r.Err)
	if r.Rolled {
		msg += ", rolled back"
	}
	if len(r.RollbackErrors) > 0 {
		msg += fmt.Sprintf(", rollback errors=[%d]", len(r.RollbackErrors))
	}
	return msg
}
