package xflow

import "context"

// Dependency 标记 Processor 失败后流程是否继续
type Dependency int

const (
	// Strong 失败即中断，并逆序回滚已成功的步骤
	Strong Dependency = iota
	// Weak 失败只记录，流程继续
	Weak
)

func (d Dependency) String() string {
	switch d {
	case Strong:
		return "Strong"
	case Weak:
		return "Weak"
	default:
		return "Unknown"
	}
}

// Processor 流程中的一个步骤
type Processor[T any] interface {
	Name() string
	Dependency() Dependency
	Process(ctx context.Context, data T) error
	// Rollback 仅对 Process 成功过的步骤调用
	Rollback(ctx context.Context, data T) error
}

// Step 用函数拼出一个 Processor，RollbackFn 可为空
type Step[T any] struct {
	StepName   string
	Dep        Dependency
	ProcessFn  func(ctx context.Context, data T) error
	RollbackFn func(ctx context.Context, data T) error
}

func (s *Step[T]) Name() string {
	return s.StepName
}

func (s *Step[T]) Dependency() Dependency {
	return s.Dep
}

func (s *Step[T]) Process(ctx context.Context, data T) error {
	if s.ProcessFn == nil {
		return nil
	}
	return s.ProcessFn(ctx, data)
}

func (s *Step[T]) Rollback(ctx context.Context, data T) error {
	if s.RollbackFn == nil {
		return nil
	}
	return s.RollbackFn(ctx, data)
}
