// Package saga 实现跨资源操作的补偿编排
//
// 用于无法放进同一个数据库事务的多步操作（对象存储 + 数据库）：
// 1. 每一步是一个本地操作，附带对应的补偿操作
// 2. 某步失败时，按逆序执行已完成步骤的补偿
// 3. 保证最终一致性，补偿期间数据可能处于中间状态
package saga

import (
	"context"
	"fmt"
	"time"
)

// Step Saga中的一个步骤
// Action与Compensate都必须幂等，Compensate可以为nil
type Step struct {
	Name       string
	Action     func(ctx context.Context) error
	Compensate func(ctx context.Context) error
}

// CompensateErrorHandler 补偿失败时的回调（记录日志、告警）
type CompensateErrorHandler func(step string, err error)

// Saga 一次补偿编排
// 不可并发使用，也不可重复Execute
type Saga struct {
	steps     []Step
	executed  []Step
	timeout   time.Duration
	onFailure CompensateErrorHandler
}

// NewSaga 创建Saga，timeout<=0表示不限时
//
//	s := saga.NewSaga(30 * time.Second)
//	s.AddStep("上传头像", upload, deleteObject)
//	s.AddStep("更新用户", updateUser, nil)
//	err := s.Execute(ctx)
func NewSaga(timeout time.Duration) *Saga {
	return &Saga{timeout: timeout}
}

// OnCompensateError 设置补偿失败回调
func (s *Saga) OnCompensateError(fn CompensateErrorHandler) *Saga {
	s.onFailure = fn
	return s
}

// AddStep 添加步骤，按添加顺序执行，按逆序补偿
func (s *Saga) AddStep(name string, action, compensate func(ctx context.Context) error) {
	s.steps = append(s.steps, Step{
		Name:       name,
		Action:     action,
		Compensate: compensate,
	})
}

// Execute 执行全部步骤
// 某步失败或超时时执行补偿，返回的错误包装了原始错误（errors.Is/As可用）
func (s *Saga) Execute(ctx context.Context) error {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	for i, step := range s.steps {
		if err := ctx.Err(); err != nil {
			s.compensate(context.WithoutCancel(ctx))
			return fmt.Errorf("saga超时: %w", err)
		}

		if step.Action != nil {
			if err := step.Action(ctx); err != nil {
				// 补偿使用不会被取消的Context，避免补偿也超时
				s.compensate(context.WithoutCancel(ctx))
				return fmt.Errorf("步骤[%d:%s]执行失败: %w", i, step.Name, err)
			}
		}
		s.executed = append(s.executed, step)
	}

	return nil
}

// compensate 逆序补偿
// 某个补偿失败不影响后续补偿（尽最大努力）
func (s *Saga) compensate(ctx context.Context) {
	for i := len(s.executed) - 1; i >= 0; i-- {
		step := s.executed[i]
		if step.Compensate == nil {
			continue
		}
		if err := step.Compensate(ctx); err != nil && s.onFailure != nil {
			s.onFailure(step.Name, err)
		}
	}
	s.executed = nil
}
