// Package adapter 定义粘贴会话与宿主环境之间的边界：
// 向外输出文本（键入/剪贴板），向内接收操作者的触发键。
// 具体实现在子包 autotype 与 termkeys 中。
package adapter

import (
	"context"
	"errors"
	"fmt"
)

// Trigger 是操作者在会话中发出的一次指令。
type Trigger int

const (
	// TriggerNext 前进到下一条目（键入展示名并装填剪贴板）。
	TriggerNext Trigger = iota
	// TriggerLogUnmatched 把最近装填过剪贴板的条目记为未匹配。
	TriggerLogUnmatched
	// TriggerQuit 结束会话。
	TriggerQuit
)

// Adapter 是文本输出端的最小接口。
type Adapter interface {
	// TypeText 把 s 键入到当前聚焦的输入位置。
	TypeText(s string) error
	// SetClipboard 用 s 替换系统剪贴板内容。
	SetClipboard(s string) error
}

// TriggerSource 是触发键的来源；Next 阻塞直到下一次触发或 ctx 取消。
type TriggerSource interface {
	Next(ctx context.Context) (Trigger, error)
}

// UnavailableError 表示某项宿主能力在当前环境不可用（无显示服务、非终端等）。
// 调用方据此降级为预览模式，而不是直接失败。
type UnavailableError struct {
	Capability string
	Err        error
}

func (e *UnavailableError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("能力不可用：%s：%v", e.Capability, e.Err)
	}
	return fmt.Sprintf("能力不可用：%s", e.Capability)
}

func (e *UnavailableError) Unwrap() error { return e.Err }

// IsUnavailable 判断 err 是否为能力不可用错误。
func IsUnavailable(err error) bool {
	var e *UnavailableError
	return errors.As(err, &e)
}
