package session

import "github.com/John-Robertt/DishPipe/internal/domain"

// Observer 把会话进展事件与核心流程解耦；UI 层实现它来渲染人类可读输出。
// 所有方法都在会话协程内被串行调用，实现方不必加锁。
type Observer interface {
	// OnStart 在会话开始时调用一次。
	OnStart(total int, dryRun bool, noMatchPath string)
	// OnEntry 在一条目被键入并装填剪贴板之后调用（预览模式下则表示枚举到它）。
	OnEntry(idx, total int, e domain.SequenceEntry)
	// OnEndOfSequence 在操作者于末尾继续请求前进时调用。
	OnEndOfSequence()
	// OnUnmatched 在一条目被记入未匹配日志之后调用。
	OnUnmatched(e domain.SequenceEntry)
	// OnWarn 报告非致命问题（键入失败、剪贴板失败、日志写入失败）。
	OnWarn(code, msg string)
	// OnDone 在会话结束时调用一次。
	OnDone(pasted, logged int)
}

// NopObserver 忽略所有事件，便于测试与非交互路径。
type NopObserver struct{}

func (NopObserver) OnStart(int, bool, string)              {}
func (NopObserver) OnEntry(int, int, domain.SequenceEntry) {}
func (NopObserver) OnEndOfSequence()                       {}
func (NopObserver) OnUnmatched(domain.SequenceEntry)       {}
func (NopObserver) OnWarn(string, string)                  {}
func (NopObserver) OnDone(int, int)                        {}

// Multi 把事件按注册顺序扇出给多个 Observer。
type Multi []Observer

func (m Multi) OnStart(total int, dryRun bool, noMatchPath string) {
	for _, o := range m {
		o.OnStart(total, dryRun, noMatchPath)
	}
}

func (m Multi) OnEntry(idx, total int, e domain.SequenceEntry) {
	for _, o := range m {
		o.OnEntry(idx, total, e)
	}
}

func (m Multi) OnEndOfSequence() {
	for _, o := range m {
		o.OnEndOfSequence()
	}
}

func (m Multi) OnUnmatched(e domain.SequenceEntry) {
	for _, o := range m {
		o.OnUnmatched(e)
	}
}

func (m Multi) OnWarn(code, msg string) {
	for _, o := range m {
		o.OnWarn(code, msg)
	}
}

func (m Multi) OnDone(pasted, logged int) {
	for _, o := range m {
		o.OnDone(pasted, logged)
	}
}
