// Package session 驱动交互式粘贴会话：响应操作者触发，
// 逐条键入展示名、装填剪贴板组名，并按需记录未匹配条目。
package session

import (
	"context"
	"fmt"

	"github.com/John-Robertt/DishPipe/internal/adapter"
	"github.com/John-Robertt/DishPipe/internal/app/sequencer"
	"github.com/John-Robertt/DishPipe/internal/domain"
)

// Result 汇总一次会话的成果与非致命错误。
type Result struct {
	Pasted int
	Logged int
	Errors []domain.ReportError
}

// RunInteractive 运行交互式会话直到操作者退出、触发源出错或 ctx 取消。
//
// 触发语义：
//   - Next：前进一条，键入展示名、装填剪贴板；已在末尾则只提示一次"到底了"，继续等待。
//   - LogUnmatched：把最近装填过剪贴板的条目追加到未匹配日志（append-only，重复标记由操作者自己把握）。
//   - Quit：结束会话。
//
// 键入失败与剪贴板失败都不终止会话：条目级的故障换不来整场放弃，
// 操作者可以手工补一条继续走。
func RunInteractive(ctx context.Context, sq *sequencer.Sequencer, ad adapter.Adapter, trg adapter.TriggerSource, obs Observer) Result {
	var res Result
	warn := func(code, msg string) {
		obs.OnWarn(code, msg)
		res.Errors = append(res.Errors, domain.ReportError{Code: code, Msg: msg})
	}

	total := sq.Len()
	for {
		t, err := trg.Next(ctx)
		if err != nil {
			if ctx.Err() == nil {
				warn(domain.ErrCodeIOFailed, fmt.Sprintf("触发源中断：%v", err))
			}
			obs.OnDone(res.Pasted, res.Logged)
			return res
		}

		switch t {
		case adapter.TriggerNext:
			e, ok := sq.Advance()
			if !ok {
				obs.OnEndOfSequence()
				continue
			}
			if err := ad.TypeText(e.Display); err != nil {
				warn(domain.ErrCodeTypeFailed, fmt.Sprintf("键入第 %d 条失败：%v", e.Index+1, err))
			}
			if err := ad.SetClipboard(e.Clipboard); err != nil {
				warn(domain.ErrCodeClipboardFailed, fmt.Sprintf("装填剪贴板第 %d 条失败：%v", e.Index+1, err))
			}
			res.Pasted++
			obs.OnEntry(e.Index, total, e)

		case adapter.TriggerLogUnmatched:
			e, ok := sq.Last()
			if !ok || e.Clipboard == "" {
				continue
			}
			if err := sq.RecordUnmatched(e); err != nil {
				warn(domain.ErrCodeLogAppendFailed, fmt.Sprintf("追加未匹配日志失败：%v", err))
				continue
			}
			res.Logged++
			obs.OnUnmatched(e)

		case adapter.TriggerQuit:
			obs.OnDone(res.Pasted, res.Logged)
			return res
		}
	}
}

// Preview 以非交互方式枚举整个序列（dry-run 或环境能力缺失时的降级路径）。
func Preview(entries []domain.SequenceEntry, obs Observer) Result {
	total := len(entries)
	for _, e := range entries {
		obs.OnEntry(e.Index, total, e)
	}
	obs.OnDone(total, 0)
	return Result{Pasted: total}
}
