package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/John-Robertt/DishPipe/internal/app/session"
	"github.com/John-Robertt/DishPipe/internal/domain"
)

var _ session.Observer = (*sessionUI)(nil)

// sessionUI 是交互终端的会话进度输出。
//
// 设计目标：
// - 所有过程信息写到 stderr（或 fallback 到 stdout），不污染 stdout 的 JSON 输出契约
// - 事件驱动：session 层只发事件，CLI 决定如何展示
// - raw 模式下终端不再做 LF -> CRLF 转换，需要显式输出 \r\n
type sessionUI struct {
	w   io.Writer
	eol string

	preview bool
}

func newSessionUI(w io.Writer) *sessionUI {
	return &sessionUI{w: w, eol: "\n"}
}

// setRaw 切换行结束符；进入 raw 模式的终端必须用 CRLF。
func (u *sessionUI) setRaw(raw bool) {
	if raw {
		u.eol = "\r\n"
	} else {
		u.eol = "\n"
	}
}

func (u *sessionUI) printf(format string, args ...any) {
	fmt.Fprintf(u.w, format+u.eol, args...)
}

func (u *sessionUI) OnStart(total int, dryRun bool, noMatchPath string) {
	u.preview = dryRun
	if dryRun {
		u.printf("预览模式：共 %d 条（不键入/不写剪贴板）", total)
		return
	}
	u.printf("会话开始：共 %d 条", total)
	u.printf("按键：Down/j 下一条；Up/k 记未匹配；F8/q 退出")
	u.printf("未匹配日志：%s", noMatchPath)
}

func (u *sessionUI) OnEntry(idx, total int, e domain.SequenceEntry) {
	prefix := ""
	if u.preview {
		prefix = "dry "
	}
	u.printf("[%s%d/%d] 键入 %q | 剪贴板 %q", prefix, idx+1, total, e.Display, truncate(e.Clipboard, 80))
}

func (u *sessionUI) OnEndOfSequence() {
	u.printf("已到末尾（F8/q 退出）")
}

func (u *sessionUI) OnUnmatched(e domain.SequenceEntry) {
	u.printf("记未匹配：%q", e.Clipboard)
}

func (u *sessionUI) OnWarn(code, msg string) {
	u.printf("警告 %s: %s", code, truncate(msg, 160))
}

func (u *sessionUI) OnDone(pasted, logged int) {
	u.printf("会话结束：pasted=%d logged=%d", pasted, logged)
}

func truncate(s string, max int) string {
	s = strings.TrimSpace(s)
	if max <= 0 || len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
