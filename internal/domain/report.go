package domain

import (
	"time"
)

const (
	// ErrCodeInputMissing 表示必需的输入文件/文档不存在（不重试，直接失败）。
	ErrCodeInputMissing = "input_missing"
	// ErrCodeInputEmpty 表示规范化之后得到了零条目（后续步骤跳过）。
	ErrCodeInputEmpty = "input_empty"
	// ErrCodeAdapterUnavailable 表示自动化适配器能力无法初始化（降级为 preview，不终止）。
	ErrCodeAdapterUnavailable = "adapter_unavailable"
	// ErrCodeTypeFailed / ErrCodeClipboardFailed / ErrCodeLogAppendFailed
	// 是交互阶段的单条失败：记录后游标照常前进，一条坏数据不阻塞整个序列。
	ErrCodeTypeFailed      = "type_failed"
	ErrCodeClipboardFailed = "clipboard_failed"
	ErrCodeLogAppendFailed = "log_append_failed"

	ErrCodeConfigInvalid = "config_invalid"
	ErrCodeIOFailed      = "io_failed"
)

// Report 是对外稳定输出（stdout 非 TTY 时的唯一 JSON）的结构。
type Report struct {
	Command string `json:"command"`
	Source  string `json:"source"`
	DryRun  bool   `json:"dry_run"`

	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	Summary Summary       `json:"summary"`
	Outputs []OutputFile  `json:"outputs"`
	Errors  []ReportError `json:"errors"`
}

type Summary struct {
	RawNames     int `json:"raw_names"`
	DisplayNames int `json:"display_names"`
	GroupBases   int `json:"group_bases"`
	Pasted       int `json:"pasted"`
	Logged       int `json:"logged"`
}

// OutputFile 记录一次命令写出的行文件（kind 固定为 names/display/keys/no_matches）。
type OutputFile struct {
	Kind  string `json:"kind"`
	Path  string `json:"path"`
	Lines int    `json:"lines"`
}

type ReportError struct {
	Code string `json:"error_code"`
	Msg  string `json:"error_msg"`
}

// Finalize 做两件事：
// 1) 时间统一为 UTC（确保 JSON 为 RFC3339 且后缀 Z）
// 2) nil 切片归一为空切片（JSON 输出稳定为 [] 而不是 null）
func (r *Report) Finalize() {
	r.StartedAt = r.StartedAt.UTC()
	r.FinishedAt = r.FinishedAt.UTC()
	if r.Outputs == nil {
		r.Outputs = []OutputFile{}
	}
	if r.Errors == nil {
		r.Errors = []ReportError{}
	}
}
