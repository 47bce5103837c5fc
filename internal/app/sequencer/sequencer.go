package sequencer

import (
	"regexp"

	"github.com/John-Robertt/DishPipe/internal/domain"
	"github.com/John-Robertt/DishPipe/internal/normalize"
)

var nonAlnumRE = regexp.MustCompile(`[^A-Za-z0-9]+`)

// Build 把展示列表与分组映射拼成可回放的有序序列。
//
// 纯函数：相同输入必然产生相同输出——交互消费方可能被外部中断后按下标恢复，
// 重放必须得到一模一样的序列。输出长度等于 display 长度，顺序即首次出现顺序。
//
// keys 与 display 长度不一致时（例如 keys 文件缺失/损坏），按展示名重新计算。
func Build(display, keys []string, groupBases map[string]string) []domain.SequenceEntry {
	if len(keys) != len(display) {
		keys = make([]string, len(display))
		for i, d := range display {
			keys[i] = normalize.CanonicalKey(d)
		}
	}

	entries := make([]domain.SequenceEntry, len(display))
	for i, d := range display {
		gb, ok := groupBases[keys[i]]
		if !ok {
			gb = FallbackGroupBase(d)
		}
		entries[i] = domain.SequenceEntry{Index: i, Display: d, Clipboard: gb}
	}
	return entries
}

// FallbackGroupBase 在分组映射没有对应条目时合成剪贴板文本：
// 取展示名 camel 拆分后去掉所有非字母数字字符；仍为空则用展示名本身。
func FallbackGroupBase(display string) string {
	compact := nonAlnumRE.ReplaceAllString(normalize.SplitCamel(display), "")
	if compact == "" {
		return display
	}
	return compact
}

// NoMatchSink 接收操作员标记为“未匹配”的剪贴板文本。
// 实现只追加、永不回读（no-match 日志是 append-only 的外部文件）。
type NoMatchSink interface {
	AppendNoMatch(text string) error
}

// Sequencer 持有一个单调递增的游标，是整个流水线里唯一的可变状态。
//
// 约束：Advance/RecordUnmatched 必须由调用方串行化（一个触发事件处理完
// 再接受下一个）；Sequencer 自身不做同步。状态只有
// {未开始, 进行中 (0 < cursor < N), 结束 (cursor == N)}，且只能通过 Advance 前移。
type Sequencer struct {
	entries []domain.SequenceEntry
	cursor  int
	sink    NoMatchSink
}

func New(entries []domain.SequenceEntry, sink NoMatchSink) *Sequencer {
	return &Sequencer{entries: entries, sink: sink}
}

func (s *Sequencer) Len() int    { return len(s.entries) }
func (s *Sequencer) Cursor() int { return s.cursor }

// Entries 返回完整序列（preview 枚举用）。调用方不得修改。
func (s *Sequencer) Entries() []domain.SequenceEntry { return s.entries }

// Advance 返回下一个未消费条目并前移游标。
// 越过末尾后幂等：ok 恒为 false，游标不再变化。
func (s *Sequencer) Advance() (domain.SequenceEntry, bool) {
	if s.cursor >= len(s.entries) {
		return domain.SequenceEntry{}, false
	}
	e := s.entries[s.cursor]
	s.cursor++
	return e, true
}

// Last 返回最近一次 Advance 交出的条目；尚未推进过任何条目时 ok=false。
func (s *Sequencer) Last() (domain.SequenceEntry, bool) {
	if s.cursor == 0 {
		return domain.SequenceEntry{}, false
	}
	return s.entries[s.cursor-1], true
}

// RecordUnmatched 把条目的剪贴板文本追加进 no-match 日志。
// 仅当条目非空且游标已越过它时生效；尚未推进过任何条目时是 no-op。
// 追加本身 append-only，重复调用是安全的（由操作员决定是否重复标记）。
func (s *Sequencer) RecordUnmatched(e domain.SequenceEntry) error {
	if s.cursor == 0 {
		return nil
	}
	if e.Clipboard == "" || e.Index >= s.cursor {
		return nil
	}
	if s.sink == nil {
		return nil
	}
	return s.sink.AppendNoMatch(e.Clipboard)
}
