package domain

// SequenceEntry 是 Sequencer 输出的最小单元：
// Display 给操作员输入到目标系统，Clipboard 装进剪贴板用于对照匹配。
//
// 不变量：Index 等于展示列表中的下标（首次出现顺序），一次 run 内不可变。
type SequenceEntry struct {
	Index     int
	Display   string
	Clipboard string
}
