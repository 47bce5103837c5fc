package app

import (
	"strings"

	"github.com/John-Robertt/DishPipe/internal/normalize"
)

// DeriveGroupBases 把原始名字按 canonical key 分桶，并为每个桶挑一个代表 stem
// 作为该逻辑条目的机器标识（剪贴板文本）。
//
// 与 Normalize 的区别（刻意保留的不对称，不要统一）：这里只剥扩展名、
// OS 重复文件痕迹和末尾视角 token，不做 camel 拆分，连字符/下划线也原样保留
// ——频次统计发生在字面形式上，统一两种剥离会改变平局时的胜者。
//
// 胜者选择：出现次数最高优先；次数相同取更短的；长度也相同取字典序最小的
// （保证对同一多重集合，无论输入顺序如何，结果映射都相同）。
func DeriveGroupBases(rawNames []string) map[string]string {
	counts := make(map[string]map[string]int)

	for _, raw := range rawNames {
		base0 := normalize.StripDedup(normalize.StripExt(strings.TrimSpace(raw)))
		gb := normalize.StripViews(base0)
		k := normalize.CanonicalKey(gb)
		if k == "" {
			continue
		}
		bucket := counts[k]
		if bucket == nil {
			bucket = make(map[string]int, 4)
			counts[k] = bucket
		}
		bucket[gb]++
	}

	best := make(map[string]string, len(counts))
	for k, bucket := range counts {
		var (
			win   string
			winN  int
			first = true
		)
		for gb, n := range bucket {
			if first || betterBase(gb, n, win, winN) {
				win, winN = gb, n
				first = false
			}
		}
		best[k] = win
	}
	return best
}

// betterBase 判断 (gb, n) 是否应该取代当前胜者 (win, winN)。
func betterBase(gb string, n int, win string, winN int) bool {
	if n != winN {
		return n > winN
	}
	if len(gb) != len(win) {
		return len(gb) < len(win)
	}
	return gb < win
}
