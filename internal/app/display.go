package app

import (
	"strings"

	"github.com/John-Robertt/DishPipe/internal/normalize"
)

// BuildDisplayList 把原始名字序列转成去重后的展示名列表和等长、下标对齐的 canonical key 列表。
//
// 去重用的是“宽松键”：小写 + 连续空白折叠（不是 canonical key）——
// 标点差异仍然算不同条目。首次出现者胜出，后续重复丢弃，原始顺序保持不变。
func BuildDisplayList(rawNames []string) (display []string, keys []string) {
	display = make([]string, 0, len(rawNames))
	seen := make(map[string]struct{}, len(rawNames))

	for _, raw := range rawNames {
		d := normalize.Normalize(raw)
		if _, ok := seen[fold(d)]; ok {
			continue
		}
		seen[fold(d)] = struct{}{}
		display = append(display, d)
	}

	keys = make([]string, len(display))
	for i, d := range display {
		keys[i] = normalize.CanonicalKey(d)
	}
	return display, keys
}

// fold 是展示名去重键：小写 + 空白折叠。
func fold(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}
