package normalize

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// 先做 NFKD 分解，再删掉 combining marks（Mn），让 "Crème" 和 "Creme" 折叠到同一个键。
var decompose = transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)))

// CanonicalKey 把展示名折叠成大小写/变音/标点不敏感的身份键：
// Unicode 分解去变音 -> 小写 -> 只保留 [a-z0-9]。
//
// 全函数：任何输入（包括空串）都产生一个（可能为空的）键；相同输入必然得到相同输出。
func CanonicalKey(s string) string {
	out, _, err := transform.String(decompose, s)
	if err != nil {
		// 变换失败（非法 UTF-8 等）：退回原串，后面的过滤仍然给出确定结果。
		out = s
	}
	out = strings.ToLower(out)

	var b strings.Builder
	b.Grow(len(out))
	for _, r := range out {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}
