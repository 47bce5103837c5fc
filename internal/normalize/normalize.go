package normalize

import (
	"regexp"
	"strings"
)

// 展示名与 group base 共用的末尾“视角/序号”词表：
// 固定的拍摄位 token（Top/Side/Angle/...）或 1-3 位数字，大小写不敏感，只在串尾匹配。
var viewTokensRE = regexp.MustCompile(`(?i)(?:Top|Straight|Macro|Side|Angle|Left|Right|Front|Back|[0-9]{1,3})$`)

var (
	extRE     = regexp.MustCompile(`\.[A-Za-z0-9]+$`)
	counterRE = regexp.MustCompile(`\(\d+\)$`)

	// OS 风格的重复文件后缀："(1)"、"- Copy"、"copy 2"，以及葡语变体 "cópia"。
	dedupParenRE = regexp.MustCompile(`(?i)\s*\(\d+\)$`)
	dedupCopyRE  = regexp.MustCompile(`(?i)[\s_-]*copy(?:\s*(?:\(\d+\)|\d+))?$`)
	dedupCopiaRE = regexp.MustCompile(`(?i)[\s_-]*c[oó]pia(?:\s*(?:\(\d+\)|\d+))?$`)

	lowerUpperRE  = regexp.MustCompile(`([a-z])([A-Z])`)
	upperRunRE    = regexp.MustCompile(`([A-Z])([A-Z][a-z])`)
	digitLetterRE = regexp.MustCompile(`([0-9])([A-Za-z])`)
	letterDigitRE = regexp.MustCompile(`([A-Za-z])([0-9])`)

	leadingOrdinalRE = regexp.MustCompile(`^\W*\d+\W*`)

	sepReplacer = strings.NewReplacer("_", " ", "-", " ")
)

// StripExt 去掉末尾的扩展名样后缀（'.' + 1 个以上字母数字），最多一次。
func StripExt(s string) string {
	return extRE.ReplaceAllString(s, "")
}

// StripCounter 去掉末尾的括号计数 "(N)"（纯数字），最多一次。
func StripCounter(s string) string {
	return strings.TrimSpace(counterRE.ReplaceAllString(s, ""))
}

// StripViews 反复剥掉末尾的视角/序号 token，每次同时去掉末尾的分隔符（空格/下划线/连字符），
// 迭代到不动点。这样 "_Top_2" 这类堆叠后缀才能剥干净。
//
// 终止性：每轮要么严格缩短字符串，要么保持不变（即到达不动点），最多 O(len) 轮。
func StripViews(s string) string {
	s = strings.TrimSpace(s)
	for {
		next := strings.TrimRight(viewTokensRE.ReplaceAllString(s, ""), " _-")
		if next == s {
			return s
		}
		s = next
	}
}

// StripDedup 只去掉 OS 风格的重复文件痕迹（"(1)"、"copy"、"cópia" 及其变体），
// 保留连字符/下划线与其余内容。这是比 Normalize 更窄的一种剥离（见 group base 推导）。
func StripDedup(s string) string {
	s = dedupParenRE.ReplaceAllString(s, "")
	s = dedupCopyRE.ReplaceAllString(s, "")
	s = dedupCopiaRE.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// SplitCamel 在大小写/数字边界插入空格（aB -> a B、ABCase -> AB Case、a1 -> a 1），
// 把下划线/连字符换成空格，并把连续空白折叠为单个空格。
func SplitCamel(s string) string {
	s = lowerUpperRE.ReplaceAllString(s, "$1 $2")
	s = upperRunRE.ReplaceAllString(s, "$1 $2")
	s = digitLetterRE.ReplaceAllString(s, "$1 $2")
	s = letterDigitRE.ReplaceAllString(s, "$1 $2")
	s = sepReplacer.Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Normalize 把原始文件名/标题转成展示名。
//
// 变换顺序固定：去扩展名 -> 去 "(N)" 计数 -> 循环剥视角后缀 -> camel 拆分
// -> 去掉前导序号（如 "03. "）。全部是纯字符串变换，任何输入都有定义的输出。
// 若结果为空，回退到 camel 拆分之前的 base。
func Normalize(raw string) string {
	base := StripViews(StripCounter(StripExt(raw)))
	disp := SplitCamel(base)
	disp = strings.TrimSpace(leadingOrdinalRE.ReplaceAllString(disp, ""))
	if disp == "" {
		return base
	}
	return disp
}
