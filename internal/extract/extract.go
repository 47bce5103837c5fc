package extract

import (
	"net/url"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// srcAttrs 是 <img> 上可能携带真实图片地址的属性（懒加载变体优先级从左到右）。
var srcAttrs = []string{"src", "data-src", "data-original", "data-lazy-src"}

var (
	imgSrcRE = regexp.MustCompile(`(?i)<img[^>]+src=['"]([^'"]+)['"]`)
	titleRE  = regexp.MustCompile(`(?is)data-cy="media-tile-image-title-[^"]*".*?<h6[^>]*>(.*?)</h6>`)
	spaceRE  = regexp.MustCompile(`\s+`)
)

// Names 从 media-library HTML 文档中提取原始名字序列（去重，保持首次出现顺序）。
//
// 优先 DOM 解析：<img>/<source> 的 src/srcset 变体取 URL 最后一个路径段作为文件名，
// 然后把 media tile 的可见标题作为次级信号补进来。DOM 解析失败或一无所获时，
// 退回更宽松的正则匹配（best-effort——流水线对提取策略不敏感）。
func Names(html string) []string {
	names, err := domNames(html)
	if err != nil || len(names) == 0 {
		return regexNames(html)
	}
	return names
}

func domNames(html string) ([]string, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, err
	}

	names := make([]string, 0, 64)
	add := func(n string) {
		n = strings.TrimSpace(n)
		if n != "" {
			names = append(names, n)
		}
	}
	addURL := func(u string) {
		if seg := lastPathSegment(u); seg != "" {
			add(seg)
		}
	}

	doc.Find("img").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range srcAttrs {
			if v, ok := s.Attr(attr); ok {
				addURL(v)
			}
		}
		if v, ok := s.Attr("srcset"); ok {
			addURL(firstSrcsetCandidate(v))
		}
	})

	doc.Find("source").Each(func(_ int, s *goquery.Selection) {
		for _, attr := range []string{"src", "srcset"} {
			if v, ok := s.Attr(attr); ok {
				addURL(firstSrcsetCandidate(v))
			}
		}
	})

	// 可见标题作为次级信号（有些 tile 的图片地址是内容哈希，标题才是人话）。
	doc.Find(`div[data-cy^="media-tile-image-title-"] h6`).Each(func(_ int, s *goquery.Selection) {
		add(strings.Join(strings.Fields(s.Text()), " "))
	})

	return dedupe(names), nil
}

// regexNames 是 DOM 解析的兜底：宽松正则抓 <img src=...> 与 tile 标题。
func regexNames(html string) []string {
	names := make([]string, 0, 64)

	for _, m := range imgSrcRE.FindAllStringSubmatch(html, -1) {
		if seg := lastPathSegment(m[1]); seg != "" {
			names = append(names, seg)
		}
	}
	for _, m := range titleRE.FindAllStringSubmatch(html, -1) {
		if t := strings.TrimSpace(spaceRE.ReplaceAllString(m[1], " ")); t != "" {
			names = append(names, t)
		}
	}
	return dedupe(names)
}

// lastPathSegment 取 URL path 的最后一段，并去掉 query/fragment 残余。
func lastPathSegment(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	p := raw
	if u, err := url.Parse(raw); err == nil && u.Path != "" {
		p = u.Path
	}
	seg := p[strings.LastIndex(p, "/")+1:]
	if i := strings.IndexAny(seg, "?#"); i >= 0 {
		seg = seg[:i]
	}
	return seg
}

// firstSrcsetCandidate 取 srcset 的第一个候选 URL（逗号分隔，去掉宽度描述符）。
// 对普通 src 值也安全：没有逗号/空格时原样返回。
func firstSrcsetCandidate(v string) string {
	first := strings.TrimSpace(strings.SplitN(v, ",", 2)[0])
	if i := strings.IndexByte(first, ' '); i >= 0 {
		first = first[:i]
	}
	return first
}

func dedupe(in []string) []string {
	seen := make(map[string]struct{}, len(in))
	out := make([]string, 0, len(in))
	for _, s := range in {
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	return out
}
