package service

import (
	"fmt"
	"strings"
	"unicode"
)

const slugFallback = "post"

// slugify 将标题转换为 URL slug:小写、去特殊符号、空白折叠为连字符。
// 空结果回退为固定前缀,保证 slug 永远非空。
func slugify(title string) string {
	var b strings.Builder
	lastHyphen := true // 抑制前导连字符
	for _, r := range strings.ToLower(strings.TrimSpace(title)) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			b.WriteRune(r)
			lastHyphen = false
		case strings.ContainsRune("*+~.()'\"!:@", r):
			// 直接丢弃,不产生分隔
		case unicode.IsSpace(r) || r == '-' || r == '_':
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		default:
			// 其余符号同样作为分隔处理
			if !lastHyphen {
				b.WriteByte('-')
				lastHyphen = true
			}
		}
	}

	slug := strings.Trim(b.String(), "-")
	if slug == "" {
		return slugFallback
	}
	return slug
}

// nextSlugCandidate 生成第 n 个冲突候选:base, base-1, base-2 ...
func nextSlugCandidate(base string, n int) string {
	if n == 0 {
		return base
	}
	return fmt.Sprintf("%s-%d", base, n)
}
