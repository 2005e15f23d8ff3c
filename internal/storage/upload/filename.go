package upload

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/unicode/norm"
)

var unsafeChars = regexp.MustCompile(`[^A-Za-z0-9_.-]`)

// Windows 保留设备名
var reservedNames = map[string]struct{}{
	"CON": {}, "PRN": {}, "AUX": {}, "NUL": {},
	"COM1": {}, "COM2": {}, "COM3": {}, "COM4": {}, "COM5": {}, "COM6": {}, "COM7": {}, "COM8": {}, "COM9": {},
	"LPT1": {}, "LPT2": {}, "LPT3": {}, "LPT4": {}, "LPT5": {}, "LPT6": {}, "LPT7": {}, "LPT8": {}, "LPT9": {},
}

// Extension 取最后一个 "." 之后的扩展名（小写）；无 "." 返回 ""
func Extension(name string) string {
	i := strings.LastIndexByte(name, '.')
	if i < 0 {
		return ""
	}
	return strings.ToLower(name[i+1:])
}

// SecureFilename 去掉路径与非安全字符，只保留 ASCII 字母数字和 "_.-"。
// 结果可能为空串。
func SecureFilename(name string) string {
	// NFKD 分解后丢弃非 ASCII
	decomposed := norm.NFKD.String(name)
	var b strings.Builder
	for _, r := range decomposed {
		if r < utf8.RuneSelf {
			b.WriteRune(r)
		}
	}
	s := b.String()

	s = strings.ReplaceAll(s, "/", " ")
	s = strings.ReplaceAll(s, "\\", " ")
	s = strings.Join(strings.Fields(s), "_")
	s = unsafeChars.ReplaceAllString(s, "")
	s = strings.Trim(s, "._")

	base := strings.ToUpper(strings.SplitN(s, ".", 2)[0])
	if _, bad := reservedNames[base]; bad {
		s = "_" + s
	}
	return s
}
