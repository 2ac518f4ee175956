package serviceutils

import (
	"mime"
	"net/url"
	"strings"
)

// ContentDisposition builds an attachment header with an ASCII fallback name and
// an RFC 5987 encoded name for non-ASCII file names.
func ContentDisposition(fileName string) string {
	if isASCII(fileName) {
		return mime.FormatMediaType("attachment", map[string]string{"filename": fileName})
	}
	fallback := strings.Map(func(r rune) rune {
		if r > 0x7e || r < 0x20 || r == '"' || r == '\\' {
			return '_'
		}
		return r
	}, fileName)
	return `attachment; filename="` + fallback + `"; filename*=UTF-8''` + url.PathEscape(fileName)
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] > 0x7e || s[i] < 0x20 {
			return false
		}
	}
	return true
}
