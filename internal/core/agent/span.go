package agent

import "strings"

// SpanFinder 在訊息中尋找大括號包住的物件文字
type SpanFinder interface {
	FindSpan(message string) (string, bool)
}

// GreedySpanFinder 從第一個 { 取到最後一個 }。
// 訊息內若有多段 JSON 或內文中的大括號會一併吃進來，屬已知限制。
type GreedySpanFinder struct{}

// FindSpan 實作 SpanFinder
func (GreedySpanFinder) FindSpan(message string) (string, bool) {
	start := strings.Index(message, "{")
	end := strings.LastIndex(message, "}")
	if start == -1 || end == -1 || end < start {
		return "", false
	}
	return message[start : end+1], true
}

// BalancedSpanFinder 回傳第一個括號平衡的物件，會略過字串常值中的括號
type BalancedSpanFinder struct{}

// FindSpan 實作 SpanFinder
func (BalancedSpanFinder) FindSpan(message string) (string, bool) {
	for start := strings.Index(message, "{"); start != -1; {
		if end, ok := matchBrace(message, start); ok {
			return message[start : end+1], true
		}
		next := strings.Index(message[start+1:], "{")
		if next == -1 {
			break
		}
		start += next + 1
	}
	return "", false
}

// matchBrace 由 start 位置的 { 找對應的 }
func matchBrace(s string, start int) (int, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, true
			}
		}
	}
	return 0, false
}
