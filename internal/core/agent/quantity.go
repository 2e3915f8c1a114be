package agent

import (
	"regexp"
	"strconv"
	"strings"
)

// leadingNumberPattern 開頭的數字（可含小數點或分數線），其後為單位
var leadingNumberPattern = regexp.MustCompile(`(?s)^([0-9./]+)\s*(.*)$`)

// ParseQuantity 將 "1/2 cup" 之類的文字拆成數量與單位，永不失敗。
// 只支援單一 a/b 分數，"1 1/2" 這類帶分數不處理。
func ParseQuantity(raw string) Quantity {
	text := strings.TrimSpace(raw)
	if text == "" {
		return Quantity{}
	}

	m := leadingNumberPattern.FindStringSubmatch(text)
	if m == nil {
		return Quantity{Unit: &text}
	}

	var q Quantity
	if amount, ok := parseAmount(m[1]); ok {
		q.Amount = &amount
	}
	if unit := strings.TrimSpace(m[2]); unit != "" {
		q.Unit = &unit
	}
	return q
}

func parseAmount(token string) (float64, bool) {
	switch strings.Count(token, "/") {
	case 0:
		v, err := strconv.ParseFloat(token, 64)
		return v, err == nil
	case 1:
		parts := strings.SplitN(token, "/", 2)
		num, err := strconv.ParseFloat(parts[0], 64)
		if err != nil {
			return 0, false
		}
		den, err := strconv.ParseFloat(parts[1], 64)
		if err != nil || den == 0 {
			return 0, false
		}
		return num / den, true
	default:
		return 0, false
	}
}
