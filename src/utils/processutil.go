package utils

import (
	"regexp"
	"strings"
	"time"
)

const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)

func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}

// ExcelSerialToTime 将Excel日期序列号转换为时间
//
// 1900日期系统把不存在的1900-02-29算作第60天, 小于60的序列号相对1899-12-30需要加一天
func ExcelSerialToTime(serial float64, date1904 bool) time.Time {
	base := time.Date(1899, 12, 30, 0, 0, 0, 0, time.UTC)
	if date1904 {
		base = time.Date(1904, 1, 1, 0, 0, 0, 0, time.UTC)
	} else if serial < 60 {
		base = base.AddDate(0, 0, 1)
	}

	days := int(serial)
	fraction := serial - float64(days)

	// 按秒取整, 表格中存储的是一天的小数部分
	return base.AddDate(0, 0, days).
		Add(time.Duration(86400*fraction*1e9) * time.Nanosecond).
		Round(time.Second)
}

// FormatTime 日期无时间部分时只输出日期
func FormatTime(t time.Time) string {
	if t.Hour() == 0 && t.Minute() == 0 && t.Second() == 0 {
		return t.Format(DateLayout)
	}
	return t.Format(DateTimeLayout)
}

// ParseTime 解析FormatTime生成的文本
func ParseTime(s string) (time.Time, bool) {
	for _, layout := range []string{DateTimeLayout, DateLayout} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

var (
	// 引号内文本和方括号内的颜色/条件
	numFmtLiteral = regexp.MustCompile(`"[^"]*"|\[[^\]]*\]|\\.`)
	numFmtDate    = regexp.MustCompile(`[dmyhs]`)
)

// IsDateFormat 判断数字格式是否显示为日期或时间
func IsDateFormat(numFmt string) bool {
	f := strings.ToLower(numFmt)
	if f == "" || f == "general" || f == "@" {
		return false
	}
	f = numFmtLiteral.ReplaceAllString(f, "")
	return numFmtDate.MatchString(f)
}
