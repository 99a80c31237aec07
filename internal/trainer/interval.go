// Package trainer 实现音程听辨练习：随机生成两个先后弹奏的音（dyad），
// 由用户判断两音之间的音程，并统计答对次数。
package trainer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// MaxInterval 是可判断的最大音程（八度，12 个半音）。
const MaxInterval = 12

// ErrUnknownInterval 表示无法识别的音程输入。
var ErrUnknownInterval = errors.New("无法识别的音程")

// intervalNames 按半音数索引。
var intervalNames = [MaxInterval + 1]string{
	"unison",
	"minor 2nd",
	"major 2nd",
	"minor 3rd",
	"major 3rd",
	"perfect 4th",
	"tritone",
	"perfect 5th",
	"minor 6th",
	"major 6th",
	"minor 7th",
	"major 7th",
	"octave",
}

// IntervalNames 返回 0..12 半音对应的音程名称。
func IntervalNames() []string {
	return append([]string(nil), intervalNames[:]...)
}

// IntervalName 返回音程名称，负数按绝对值处理，超过八度返回 "unknown"。
func IntervalName(semitones int) string {
	if semitones < 0 {
		semitones = -semitones
	}
	if semitones > MaxInterval {
		return "unknown"
	}
	return intervalNames[semitones]
}

// ParseInterval 解析用户输入：半音数（0-12）或音程名称（不区分大小写）。
func ParseInterval(text string) (int, error) {
	text = strings.ToLower(strings.TrimSpace(text))
	if n, err := strconv.Atoi(text); err == nil {
		if n < 0 || n > MaxInterval {
			return 0, fmt.Errorf("%w: %d 超出 0-%d", ErrUnknownInterval, n, MaxInterval)
		}
		return n, nil
	}
	for i, name := range intervalNames {
		if text == name {
			return i, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownInterval, text)
}
