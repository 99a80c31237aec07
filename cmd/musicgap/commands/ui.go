package commands

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/rmls/musicgap/internal/history"
	"github.com/rmls/musicgap/internal/trainer"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00ff9f"))
	correctStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#3fb950"))
	wrongStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#f85149"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#6e7681"))
)

const trainHelp = "输入半音数 (0-12) 或音程名称；r 重听，a 显示答案，q 退出"

// renderChoices 列出当前可选的音程，已猜错或锁定的选项变暗。
func renderChoices(states []trainer.ButtonState) string {
	var b strings.Builder
	for i, st := range states {
		if st == trainer.Locked {
			continue
		}
		item := fmt.Sprintf("%2d %s", i, trainer.IntervalName(i))
		if !st.Clickable() {
			item = dimStyle.Render(item)
		}
		b.WriteString("  ")
		b.WriteString(item)
		b.WriteString("\n")
	}
	return b.String()
}

func renderFeedback(correct bool, guessed int) string {
	if correct {
		return correctStyle.Render("✔ " + trainer.IntervalName(guessed))
	}
	return wrongStyle.Render("✘ 不是 " + trainer.IntervalName(guessed))
}

func renderStats(stats []history.IntervalStat, sessions int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(fmt.Sprintf("练习次数: %d", sessions)))
	b.WriteString("\n")
	if len(stats) == 0 {
		b.WriteString(dimStyle.Render("暂无作答记录"))
		b.WriteString("\n")
		return b.String()
	}
	for _, st := range stats {
		fmt.Fprintf(&b, "%-12s %4d/%-4d %5.1f%%\n",
			trainer.IntervalName(st.Interval), st.Correct, st.Attempts, st.Accuracy()*100)
	}
	return b.String()
}
