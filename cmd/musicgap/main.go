// Command musicgap 是终端版的音程听辨练习。
//
// Usage:
//
//	musicgap [-c config.yaml] <command> [args]
//
// Commands:
//
//	train    - 开始练习：播放两个音，输入两音之间的音程
//	play     - 依次弹奏给定的 MIDI 音
//	history  - 查看各音程的历史正确率
package main

import (
	"fmt"
	"os"

	"github.com/rmls/musicgap/cmd/musicgap/commands"
)

func main() {
	if err := commands.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
