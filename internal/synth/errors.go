package synth

import (
	"errors"
	"fmt"
)

// 引擎状态码，与 FluidSynth 的 FLUID_OK / FLUID_FAILED 一致。
const (
	StatusOK     = 0
	StatusFailed = -1
)

var (
	// ErrNotRunning 表示在 Initialize 之前（或 Shutdown 之后）调用了命令。
	ErrNotRunning = errors.New("合成器未初始化")
	// ErrAlreadyRunning 表示重复调用 Initialize。
	ErrAlreadyRunning = errors.New("合成器已在运行")
)

// EngineError 携带引擎返回的原始状态码。
type EngineError struct {
	Op   string
	Code int
}

func (e *EngineError) Error() string {
	return fmt.Sprintf("合成引擎 %s 失败 (code=%d)", e.Op, e.Code)
}

// Status 把错误映射回整型状态码：nil 为 StatusOK，EngineError 原样返回引擎状态码，
// 其余（前置条件不满足、构造失败等）为 StatusFailed。
func Status(err error) int {
	if err == nil {
		return StatusOK
	}
	var ee *EngineError
	if errors.As(err, &ee) {
		return ee.Code
	}
	return StatusFailed
}
