package synth

// State 表示 Adapter 的生命周期状态。
type State int

const (
	// StateUninitialized — 三个资源都不存在（初始状态，或 Shutdown 之后）。
	StateUninitialized State = iota
	// StateRunning — 三个资源都已创建，音频驱动正在输出。
	StateRunning
)

var stateNames = [...]string{
	"Uninitialized",
	"Running",
}

func (s State) String() string {
	if s >= 0 && int(s) < len(stateNames) {
		return stateNames[s]
	}
	return "Unknown"
}
