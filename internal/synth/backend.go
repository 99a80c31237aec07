package synth

// Backend 是外部合成库的构造入口。Adapter 只通过这组接口操作引擎，
// 不关心底层是 FluidSynth 还是测试替身。
type Backend interface {
	// NewSettings 创建一份空的引擎配置。
	NewSettings() (Settings, error)
	// NewSynth 基于 settings 创建合成引擎实例。
	NewSynth(settings Settings) (Engine, error)
	// NewAudioDriver 创建引擎自带的音频驱动，创建即开始输出。
	NewAudioDriver(settings Settings, engine Engine) (AudioDriver, error)
}

// Settings 是引擎配置句柄。Set* 返回引擎状态码。
type Settings interface {
	SetString(name, value string) int
	SetNum(name string, value float64) int
	SetInt(name string, value int) int
	Close()
}

// Engine 是合成引擎句柄。所有命令原样转发，返回值为引擎自身的状态码。
type Engine interface {
	// LoadSoundFont 加载音色库，成功返回非负的音色库 ID。
	LoadSoundFont(path string, resetPresets bool) int
	NoteOn(channel, key, velocity int) int
	NoteOff(channel, key int) int
	// Render 向 out 写入 len(out)/2 帧交错立体声 float32 样本。
	Render(out []float32) int
	Close()
}

// AudioDriver 是绑定到引擎的音频输出流。
type AudioDriver interface {
	Close()
}

// DriverFactory 创建绑定到引擎的音频驱动。
type DriverFactory func(settings Settings, engine Engine) (AudioDriver, error)
