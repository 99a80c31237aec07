// Package synth 把外部软件合成器封装成一个单实例适配器：
// 初始化/销毁引擎、加载音色库、转发 note-on / note-off。
//
// 所有发声相关的工作（复音分配、包络、混音、声卡输出）都在外部引擎中完成，
// 本包只负责资源生命周期和命令转发。
package synth

import (
	"context"
	"fmt"
	"sync"

	"github.com/rmls/musicgap/internal/logger"
)

// Adapter 独占一组合成器资源：settings、引擎、音频驱动。
// 三者要么同时存在（Running），要么同时为空（Uninitialized）。
//
// 生命周期切换持有写锁；命令持有读锁，因此多个 goroutine 可以并发发送音符，
// Shutdown 会等待正在执行的命令完成。
type Adapter struct {
	backend Backend
	opts    Options

	mu       sync.RWMutex
	state    State
	settings Settings
	engine   Engine
	driver   AudioDriver
}

// LoadResult 是异步加载音色库的结果。
type LoadResult struct {
	BankID int
	Err    error
}

// New 创建一个处于 Uninitialized 状态的 Adapter。
func New(backend Backend, opts Options) *Adapter {
	return &Adapter{
		backend: backend,
		opts:    opts,
		state:   StateUninitialized,
	}
}

// Initialize 依次创建 settings、引擎和音频驱动，进入 Running 状态。
// 任一步失败时，已创建的资源按逆序释放，Adapter 保持 Uninitialized。
func (a *Adapter) Initialize() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state == StateRunning {
		return ErrAlreadyRunning
	}

	settings, err := a.backend.NewSettings()
	if err != nil {
		return fmt.Errorf("创建引擎配置失败: %w", err)
	}
	if err := a.opts.apply(settings); err != nil {
		settings.Close()
		return err
	}

	engine, err := a.backend.NewSynth(settings)
	if err != nil {
		settings.Close()
		return fmt.Errorf("创建合成引擎失败: %w", err)
	}

	newDriver := a.opts.DriverFactory
	if newDriver == nil {
		newDriver = a.backend.NewAudioDriver
	}
	driver, err := newDriver(settings, engine)
	if err != nil {
		engine.Close()
		settings.Close()
		return fmt.Errorf("创建音频驱动失败: %w", err)
	}

	a.settings = settings
	a.engine = engine
	a.driver = driver
	a.transition(StateRunning)
	return nil
}

// Shutdown 按驱动、引擎、settings 的顺序释放资源，回到 Uninitialized 状态。
// 驱动必须先停止拉取引擎数据，引擎才能释放；引擎释放后 settings 才能释放。
func (a *Adapter) Shutdown() error {
	a.mu.Lock()
	defer a.mu.Unlock()

	if a.state != StateRunning {
		return ErrNotRunning
	}

	a.driver.Close()
	a.engine.Close()
	a.settings.Close()

	a.driver = nil
	a.engine = nil
	a.settings = nil
	a.transition(StateUninitialized)
	return nil
}

// LoadInstrumentBank 同步加载音色库文件，返回引擎分配的音色库 ID。
// 引擎返回负值时，负值原样作为第一个返回值，同时返回 *EngineError。
// 路径不做校验，直接交给引擎；解析文件期间会阻塞调用方。
func (a *Adapter) LoadInstrumentBank(path string) (int, error) {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.state != StateRunning {
		return StatusFailed, fmt.Errorf("加载音色库 %s: %w", path, ErrNotRunning)
	}

	id := a.engine.LoadSoundFont(path, true)
	if id < 0 {
		logger.Warnf("[synth] 加载音色库失败: %s (code=%d)", path, id)
		return id, &EngineError{Op: "sfload", Code: id}
	}
	logger.Infof("[synth] 已加载音色库 %s (id=%d)", path, id)
	return id, nil
}

// LoadInstrumentBankAsync 在后台 goroutine 中加载音色库，结果通过 channel 只投递一次。
// ctx 先结束时投递 ctx.Err()；引擎内部的加载仍会执行完毕。
func (a *Adapter) LoadInstrumentBankAsync(ctx context.Context, path string) <-chan LoadResult {
	out := make(chan LoadResult, 1)
	done := make(chan LoadResult, 1)

	go func() {
		id, err := a.LoadInstrumentBank(path)
		done <- LoadResult{BankID: id, Err: err}
	}()

	go func() {
		select {
		case r := <-done:
			out <- r
		case <-ctx.Done():
			out <- LoadResult{BankID: StatusFailed, Err: ctx.Err()}
		}
	}()

	return out
}

// NoteOn 转发 note-on。channel/key/velocity 不做范围检查，由引擎决定是否接受。
func (a *Adapter) NoteOn(channel, key, velocity int) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.state != StateRunning {
		return ErrNotRunning
	}
	if code := a.engine.NoteOn(channel, key, velocity); code != StatusOK {
		return &EngineError{Op: "noteon", Code: code}
	}
	return nil
}

// NoteOff 转发 note-off，与 NoteOn 一样不做范围检查。
func (a *Adapter) NoteOff(channel, key int) error {
	a.mu.RLock()
	defer a.mu.RUnlock()

	if a.state != StateRunning {
		return ErrNotRunning
	}
	if code := a.engine.NoteOff(channel, key); code != StatusOK {
		return &EngineError{Op: "noteoff", Code: code}
	}
	return nil
}

// IsRunning 报告 Adapter 是否处于 Running 状态。
func (a *Adapter) IsRunning() bool {
	return a.State() == StateRunning
}

// State 返回当前生命周期状态。
func (a *Adapter) State() State {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.state
}

// transition 切换状态，调用方必须持有写锁。
func (a *Adapter) transition(to State) {
	from := a.state
	a.state = to
	logger.Infof("[synth] %s → %s", from, to)
}
