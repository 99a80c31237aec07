package synth

import (
	"errors"
	"fmt"
	"sync"
)

// fakeBackend 记录资源的创建与释放顺序，可注入各步骤的失败。
type fakeBackend struct {
	mu     sync.Mutex
	events []string
	live   map[string]int

	failSettings error
	failSynth    error
	failDriver   error
	failSetting  string // 该设置项返回 StatusFailed

	// banks 记录文件名到音色库 ID 的映射；不存在的路径返回 StatusFailed。
	banks      map[string]int
	loadGate   chan struct{}
	noteCode   int
	lastEngine *fakeEngine
}

func newFakeBackend() *fakeBackend {
	return &fakeBackend{
		live:  make(map[string]int),
		banks: map[string]int{"test.sf2": 1},
	}
}

func (b *fakeBackend) record(ev string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.events = append(b.events, ev)
}

func (b *fakeBackend) adjust(kind string, delta int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.live[kind] += delta
}

func (b *fakeBackend) Events() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.events...)
}

func (b *fakeBackend) Live(kind string) int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.live[kind]
}

func (b *fakeBackend) NewSettings() (Settings, error) {
	if b.failSettings != nil {
		return nil, b.failSettings
	}
	b.record("new settings")
	b.adjust("settings", 1)
	return &fakeSettings{b: b, values: make(map[string]string)}, nil
}

func (b *fakeBackend) NewSynth(s Settings) (Engine, error) {
	if b.failSynth != nil {
		return nil, b.failSynth
	}
	if _, ok := s.(*fakeSettings); !ok {
		return nil, errors.New("foreign settings")
	}
	b.record("new synth")
	b.adjust("synth", 1)
	e := &fakeEngine{b: b}
	b.lastEngine = e
	return e, nil
}

func (b *fakeBackend) NewAudioDriver(s Settings, e Engine) (AudioDriver, error) {
	if b.failDriver != nil {
		return nil, b.failDriver
	}
	b.record("new driver")
	b.adjust("driver", 1)
	return &fakeDriver{b: b}, nil
}

type fakeSettings struct {
	b      *fakeBackend
	values map[string]string
}

// set 记录为 "setstr|setnum|setint name=value"，便于断言使用了哪个 setter。
func (s *fakeSettings) set(kind, name, value string) int {
	if name == s.b.failSetting {
		return StatusFailed
	}
	s.values[name] = value
	s.b.record(kind + " " + name + "=" + value)
	return StatusOK
}

func (s *fakeSettings) SetString(name, value string) int { return s.set("setstr", name, value) }

func (s *fakeSettings) SetNum(name string, value float64) int {
	return s.set("setnum", name, fmt.Sprintf("%g", value))
}

func (s *fakeSettings) SetInt(name string, value int) int {
	return s.set("setint", name, fmt.Sprintf("%d", value))
}

func (s *fakeSettings) Close() {
	s.b.record("delete settings")
	s.b.adjust("settings", -1)
}

type fakeEngine struct {
	b *fakeBackend

	mu    sync.Mutex
	notes []string
}

func (e *fakeEngine) LoadSoundFont(path string, resetPresets bool) int {
	if e.b.loadGate != nil {
		<-e.b.loadGate
	}
	if id, ok := e.b.banks[path]; ok {
		return id
	}
	return StatusFailed
}

func (e *fakeEngine) NoteOn(channel, key, velocity int) int {
	e.mu.Lock()
	e.notes = append(e.notes, fmt.Sprintf("on %d %d %d", channel, key, velocity))
	e.mu.Unlock()
	return e.b.noteCode
}

func (e *fakeEngine) NoteOff(channel, key int) int {
	e.mu.Lock()
	e.notes = append(e.notes, fmt.Sprintf("off %d %d", channel, key))
	e.mu.Unlock()
	return e.b.noteCode
}

func (e *fakeEngine) Render(out []float32) int {
	for i := range out {
		out[i] = 0
	}
	return StatusOK
}

func (e *fakeEngine) Close() {
	e.b.record("delete synth")
	e.b.adjust("synth", -1)
}

type fakeDriver struct {
	b *fakeBackend
}

func (d *fakeDriver) Close() {
	d.b.record("delete driver")
	d.b.adjust("driver", -1)
}
