//go:build cgo

package main

import (
	"errors"
	"sync"
	"testing"

	"github.com/rmls/musicgap/internal/synth"
)

type testBackend struct {
	failSettings error
}

func (b *testBackend) NewSettings() (synth.Settings, error) {
	if b.failSettings != nil {
		return nil, b.failSettings
	}
	return testSettings{}, nil
}

func (b *testBackend) NewSynth(synth.Settings) (synth.Engine, error) { return testEngine{}, nil }

func (b *testBackend) NewAudioDriver(synth.Settings, synth.Engine) (synth.AudioDriver, error) {
	return testDriver{}, nil
}

type testSettings struct{}

func (testSettings) SetString(string, string) int { return synth.StatusOK }
func (testSettings) SetNum(string, float64) int   { return synth.StatusOK }
func (testSettings) SetInt(string, int) int       { return synth.StatusOK }
func (testSettings) Close()                       {}

type testEngine struct{}

func (testEngine) LoadSoundFont(path string, _ bool) int {
	if path == "test.sf2" {
		return 1
	}
	return synth.StatusFailed
}
func (testEngine) NoteOn(int, int, int) int { return synth.StatusOK }
func (testEngine) NoteOff(int, int) int     { return synth.StatusOK }
func (testEngine) Render([]float32) int     { return synth.StatusOK }
func (testEngine) Close()                   {}

type testDriver struct{}

func (testDriver) Close() {}

// useBackend 重置进程内的 Adapter，使下一次调用用 b 重新构造。
func useBackend(t *testing.T, b synth.Backend) {
	t.Helper()
	t.Setenv("MUSICGAP_CONFIG", "")
	prev := newBackend
	reset := func() {
		once = sync.Once{}
		adapter = nil
	}
	reset()
	newBackend = func() synth.Backend { return b }
	t.Cleanup(func() {
		if adapter != nil {
			_ = adapter.Shutdown()
		}
		newBackend = prev
		reset()
	})
}

func TestExports_BeforeInit(t *testing.T) {
	useBackend(t, &testBackend{})

	tests := []struct {
		name string
		got  int
		want int
	}{
		{"is_running", int(musicgap_is_running()), 0},
		{"note_on", int(musicgap_note_on(0, 60, 100)), synth.StatusFailed},
		{"note_off", int(musicgap_note_off(0, 60)), synth.StatusFailed},
		{"load_soundfont", loadSoundFont("test.sf2"), synth.StatusFailed},
		{"load_soundfont nil", int(musicgap_load_soundfont(nil)), synth.StatusFailed},
		{"deinit", int(musicgap_deinit()), synth.StatusFailed},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s: got %d, want %d", tt.name, tt.got, tt.want)
		}
	}
}

func TestExports_Scenario(t *testing.T) {
	useBackend(t, &testBackend{})

	for cycle := 0; cycle < 2; cycle++ {
		if got := int(musicgap_init()); got != synth.StatusOK {
			t.Fatalf("cycle %d: init got %d", cycle, got)
		}
		if got := int(musicgap_init()); got != synth.StatusFailed {
			t.Errorf("cycle %d: second init got %d, want %d", cycle, got, synth.StatusFailed)
		}
		if got := int(musicgap_is_running()); got != 1 {
			t.Errorf("cycle %d: is_running got %d", cycle, got)
		}
		if id := loadSoundFont("test.sf2"); id < 0 {
			t.Errorf("cycle %d: load test.sf2 got %d", cycle, id)
		}
		if id := loadSoundFont("missing.sf2"); id >= 0 {
			t.Errorf("cycle %d: load missing.sf2 got %d, want negative", cycle, id)
		}
		if got := int(musicgap_load_soundfont(nil)); got != synth.StatusFailed {
			t.Errorf("cycle %d: load nil got %d", cycle, got)
		}
		if got := int(musicgap_note_on(0, 60, 127)); got != synth.StatusOK {
			t.Errorf("cycle %d: note_on got %d", cycle, got)
		}
		if got := int(musicgap_note_off(0, 60)); got != synth.StatusOK {
			t.Errorf("cycle %d: note_off got %d", cycle, got)
		}
		if got := int(musicgap_deinit()); got != synth.StatusOK {
			t.Errorf("cycle %d: deinit got %d", cycle, got)
		}
		if got := int(musicgap_is_running()); got != 0 {
			t.Errorf("cycle %d: is_running after deinit got %d", cycle, got)
		}
	}
}

func TestExports_InitFailure(t *testing.T) {
	useBackend(t, &testBackend{failSettings: errors.New("no engine")})

	if got := int(musicgap_init()); got != synth.StatusFailed {
		t.Errorf("init got %d, want %d", got, synth.StatusFailed)
	}
	if got := int(musicgap_is_running()); got != 0 {
		t.Errorf("is_running got %d", got)
	}
}
