//go:build fluidsynth && cgo

package fluidsynth

import (
	"os"
	"testing"

	"github.com/rmls/musicgap/internal/synth"
)

// newOfflineAdapter 用空驱动代替声卡输出。
func newOfflineAdapter() *synth.Adapter {
	return synth.New(New(), synth.Options{
		DriverFactory: func(synth.Settings, synth.Engine) (synth.AudioDriver, error) {
			return nopDriver{}, nil
		},
	})
}

type nopDriver struct{}

func (nopDriver) Close() {}

func TestFluidSynth_Lifecycle(t *testing.T) {
	a := newOfflineAdapter()
	for i := 0; i < 3; i++ {
		if err := a.Initialize(); err != nil {
			t.Fatalf("cycle %d: Initialize failed: %v", i, err)
		}
		if err := a.Shutdown(); err != nil {
			t.Fatalf("cycle %d: Shutdown failed: %v", i, err)
		}
	}
}

func TestFluidSynth_LoadMissingSoundFont(t *testing.T) {
	a := newOfflineAdapter()
	if err := a.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer a.Shutdown()

	id, err := a.LoadInstrumentBank("/nonexistent/bank.sf2")
	if err == nil || id >= 0 {
		t.Fatalf("expected negative id, got (%d, %v)", id, err)
	}
}

func TestFluidSynth_NoteScenario(t *testing.T) {
	sf2 := os.Getenv("MUSICGAP_TEST_SF2")
	if sf2 == "" {
		t.Skip("MUSICGAP_TEST_SF2 not set")
	}

	a := newOfflineAdapter()
	if err := a.Initialize(); err != nil {
		t.Fatalf("Initialize failed: %v", err)
	}
	defer a.Shutdown()

	if id, err := a.LoadInstrumentBank(sf2); err != nil || id < 0 {
		t.Fatalf("LoadInstrumentBank: got (%d, %v)", id, err)
	}
	if err := a.NoteOn(0, 60, 127); err != nil {
		t.Fatalf("NoteOn failed: %v", err)
	}
	if err := a.NoteOff(0, 60); err != nil {
		t.Fatalf("NoteOff failed: %v", err)
	}
}
