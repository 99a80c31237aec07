package commands

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/rmls/musicgap/internal/config"
	"github.com/rmls/musicgap/internal/history"
	"github.com/rmls/musicgap/internal/synth"
)

// stubBackend 是一个总是成功的合成器后端。
type stubBackend struct{}

func (stubBackend) NewSettings() (synth.Settings, error) { return stubSettings{}, nil }

func (stubBackend) NewSynth(synth.Settings) (synth.Engine, error) { return stubEngine{}, nil }

func (stubBackend) NewAudioDriver(synth.Settings, synth.Engine) (synth.AudioDriver, error) {
	return stubDriver{}, nil
}

type stubSettings struct{}

func (stubSettings) SetString(string, string) int { return synth.StatusOK }
func (stubSettings) SetNum(string, float64) int   { return synth.StatusOK }
func (stubSettings) SetInt(string, int) int       { return synth.StatusOK }
func (stubSettings) Close()                       {}

type stubEngine struct{}

func (stubEngine) LoadSoundFont(string, bool) int { return 1 }
func (stubEngine) NoteOn(int, int, int) int       { return synth.StatusOK }
func (stubEngine) NoteOff(int, int) int           { return synth.StatusOK }
func (stubEngine) Render([]float32) int           { return synth.StatusOK }
func (stubEngine) Close()                         {}

type stubDriver struct{}

func (stubDriver) Close() {}

// useTestConfig 把包级 cfg 替换为指向临时数据目录的配置，测试结束后恢复。
func useTestConfig(t *testing.T, soundFont string) *config.Config {
	t.Helper()
	prev := cfg
	t.Cleanup(func() { cfg = prev })

	c := config.Default()
	c.DataDir = t.TempDir()
	c.Synth.SoundFont = soundFont
	c.Trainer.NoteDurationMs = 1
	cfg = c
	return c
}

func sessionCount(t *testing.T, path string) int {
	t.Helper()
	store, err := history.Open(path)
	if err != nil {
		t.Fatalf("history.Open failed: %v", err)
	}
	defer store.Close()
	n, err := store.SessionCount()
	if err != nil {
		t.Fatalf("SessionCount failed: %v", err)
	}
	return n
}

func TestRunTrain_SynthFailureLeavesNoSession(t *testing.T) {
	c := useTestConfig(t, filepath.Join(t.TempDir(), "missing.sf2"))

	err := runTrain(context.Background(), stubBackend{}, strings.NewReader("q\n"), io.Discard)
	if err == nil {
		t.Fatal("expected error when the sound font is missing")
	}
	if n := sessionCount(t, c.HistoryPath()); n != 0 {
		t.Errorf("failed start should not record a session, got %d", n)
	}
}

func TestRunTrain_RecordsSession(t *testing.T) {
	sf2 := filepath.Join(t.TempDir(), "piano.sf2")
	if err := os.WriteFile(sf2, []byte("RIFF....sfbk"), 0644); err != nil {
		t.Fatalf("failed to write sound font: %v", err)
	}
	c := useTestConfig(t, sf2)

	if err := runTrain(context.Background(), stubBackend{}, strings.NewReader("q\n"), io.Discard); err != nil {
		t.Fatalf("runTrain failed: %v", err)
	}
	if n := sessionCount(t, c.HistoryPath()); n != 1 {
		t.Errorf("expected 1 session, got %d", n)
	}
}
