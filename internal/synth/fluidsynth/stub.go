//go:build !fluidsynth || !cgo

package fluidsynth

import "github.com/rmls/musicgap/internal/synth"

// Available 报告当前构建是否链接了 libfluidsynth。
func Available() bool { return false }

// Backend 是未链接 libfluidsynth 时的占位实现，所有构造都返回 ErrUnavailable。
type Backend struct{}

// New 返回占位后端。
func New() *Backend { return &Backend{} }

// NewSettings 实现 synth.Backend。
func (Backend) NewSettings() (synth.Settings, error) { return nil, ErrUnavailable }

// NewSynth 实现 synth.Backend。
func (Backend) NewSynth(synth.Settings) (synth.Engine, error) { return nil, ErrUnavailable }

// NewAudioDriver 实现 synth.Backend。
func (Backend) NewAudioDriver(synth.Settings, synth.Engine) (synth.AudioDriver, error) {
	return nil, ErrUnavailable
}
