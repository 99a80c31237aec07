//go:build fluidsynth && cgo

package fluidsynth

/*
#cgo pkg-config: fluidsynth
#include <stdlib.h>
#include <fluidsynth.h>
*/
import "C"

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/rmls/musicgap/internal/synth"
)

// Available 报告当前构建是否链接了 libfluidsynth。
func Available() bool { return true }

// Backend 使用 libfluidsynth 创建引擎资源。
type Backend struct{}

// New 返回 FluidSynth 后端。
func New() *Backend { return &Backend{} }

// NewSettings 实现 synth.Backend。
func (Backend) NewSettings() (synth.Settings, error) {
	ptr := C.new_fluid_settings()
	if ptr == nil {
		return nil, errors.New("new_fluid_settings 返回空指针")
	}
	return &settings{ptr: ptr}, nil
}

// NewSynth 实现 synth.Backend。
func (Backend) NewSynth(s synth.Settings) (synth.Engine, error) {
	fs, err := unwrapSettings(s)
	if err != nil {
		return nil, err
	}
	ptr := C.new_fluid_synth(fs.ptr)
	if ptr == nil {
		return nil, errors.New("new_fluid_synth 返回空指针")
	}
	return &engine{ptr: ptr}, nil
}

// NewAudioDriver 实现 synth.Backend。驱动创建后立即开始在自己的线程上拉取音频。
func (Backend) NewAudioDriver(s synth.Settings, e synth.Engine) (synth.AudioDriver, error) {
	fs, err := unwrapSettings(s)
	if err != nil {
		return nil, err
	}
	fe, ok := e.(*engine)
	if !ok {
		return nil, fmt.Errorf("不支持的引擎类型 %T", e)
	}
	ptr := C.new_fluid_audio_driver(fs.ptr, fe.ptr)
	if ptr == nil {
		return nil, errors.New("new_fluid_audio_driver 返回空指针")
	}
	return &driver{ptr: ptr}, nil
}

func unwrapSettings(s synth.Settings) (*settings, error) {
	fs, ok := s.(*settings)
	if !ok {
		return nil, fmt.Errorf("不支持的 settings 类型 %T", s)
	}
	return fs, nil
}

type settings struct {
	ptr *C.fluid_settings_t
}

func (s *settings) SetString(name, value string) int {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	cvalue := C.CString(value)
	defer C.free(unsafe.Pointer(cvalue))
	return int(C.fluid_settings_setstr(s.ptr, cname, cvalue))
}

func (s *settings) SetNum(name string, value float64) int {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return int(C.fluid_settings_setnum(s.ptr, cname, C.double(value)))
}

func (s *settings) SetInt(name string, value int) int {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return int(C.fluid_settings_setint(s.ptr, cname, C.int(value)))
}

func (s *settings) Close() {
	if s.ptr != nil {
		C.delete_fluid_settings(s.ptr)
		s.ptr = nil
	}
}

type engine struct {
	ptr *C.fluid_synth_t
}

func (e *engine) LoadSoundFont(path string, resetPresets bool) int {
	cpath := C.CString(path)
	defer C.free(unsafe.Pointer(cpath))
	reset := C.int(0)
	if resetPresets {
		reset = 1
	}
	return int(C.fluid_synth_sfload(e.ptr, cpath, reset))
}

func (e *engine) NoteOn(channel, key, velocity int) int {
	return int(C.fluid_synth_noteon(e.ptr, C.int(channel), C.int(key), C.int(velocity)))
}

func (e *engine) NoteOff(channel, key int) int {
	return int(C.fluid_synth_noteoff(e.ptr, C.int(channel), C.int(key)))
}

// Render 把 len(out)/2 帧交错立体声写入 out：左声道偶数下标，右声道奇数下标。
func (e *engine) Render(out []float32) int {
	frames := len(out) / 2
	if frames == 0 {
		return synth.StatusOK
	}
	buf := unsafe.Pointer(&out[0])
	return int(C.fluid_synth_write_float(e.ptr, C.int(frames), buf, 0, 2, buf, 1, 2))
}

func (e *engine) Close() {
	if e.ptr != nil {
		C.delete_fluid_synth(e.ptr)
		e.ptr = nil
	}
}

type driver struct {
	ptr *C.fluid_audio_driver_t
}

func (d *driver) Close() {
	if d.ptr != nil {
		C.delete_fluid_audio_driver(d.ptr)
		d.ptr = nil
	}
}
