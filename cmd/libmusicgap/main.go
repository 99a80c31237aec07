//go:build cgo

// Command libmusicgap 把合成器以 C 共享库的形式导出，供宿主程序（如 JNI 层）调用。
//
// 构建:
//
//	go build -tags fluidsynth -buildmode=c-shared -o libmusicgap.so ./cmd/libmusicgap
//
// 所有函数返回整型状态码：0 成功，负数失败；musicgap_load_soundfont 成功时返回音色库 ID。
// 配置文件路径取自环境变量 MUSICGAP_CONFIG，未设置时使用默认配置。
package main

import "C"

import (
	"os"
	"sync"

	"github.com/rmls/musicgap/internal/config"
	"github.com/rmls/musicgap/internal/logger"
	"github.com/rmls/musicgap/internal/synth"
	"github.com/rmls/musicgap/internal/synth/fluidsynth"
)

var (
	once    sync.Once
	adapter *synth.Adapter

	newBackend = func() synth.Backend { return fluidsynth.New() }
)

// instance 返回进程内唯一的 Adapter，首次调用时按配置构造。
func instance() *synth.Adapter {
	once.Do(func() {
		cfg := config.Default()
		if path := os.Getenv("MUSICGAP_CONFIG"); path != "" {
			loaded, err := config.Load(path)
			if err != nil {
				logger.Warnf("[lib] %v，使用默认配置", err)
			} else {
				cfg = loaded
			}
		}
		if err := logger.Init(logger.Config{
			Level:      cfg.Log.Level,
			File:       cfg.Log.File,
			MaxSize:    cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAge,
		}); err != nil {
			logger.Warnf("[lib] 初始化日志失败: %v", err)
		}
		adapter = synth.NewFromConfig(newBackend(), cfg)
	})
	return adapter
}

//export musicgap_init
func musicgap_init() C.int {
	return C.int(synth.Status(instance().Initialize()))
}

//export musicgap_deinit
func musicgap_deinit() C.int {
	err := instance().Shutdown()
	logger.Sync()
	return C.int(synth.Status(err))
}

//export musicgap_load_soundfont
func musicgap_load_soundfont(path *C.char) C.int {
	if path == nil {
		return C.int(synth.StatusFailed)
	}
	return C.int(loadSoundFont(C.GoString(path)))
}

// loadSoundFont 返回音色库 ID；失败时返回值已是负的状态码。
func loadSoundFont(path string) int {
	id, _ := instance().LoadInstrumentBank(path)
	return id
}

//export musicgap_note_on
func musicgap_note_on(channel, key, velocity C.int) C.int {
	return C.int(synth.Status(instance().NoteOn(int(channel), int(key), int(velocity))))
}

//export musicgap_note_off
func musicgap_note_off(channel, key C.int) C.int {
	return C.int(synth.Status(instance().NoteOff(int(channel), int(key))))
}

//export musicgap_is_running
func musicgap_is_running() C.int {
	if instance().IsRunning() {
		return 1
	}
	return 0
}

func main() {}
