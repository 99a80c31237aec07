package synth

import (
	"fmt"
	"sort"

	"github.com/rmls/musicgap/internal/audio"
	"github.com/rmls/musicgap/internal/config"
)

// Options 是 Initialize 时写入引擎 settings 的配置，零值表示使用引擎默认值。
type Options struct {
	SampleRate  float64
	Gain        float64
	Polyphony   int
	AudioDriver string            // 引擎自带驱动的名字，写入 audio.driver
	Extra       map[string]any    // 其余设置，按键名排序后按值类型写入

	// DriverFactory 为空时使用 Backend.NewAudioDriver。
	DriverFactory DriverFactory
}

// OptionsFromConfig 根据配置构造 Options，audio.driver 为 malgo 时改用 miniaudio 输出。
func OptionsFromConfig(cfg *config.Config) Options {
	opts := Options{
		SampleRate: cfg.Synth.SampleRate,
		Gain:       cfg.Synth.Gain,
		Polyphony:  cfg.Synth.Polyphony,
		Extra:      cfg.Synth.Settings,
	}

	switch cfg.Audio.Driver {
	case "malgo":
		opts.DriverFactory = MalgoDriver(audio.OutputConfig{
			SampleRate: int(cfg.Synth.SampleRate),
			PeriodSize: cfg.Audio.PeriodSize,
			Periods:    cfg.Audio.Periods,
		})
	default:
		opts.AudioDriver = cfg.Audio.NativeDriver
	}
	return opts
}

// NewFromConfig 是 New(backend, OptionsFromConfig(cfg)) 的简写。
func NewFromConfig(backend Backend, cfg *config.Config) *Adapter {
	return New(backend, OptionsFromConfig(cfg))
}

// MalgoDriver 返回一个使用 malgo 播放设备的驱动工厂：
// 设备回调直接从引擎渲染音频，不使用引擎自带的音频驱动。
func MalgoDriver(cfg audio.OutputConfig) DriverFactory {
	return func(_ Settings, engine Engine) (AudioDriver, error) {
		out, err := audio.NewOutput(engine, cfg)
		if err != nil {
			return nil, err
		}
		return out, nil
	}
}

func (o Options) apply(s Settings) error {
	if o.SampleRate > 0 {
		if code := s.SetNum("synth.sample-rate", o.SampleRate); code != StatusOK {
			return &EngineError{Op: "settings synth.sample-rate", Code: code}
		}
	}
	if o.Gain > 0 {
		if code := s.SetNum("synth.gain", o.Gain); code != StatusOK {
			return &EngineError{Op: "settings synth.gain", Code: code}
		}
	}
	if o.Polyphony > 0 {
		if code := s.SetInt("synth.polyphony", o.Polyphony); code != StatusOK {
			return &EngineError{Op: "settings synth.polyphony", Code: code}
		}
	}
	if o.AudioDriver != "" {
		if code := s.SetString("audio.driver", o.AudioDriver); code != StatusOK {
			return &EngineError{Op: "settings audio.driver", Code: code}
		}
	}

	keys := make([]string, 0, len(o.Extra))
	for k := range o.Extra {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		code, err := setValue(s, k, o.Extra[k])
		if err != nil {
			return err
		}
		if code != StatusOK {
			return &EngineError{Op: "settings " + k, Code: code}
		}
	}
	return nil
}

// setValue 按值类型选择 setter：FluidSynth 的开关类设置（如 synth.reverb.active）是整型，
// 用 SetString 写入会失败。bool 写成 0/1。
func setValue(s Settings, name string, value any) (int, error) {
	switch v := value.(type) {
	case string:
		return s.SetString(name, v), nil
	case int:
		return s.SetInt(name, v), nil
	case float64:
		return s.SetNum(name, v), nil
	case bool:
		if v {
			return s.SetInt(name, 1), nil
		}
		return s.SetInt(name, 0), nil
	default:
		return StatusFailed, fmt.Errorf("设置 %s 的值类型 %T 不受支持", name, value)
	}
}
