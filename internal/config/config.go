package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// maxInterval 是可作答的最大音程（一个八度），与 trainer.MaxInterval 一致。
const maxInterval = 12

// Config 是 musicgap 的顶层配置结构。
type Config struct {
	Synth   SynthConfig   `yaml:"synth"`
	Audio   AudioConfig   `yaml:"audio"`
	Trainer TrainerConfig `yaml:"trainer"`
	Log     LogConfig     `yaml:"log"`

	// DataDir 存放安装后的音色库和练习历史数据库。
	DataDir string `yaml:"data_dir"`
}

// SynthConfig 合成引擎配置，对应 FluidSynth 的 settings。
type SynthConfig struct {
	SoundFont  string  `yaml:"sound_font"`
	Gain       float64 `yaml:"gain"`
	Polyphony  int     `yaml:"polyphony"`
	SampleRate float64 `yaml:"sample_rate"`

	// Settings 额外的引擎设置，按 YAML 值类型写入：字符串、整数、浮点数或 bool（写成 0/1），
	// 如 audio.oboe.performance-mode: LowLatency、synth.reverb.active: 0。
	Settings map[string]any `yaml:"settings"`
}

// AudioConfig 音频输出配置。
type AudioConfig struct {
	// Driver 选择音频驱动: native（引擎自带驱动）或 malgo（miniaudio 拉取渲染）。
	Driver string `yaml:"driver"`
	// NativeDriver 仅 native 模式下生效，写入 audio.driver，如 pulseaudio、alsa、coreaudio。
	NativeDriver string `yaml:"native_driver"`
	PeriodSize   int    `yaml:"period_size"`
	Periods      int    `yaml:"periods"`
}

// TrainerConfig 音程练习配置。
type TrainerConfig struct {
	LowestNote     int   `yaml:"lowest_note"`
	HighestNote    int   `yaml:"highest_note"`
	Intervals      []int `yaml:"intervals"`
	Velocity       int   `yaml:"velocity"`
	Channel        int   `yaml:"channel"`
	NoteDurationMs int   `yaml:"note_duration_ms"`
}

// LogConfig 日志配置。
type LogConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"`
	MaxSize    int    `yaml:"max_size"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAge     int    `yaml:"max_age"`
}

// Load 读取 YAML 配置文件并返回 Config。
// 支持 ${VAR_NAME} 形式的环境变量展开。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("读取配置文件 %s 失败: %w", path, err)
	}

	expanded := os.Expand(string(data), func(key string) string {
		return os.Getenv(key)
	})

	cfg := &Config{}
	if err := yaml.Unmarshal([]byte(expanded), cfg); err != nil {
		return nil, fmt.Errorf("解析配置文件 %s 失败: %w", path, err)
	}

	setDefaults(cfg)
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("配置文件 %s 无效: %w", path, err)
	}
	return cfg, nil
}

// LoadOrDefault 与 Load 相同，但文件不存在时返回默认配置。
func LoadOrDefault(path string) (*Config, error) {
	cfg, err := Load(path)
	if errors.Is(err, fs.ErrNotExist) {
		return Default(), nil
	}
	return cfg, err
}

// Default 返回全部使用默认值的配置。
func Default() *Config {
	cfg := &Config{}
	setDefaults(cfg)
	return cfg
}

// Validate 检查会导致运行期错误的配置组合。
func (c *Config) Validate() error {
	switch c.Audio.Driver {
	case "native", "malgo":
	default:
		return fmt.Errorf("不支持的音频驱动: %s", c.Audio.Driver)
	}
	if c.Trainer.LowestNote < 0 || c.Trainer.HighestNote > 127 || c.Trainer.LowestNote > c.Trainer.HighestNote {
		return fmt.Errorf("音域 [%d, %d] 无效", c.Trainer.LowestNote, c.Trainer.HighestNote)
	}
	for _, iv := range c.Trainer.Intervals {
		if iv < -maxInterval || iv > maxInterval {
			return fmt.Errorf("候选音程 %d 超出 ±%d", iv, maxInterval)
		}
	}
	return nil
}

// HistoryPath 返回练习历史数据库路径。
func (c *Config) HistoryPath() string {
	return filepath.Join(c.DataDir, "history.db")
}

// setDefaults 为未设置的配置项填充默认值。
func setDefaults(cfg *Config) {
	if cfg.Synth.Gain == 0 {
		cfg.Synth.Gain = 0.6
	}
	if cfg.Synth.Polyphony == 0 {
		cfg.Synth.Polyphony = 64
	}
	if cfg.Synth.SampleRate == 0 {
		cfg.Synth.SampleRate = 44100
	}
	if cfg.Audio.Driver == "" {
		cfg.Audio.Driver = "native"
	}
	if cfg.Audio.PeriodSize == 0 {
		cfg.Audio.PeriodSize = 256
	}
	if cfg.Audio.Periods == 0 {
		cfg.Audio.Periods = 2
	}
	// 钢琴 88 键: A0 (21) 到 C8 (108)
	if cfg.Trainer.LowestNote == 0 && cfg.Trainer.HighestNote == 0 {
		cfg.Trainer.LowestNote = 21
		cfg.Trainer.HighestNote = 108
	}
	if len(cfg.Trainer.Intervals) == 0 {
		for i := -12; i <= 12; i++ {
			cfg.Trainer.Intervals = append(cfg.Trainer.Intervals, i)
		}
	}
	if cfg.Trainer.Velocity == 0 {
		cfg.Trainer.Velocity = 127
	}
	if cfg.Trainer.NoteDurationMs == 0 {
		cfg.Trainer.NoteDurationMs = 400
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}

	if cfg.DataDir == "" {
		home, _ := os.UserHomeDir()
		if home != "" {
			cfg.DataDir = filepath.Join(home, ".musicgap")
		} else {
			cfg.DataDir = "./.musicgap-data"
		}
	} else if strings.HasPrefix(cfg.DataDir, "~/") {
		// Go 不会自动展开 ~
		home, _ := os.UserHomeDir()
		if home != "" {
			cfg.DataDir = home + cfg.DataDir[1:]
		}
	}

	cfg.Synth.SoundFont = strings.TrimSpace(cfg.Synth.SoundFont)
}
