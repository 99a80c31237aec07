package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmls/musicgap/internal/assets"
	"github.com/rmls/musicgap/internal/config"
	"github.com/rmls/musicgap/internal/logger"
	"github.com/rmls/musicgap/internal/synth"
	"github.com/rmls/musicgap/internal/synth/fluidsynth"
)

// soundFontLoadTimeout 限制加载音色库的等待时间，大音色库在树莓派上可能需要数秒。
const soundFontLoadTimeout = 30 * time.Second

var (
	configPath string
	cfg        *config.Config
)

var rootCmd = &cobra.Command{
	Use:           "musicgap",
	Short:         "音程听辨练习",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cmd.Flags().Changed("config") {
			cfg, err = config.Load(configPath)
		} else {
			cfg, err = config.LoadOrDefault(configPath)
		}
		if err != nil {
			return err
		}
		return logger.Init(logger.Config{
			Level:      cfg.Log.Level,
			File:       cfg.Log.File,
			MaxSize:    cfg.Log.MaxSize,
			MaxBackups: cfg.Log.MaxBackups,
			MaxAge:     cfg.Log.MaxAge,
		})
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "configs/musicgap.yaml", "配置文件路径")
	rootCmd.AddCommand(trainCmd, playCmd, historyCmd)
}

// Execute 运行根命令。
func Execute() error {
	return rootCmd.Execute()
}

// startSynth 安装音色库、启动合成器并加载音色库。
// 返回的 Adapter 处于 Running 状态，调用方负责 Shutdown。
func startSynth(ctx context.Context, backend synth.Backend) (*synth.Adapter, error) {
	if cfg.Synth.SoundFont == "" {
		return nil, errors.New("未配置音色库 (synth.sound_font)")
	}
	sf2, err := assets.Install(cfg.Synth.SoundFont, cfg.DataDir)
	if err != nil {
		return nil, err
	}

	adapter := synth.NewFromConfig(backend, cfg)
	if err := adapter.Initialize(); err != nil {
		return nil, fmt.Errorf("启动合成器失败: %w", err)
	}

	loadCtx, cancel := context.WithTimeout(ctx, soundFontLoadTimeout)
	defer cancel()
	res := <-adapter.LoadInstrumentBankAsync(loadCtx, sf2)
	if res.Err != nil {
		_ = adapter.Shutdown()
		return nil, fmt.Errorf("加载音色库失败: %w", res.Err)
	}
	return adapter, nil
}

// defaultBackend 返回当前构建可用的合成器后端。
func defaultBackend() synth.Backend {
	if !fluidsynth.Available() {
		logger.Warnf("[main] 当前构建未链接 libfluidsynth，请使用 -tags fluidsynth 构建")
	}
	return fluidsynth.New()
}
