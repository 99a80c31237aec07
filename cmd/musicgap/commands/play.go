package commands

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmls/musicgap/internal/trainer"
)

var (
	playDuration time.Duration
	playVelocity int
	playChannel  int
)

var playCmd = &cobra.Command{
	Use:   "play <key>...",
	Short: "依次弹奏给定的 MIDI 音",
	Example: `  musicgap play 60 64 67
  musicgap play --duration 1s --velocity 90 48 60`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys := make([]int, 0, len(args))
		for _, arg := range args {
			key, err := strconv.Atoi(arg)
			if err != nil || key < 0 || key > 127 {
				return fmt.Errorf("无效的 MIDI 音: %q", arg)
			}
			keys = append(keys, key)
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		adapter, err := startSynth(ctx, defaultBackend())
		if err != nil {
			return err
		}
		defer adapter.Shutdown()

		velocity := playVelocity
		if !cmd.Flags().Changed("velocity") {
			velocity = cfg.Trainer.Velocity
		}
		duration := playDuration
		if !cmd.Flags().Changed("duration") {
			duration = time.Duration(cfg.Trainer.NoteDurationMs) * time.Millisecond
		}

		err = trainer.PlayNotes(ctx, adapter, playChannel, velocity, keys, duration)
		if ctx.Err() != nil {
			return nil
		}
		return err
	},
}

func init() {
	playCmd.Flags().DurationVarP(&playDuration, "duration", "d", 400*time.Millisecond, "每个音的时长")
	playCmd.Flags().IntVarP(&playVelocity, "velocity", "v", 127, "力度 (0-127)")
	playCmd.Flags().IntVar(&playChannel, "channel", 0, "MIDI 通道")
}
