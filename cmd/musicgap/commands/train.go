package commands

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"os"
	"os/signal"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rmls/musicgap/internal/history"
	"github.com/rmls/musicgap/internal/logger"
	"github.com/rmls/musicgap/internal/synth"
	"github.com/rmls/musicgap/internal/trainer"
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "开始音程听辨练习",
	Long: `开始音程听辨练习。

每一题先后弹奏两个音，输入两音之间的音程（半音数或名称）。
答错时重放同一题，答对后进入下一题。作答记录保存在数据目录的 history.db 中。`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()
		return runTrain(ctx, defaultBackend(), cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

// runTrain 先启动合成器，成功后才打开历史记录并创建练习，
// 合成器启动失败不会留下空的练习记录。
func runTrain(ctx context.Context, backend synth.Backend, in io.Reader, out io.Writer) error {
	adapter, err := startSynth(ctx, backend)
	if err != nil {
		return err
	}
	defer adapter.Shutdown()

	store, err := history.Open(cfg.HistoryPath())
	if err != nil {
		return err
	}
	defer store.Close()

	sessionID, err := store.StartSession(cfg.Trainer.LowestNote, cfg.Trainer.HighestNote)
	if err != nil {
		return err
	}

	session, err := trainer.NewSession(trainer.Config{
		LowestNote:  cfg.Trainer.LowestNote,
		HighestNote: cfg.Trainer.HighestNote,
		Intervals:   cfg.Trainer.Intervals,
	}, rand.New(rand.NewSource(time.Now().UnixNano())), store.Recorder(sessionID))
	if err != nil {
		return err
	}

	logger.Infof("[train] 练习开始 (session=%s)", sessionID)
	err = runTrainLoop(ctx, in, out, adapter, session, playbackOptions{
		channel:  cfg.Trainer.Channel,
		velocity: cfg.Trainer.Velocity,
		duration: time.Duration(cfg.Trainer.NoteDurationMs) * time.Millisecond,
	})
	correct, total := session.Score()
	logger.Infof("[train] 练习结束 %d/%d", correct, total)
	return err
}

type playbackOptions struct {
	channel  int
	velocity int
	duration time.Duration
}

// playback 保证同一时刻只有一个 dyad 在播放：新的播放会先取消并等待上一个。
type playback struct {
	player trainer.NotePlayer
	opts   playbackOptions

	mu     sync.Mutex
	cancel context.CancelFunc
	done   chan struct{}
}

func (p *playback) play(ctx context.Context, d trainer.Dyad) {
	p.stop()

	pctx, cancel := context.WithCancel(ctx)
	done := make(chan struct{})

	p.mu.Lock()
	p.cancel = cancel
	p.done = done
	p.mu.Unlock()

	go func() {
		defer close(done)
		err := trainer.PlayDyad(pctx, p.player, p.opts.channel, p.opts.velocity, d, p.opts.duration)
		if err != nil && !errors.Is(err, context.Canceled) {
			logger.Warnf("[train] 播放失败: %v", err)
		}
	}()
}

func (p *playback) stop() {
	p.mu.Lock()
	cancel, done := p.cancel, p.done
	p.cancel, p.done = nil, nil
	p.mu.Unlock()

	if cancel != nil {
		cancel()
		<-done
	}
}

// runTrainLoop 读取用户输入直到 q、输入结束或 ctx 取消。
func runTrainLoop(ctx context.Context, in io.Reader, out io.Writer, player trainer.NotePlayer, s *trainer.Session, opts playbackOptions) error {
	lines := make(chan string)
	go func() {
		defer close(lines)
		scanner := bufio.NewScanner(in)
		for scanner.Scan() {
			select {
			case lines <- scanner.Text():
			case <-ctx.Done():
				return
			}
		}
	}()

	pb := &playback{player: player, opts: opts}
	defer pb.stop()

	fmt.Fprintln(out, titleStyle.Render("musicgap"))
	fmt.Fprintln(out, dimStyle.Render(trainHelp))
	fmt.Fprint(out, renderChoices(s.ButtonStates()))
	pb.play(ctx, s.Current())

	for {
		fmt.Fprintf(out, "[%s] > ", s.PromptText())

		var line string
		select {
		case <-ctx.Done():
			fmt.Fprintln(out)
			return nil
		case l, ok := <-lines:
			if !ok {
				fmt.Fprintln(out)
				return nil
			}
			line = strings.TrimSpace(l)
		}

		switch strings.ToLower(line) {
		case "":
			continue
		case "q", "quit":
			return nil
		case "r":
			pb.play(ctx, s.Current())
			continue
		case "a":
			fmt.Fprintln(out, dimStyle.Render(s.DisplayText()))
			continue
		}

		guess, err := trainer.ParseInterval(line)
		if err != nil {
			fmt.Fprintln(out, wrongStyle.Render(err.Error()))
			continue
		}
		correct, err := s.Guess(guess)
		switch {
		case errors.Is(err, trainer.ErrNotClickable):
			fmt.Fprintln(out, dimStyle.Render(err.Error()))
			continue
		case errors.Is(err, trainer.ErrUnknownInterval):
			fmt.Fprintln(out, wrongStyle.Render(err.Error()))
			continue
		case err != nil:
			logger.Warnf("[train] %v", err)
		}

		fmt.Fprintln(out, renderFeedback(correct, guess))
		if correct {
			fmt.Fprint(out, renderChoices(s.ButtonStates()))
		}
		pb.play(ctx, s.Current())
	}
}
