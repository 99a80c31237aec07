package trainer

import (
	"context"
	"time"
)

// NotePlayer 是播放所需的最小接口，*synth.Adapter 满足它。
type NotePlayer interface {
	NoteOn(channel, key, velocity int) error
	NoteOff(channel, key int) error
}

// PlayDyad 先弹 A，持续 duration 后松开，再弹 B，持续 duration 后松开。
// ctx 取消时松开正在发声的音并返回 ctx.Err()。
func PlayDyad(ctx context.Context, p NotePlayer, channel, velocity int, d Dyad, duration time.Duration) error {
	return PlayNotes(ctx, p, channel, velocity, []int{d.A, d.B}, duration)
}

// PlayNotes 依次弹奏 keys，每个音持续 duration。
func PlayNotes(ctx context.Context, p NotePlayer, channel, velocity int, keys []int, duration time.Duration) error {
	for _, key := range keys {
		if err := playNote(ctx, p, channel, key, velocity, duration); err != nil {
			return err
		}
	}
	return nil
}

func playNote(ctx context.Context, p NotePlayer, channel, key, velocity int, duration time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := p.NoteOn(channel, key, velocity); err != nil {
		return err
	}

	timer := time.NewTimer(duration)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		_ = p.NoteOff(channel, key)
		return ctx.Err()
	case <-timer.C:
	}
	return p.NoteOff(channel, key)
}
