package trainer

import (
	"errors"
	"fmt"
	"math/rand"
	"sync"
)

// ErrNotClickable 表示该音程本轮已经猜过或被锁定。
var ErrNotClickable = errors.New("该音程当前不可选择")

// ButtonState 是每个音程选项在当前这一轮的状态。
type ButtonState int

const (
	// NotGuessed — 本轮还没猜过，可以选择。
	NotGuessed ButtonState = iota
	// Guessed — 本轮已猜错过，直到答对前不可再选。
	Guessed
	// Locked — 始终不可选择（例如练习范围外的音程）。
	Locked
)

var buttonStateNames = [...]string{"NotGuessed", "Guessed", "Locked"}

func (s ButtonState) String() string {
	if s >= 0 && int(s) < len(buttonStateNames) {
		return buttonStateNames[s]
	}
	return "Unknown"
}

// Clickable 报告该状态下是否允许选择。
func (s ButtonState) Clickable() bool {
	return s == NotGuessed
}

// cleared 返回进入新一轮时的状态：Guessed 复位，Locked 保持。
func (s ButtonState) cleared() ButtonState {
	if s == Guessed {
		return NotGuessed
	}
	return s
}

// Recorder 接收每一次作答，用于持久化练习历史。
type Recorder interface {
	RecordGuess(d Dyad, guessed int, correct bool) error
}

// Config 是一次练习的参数。
type Config struct {
	LowestNote  int
	HighestNote int
	Intervals   []int
}

// Session 保存一次练习的状态。并发安全。
type Session struct {
	cfg      Config
	rng      *rand.Rand
	recorder Recorder

	mu      sync.Mutex
	current Dyad
	correct int
	total   int
	buttons []ButtonState
}

// NewSession 创建练习并生成第一题。
// 候选音程里没有出现的音程（按绝对值）会被锁定；超过八度的候选音程无法作答，直接报错。
func NewSession(cfg Config, rng *rand.Rand, recorder Recorder) (*Session, error) {
	for _, iv := range cfg.Intervals {
		if abs(iv) > MaxInterval {
			return nil, fmt.Errorf("%w: 候选音程 %d 超出 ±%d", ErrUnknownInterval, iv, MaxInterval)
		}
	}
	d, err := GenerateDyad(rng, cfg.LowestNote, cfg.HighestNote, cfg.Intervals)
	if err != nil {
		return nil, err
	}

	buttons := make([]ButtonState, MaxInterval+1)
	for i := range buttons {
		buttons[i] = Locked
	}
	for _, iv := range cfg.Intervals {
		buttons[abs(iv)] = NotGuessed
	}

	return &Session{
		cfg:      cfg,
		rng:      rng,
		recorder: recorder,
		current:  d,
		buttons:  buttons,
	}, nil
}

// Current 返回当前题目。
func (s *Session) Current() Dyad {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Score 返回答对次数和总作答次数。
func (s *Session) Score() (correct, total int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.correct, s.total
}

// ButtonStates 返回各音程选项状态的副本。
func (s *Session) ButtonStates() []ButtonState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]ButtonState(nil), s.buttons...)
}

// Guess 提交一次作答。答对时生成下一题并复位选项状态；答错时把该选项标记为 Guessed。
// 无论对错，总次数都会加一。Recorder 出错只返回错误，不回滚本次作答。
func (s *Session) Guess(interval int) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if interval < 0 || interval > MaxInterval {
		return false, fmt.Errorf("%w: %d", ErrUnknownInterval, interval)
	}
	if !s.buttons[interval].Clickable() {
		return false, fmt.Errorf("%w: %s", ErrNotClickable, IntervalName(interval))
	}

	asked := s.current
	correct := interval == asked.Interval()
	if correct {
		next, err := GenerateDyad(s.rng, s.cfg.LowestNote, s.cfg.HighestNote, s.cfg.Intervals)
		if err != nil {
			return false, err
		}
		s.correct++
		s.current = next
		for i := range s.buttons {
			s.buttons[i] = s.buttons[i].cleared()
		}
	} else {
		s.buttons[interval] = Guessed
	}
	s.total++

	if s.recorder != nil {
		if err := s.recorder.RecordGuess(asked, interval, correct); err != nil {
			return correct, fmt.Errorf("记录作答失败: %w", err)
		}
	}
	return correct, nil
}

// DisplayText 返回包含答案的状态文本：音程名, A-B (带符号音程) 答对/总数。
func (s *Session) DisplayText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	d := s.current
	return fmt.Sprintf("%s, %d-%d (%d) %d/%d",
		IntervalName(d.Interval()), d.A, d.B, d.SignedInterval(), s.correct, s.total)
}

// PromptText 返回不泄露答案的状态文本。
func (s *Session) PromptText() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fmt.Sprintf("%d/%d", s.correct, s.total)
}
