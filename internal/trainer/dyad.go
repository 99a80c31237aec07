package trainer

import (
	"errors"
	"fmt"
	"math/rand"
)

// ErrNoCandidateIntervals 表示音域内放不下任何候选音程。
var ErrNoCandidateIntervals = errors.New("音域内没有可用的候选音程")

// Dyad 是先后弹奏的两个 MIDI 音：先 A 后 B。
type Dyad struct {
	A, B int
}

// SignedInterval 返回 B-A，正数为上行，负数为下行。
func (d Dyad) SignedInterval() int {
	return d.B - d.A
}

// Interval 返回两音之间的半音数（绝对值）。
func (d Dyad) Interval() int {
	if iv := d.SignedInterval(); iv < 0 {
		return -iv
	}
	return d.SignedInterval()
}

// GenerateDyad 在 [lowest, highest] 内随机生成一个 dyad。
// 先从 |c| <= highest-lowest 的候选音程中等概率选一个，
// 再在保证两个音都落在音域内的范围里等概率选出 A。
func GenerateDyad(rng *rand.Rand, lowest, highest int, candidates []int) (Dyad, error) {
	span := highest - lowest

	valid := make([]int, 0, len(candidates))
	for _, c := range candidates {
		if abs(c) <= span {
			valid = append(valid, c)
		}
	}
	if len(valid) == 0 {
		return Dyad{}, fmt.Errorf("%w: [%d, %d]", ErrNoCandidateIntervals, lowest, highest)
	}

	iv := valid[rng.Intn(len(valid))]

	lowA := lowest - min(0, iv)
	highA := highest - max(0, iv)
	a := lowA + rng.Intn(highA-lowA+1)

	return Dyad{A: a, B: a + iv}, nil
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
