package audio

import (
	"math"
)

// float32ToS16 把 [-1.0, 1.0] 的样本钳位后量化为 int16。
func float32ToS16(s float32) int16 {
	if s > 1.0 {
		s = 1.0
	} else if s < -1.0 {
		s = -1.0
	}
	return int16(s * math.MaxInt16)
}

// PutFloat32AsS16 把 float32 样本按小端 int16 写入 dst，不分配内存。
// dst 至少需要 2*len(in) 字节。
func PutFloat32AsS16(dst []byte, in []float32) {
	if len(in) == 0 {
		return
	}
	_ = dst[2*len(in)-1]
	for i, s := range in {
		v := float32ToS16(s)
		dst[2*i] = byte(v)
		dst[2*i+1] = byte(v >> 8)
	}
}

// BytesToInt16 将小端字节切片转换为 int16 样本。
func BytesToInt16(b []byte) []int16 {
	n := len(b) / 2
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		out[i] = int16(b[2*i]) | int16(b[2*i+1])<<8
	}
	return out
}
