// Package fluidsynth 通过 cgo 绑定 libfluidsynth，实现 synth.Backend。
//
// 需要以 -tags fluidsynth 构建并开启 cgo，且能通过 pkg-config 找到 fluidsynth；
// 否则编译为占位实现，所有构造都返回 ErrUnavailable。
package fluidsynth

import "errors"

// ErrUnavailable 表示当前构建没有链接 libfluidsynth。
var ErrUnavailable = errors.New("fluidsynth 不可用: 请使用 -tags fluidsynth 并开启 cgo 重新构建")
