package audio

import (
	"fmt"
	"sync"

	"github.com/gen2brain/malgo"

	"github.com/rmls/musicgap/internal/logger"
)

// outputChannels 固定为立体声，与 Renderer 的交错格式一致。
const outputChannels = 2

// Renderer 按需生成交错立体声 float32 样本。
// Render 写满 out（len(out)/2 帧），返回 0 表示成功。
type Renderer interface {
	Render(out []float32) int
}

// OutputConfig 播放设备配置。
type OutputConfig struct {
	SampleRate int
	PeriodSize int // 每个周期的帧数
	Periods    int
}

// Output 使用 malgo (miniaudio) 打开默认扬声器，并在设备回调里从 Renderer 拉取音频。
// 回调运行在 miniaudio 的实时线程上。
type Output struct {
	ctx    *malgo.AllocatedContext
	device *malgo.Device

	// scratch 只在设备回调中使用
	scratch []float32

	mu     sync.Mutex
	closed bool
}

// NewOutput 创建并启动播放设备。
func NewOutput(r Renderer, cfg OutputConfig) (*Output, error) {
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = 44100
	}
	if cfg.PeriodSize <= 0 {
		cfg.PeriodSize = 256
	}
	if cfg.Periods <= 0 {
		cfg.Periods = 2
	}

	ctxConfig := malgo.ContextConfig{}
	ctxConfig.ThreadPriority = malgo.ThreadPriorityRealtime
	ctx, err := malgo.InitContext(nil, ctxConfig, nil)
	if err != nil {
		return nil, fmt.Errorf("初始化播放上下文失败: %w", err)
	}

	o := &Output{
		ctx:     ctx,
		scratch: make([]float32, cfg.PeriodSize*outputChannels),
	}

	deviceConfig := malgo.DefaultDeviceConfig(malgo.Playback)
	deviceConfig.Playback.Format = malgo.FormatS16
	deviceConfig.Playback.Channels = outputChannels
	deviceConfig.SampleRate = uint32(cfg.SampleRate)
	deviceConfig.PeriodSizeInFrames = uint32(cfg.PeriodSize)
	deviceConfig.Periods = uint32(cfg.Periods)

	callbacks := malgo.DeviceCallbacks{
		Data: func(outputSamples, _ []byte, frameCount uint32) {
			o.fill(r, outputSamples, int(frameCount))
		},
	}

	device, err := malgo.InitDevice(ctx.Context, deviceConfig, callbacks)
	if err != nil {
		o.freeContext()
		return nil, fmt.Errorf("初始化播放设备失败: %w", err)
	}
	if err := device.Start(); err != nil {
		device.Uninit()
		o.freeContext()
		return nil, fmt.Errorf("启动播放设备失败: %w", err)
	}
	o.device = device

	logger.Infof("[audio] 播放设备已启动 (rate=%d, period=%d×%d)", cfg.SampleRate, cfg.PeriodSize, cfg.Periods)
	return o, nil
}

// fill 渲染 frames 帧写入设备缓冲区；渲染失败时输出静音。
func (o *Output) fill(r Renderer, dst []byte, frames int) {
	n := frames * outputChannels
	if cap(o.scratch) < n {
		o.scratch = make([]float32, n)
	}
	buf := o.scratch[:n]

	if r.Render(buf) != 0 {
		for i := range dst[:n*2] {
			dst[i] = 0
		}
		return
	}
	PutFloat32AsS16(dst, buf)
}

// Close 停止设备并释放所有资源，可重复调用。
func (o *Output) Close() {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.closed {
		return
	}
	o.closed = true

	if o.device != nil {
		_ = o.device.Stop()
		o.device.Uninit()
		o.device = nil
	}
	o.freeContext()
	logger.Info("[audio] 播放设备已关闭")
}

func (o *Output) freeContext() {
	if o.ctx != nil {
		_ = o.ctx.Uninit()
		o.ctx.Free()
		o.ctx = nil
	}
}
