package realtime

import (
	"encoding/binary"
	"io"
	"log/slog"
	"math"
)

// Notifier raises out-of-band cues for incoming events. Implementations must
// be quick and must swallow their own failures.
type Notifier interface {
	NewOrderCue()
	CompletionCue()
}

// NopNotifier is the default: no cues.
type NopNotifier struct{}

func (NopNotifier) NewOrderCue()   {}
func (NopNotifier) CompletionCue() {}

// SlogNotifier logs cues, standing in for desktop notifications on headless
// surfaces.
type SlogNotifier struct{}

func (SlogNotifier) NewOrderCue()   { slog.Info("notification", "cue", "new-order") }
func (SlogNotifier) CompletionCue() { slog.Info("notification", "cue", "order-completed") }

// ToneNotifier synthesizes a short audio cue as 16-bit mono PCM and writes it
// to w (typically an audio device pipe). The new-order cue is a rising
// two-tone, the completion cue a single low tone, so staff can tell them
// apart without looking.
type ToneNotifier struct {
	W          io.Writer
	SampleRate int
}

func (t ToneNotifier) NewOrderCue() {
	t.play(880, 120)
	t.play(1175, 160)
}

func (t ToneNotifier) CompletionCue() {
	t.play(523, 220)
}

func (t ToneNotifier) play(freq float64, ms int) {
	if t.W == nil {
		return
	}
	rate := t.SampleRate
	if rate == 0 {
		rate = 22050
	}
	samples := rate * ms / 1000
	buf := make([]int16, samples)
	for i := range buf {
		v := math.Sin(2 * math.Pi * freq * float64(i) / float64(rate))
		// short linear fade-out to avoid a click at the tone boundary
		fade := 1.0 - float64(i)/float64(samples)
		buf[i] = int16(v * fade * math.MaxInt16 * 0.4)
	}
	// best-effort; an unwritable device must not affect state updates
	_ = binary.Write(t.W, binary.LittleEndian, buf)
}
