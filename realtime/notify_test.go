package realtime

import (
	"bytes"
	"testing"
)

func TestToneNotifierWritesPCM(t *testing.T) {
	var newOrder, completion bytes.Buffer

	tone := ToneNotifier{W: &newOrder, SampleRate: 8000}
	tone.NewOrderCue()
	tone.W = &completion
	tone.CompletionCue()

	// two tones of 120ms and 160ms at 8kHz, 2 bytes per sample
	if want := 2 * (8000*120/1000 + 8000*160/1000); newOrder.Len() != want {
		t.Errorf("new-order cue wrote %d bytes, want %d", newOrder.Len(), want)
	}
	if want := 2 * (8000 * 220 / 1000); completion.Len() != want {
		t.Errorf("completion cue wrote %d bytes, want %d", completion.Len(), want)
	}
}

func TestToneNotifierNilWriter(t *testing.T) {
	// must not panic without a device
	ToneNotifier{}.NewOrderCue()
	ToneNotifier{}.CompletionCue()
}
