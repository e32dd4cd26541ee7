package feed

import (
	"testing"

	"github.com/go-audio/audio"

	"github.com/SarahRoseLives/hacktv/internal/rational"
)

func TestTimeAlignerWorkedExample(t *testing.T) {
	// frameRate=1, sourceTicksPerSecond=1 means PTS values already are
	// frame-tick counts, letting raw ticks drive Align directly.
	a := NewTimeAligner(rational.New(1, 1), rational.New(1, 1))

	type step struct {
		pts         int64
		wantAction  Action
		wantRepeats int64
	}
	steps := []step{
		{0, ActionEmit, 0},
		{1, ActionEmit, 0},
		{2, ActionEmit, 0},
		{2, ActionDrop, 0}, // duplicate tick, dropped
		{4, ActionEmit, 1}, // gap at tick 3 filled with one repeat
	}
	for i, s := range steps {
		act, repeats := a.Align(s.pts)
		if act != s.wantAction || repeats != s.wantRepeats {
			t.Fatalf("step %d: Align(%d) = (%v, %d), want (%v, %d)", i, s.pts, act, repeats, s.wantAction, s.wantRepeats)
		}
	}
}

func TestPacketQueueBasics(t *testing.T) {
	q := NewPacketQueue(1024)
	if err := q.Write(Packet{PTS: 0, Data: []byte{1, 2, 3}}); err != nil {
		t.Fatal(err)
	}
	if err := q.Write(Packet{PTS: 1, Data: []byte{4, 5}}); err != nil {
		t.Fatal(err)
	}
	if got := q.Len(); got != 5 {
		t.Fatalf("Len() = %d, want 5", got)
	}
	p, ok, err := q.Read()
	if err != nil || !ok {
		t.Fatalf("Read() = (%v, %v, %v)", p, ok, err)
	}
	if p.PTS != 0 {
		t.Fatalf("first packet PTS = %d, want 0", p.PTS)
	}

	q.CloseEOF()
	if _, ok, err := q.Read(); err != nil || !ok {
		t.Fatalf("second Read() after EOF with data pending = (%v, %v)", ok, err)
	}
	if _, ok, err := q.Read(); err != nil || ok {
		t.Fatalf("drained Read() after EOF = (%v, %v), want (false, nil)", ok, err)
	}
}

func TestPacketQueueNonMonotonicPTS(t *testing.T) {
	q := NewPacketQueue(1024)
	if err := q.Write(Packet{PTS: 10, Data: []byte{1}}); err != nil {
		t.Fatal(err)
	}
	if err := q.Write(Packet{PTS: 5, Data: []byte{2}}); err == nil {
		t.Fatal("expected non-monotonic PTS write to fail")
	}
}

func TestResamplerStagePassThroughAtTargetRate(t *testing.T) {
	r := &resamplerStage{toRate: 32000}
	in := &audio.FloatBuffer{Format: AudioFormat(32000, 2), Data: make([]float64, 256)}
	if out := r.convert(in); out != in {
		t.Fatal("matching rates should pass the buffer through unchanged")
	}
}

func TestResamplerStageConvertsRate(t *testing.T) {
	r := &resamplerStage{toRate: 32000}
	n := 480 // one 10ms stereo block at 48kHz
	in := &audio.FloatBuffer{Format: AudioFormat(48000, 2), Data: make([]float64, n*2)}
	out := r.convert(in)
	if out.Format.SampleRate != 32000 {
		t.Fatalf("output rate = %d, want 32000", out.Format.SampleRate)
	}
	got := len(out.Data) / 2
	want := n * 32000 / 48000
	if got < want-8 || got > want+8 {
		t.Fatalf("got %d output samples per channel, want ~%d", got, want)
	}
}

func TestFrameBufferBackpressure(t *testing.T) {
	b := NewFrameBuffer[int]()
	done := make(chan struct{})
	go func() {
		if !b.PutNew(1) {
			t.Error("PutNew(1) failed")
		}
		if !b.PutNew(2) {
			t.Error("PutNew(2) failed")
		}
		close(done)
	}()

	v, state, ok := b.TakeFront()
	if !ok || v != 1 || state != ReadyNew {
		t.Fatalf("TakeFront() = (%d, %v, %v), want (1, ReadyNew, true)", v, state, ok)
	}
	v, state, ok = b.TakeFront()
	if !ok || v != 2 || state != ReadyNew {
		t.Fatalf("TakeFront() = (%d, %v, %v), want (2, ReadyNew, true)", v, state, ok)
	}
	<-done
}
