package subtitle

import (
	"strings"
	"testing"
	"time"
)

func TestParseSRT(t *testing.T) {
	const src = "1\n" +
		"00:00:01,000 --> 00:00:02,500\n" +
		"First cue\n" +
		"\n" +
		"2\n" +
		"00:01:00,250 --> 00:01:03,000\n" +
		"Second cue\n" +
		"over two rows\n" +
		"\n"

	l, err := ParseSRT(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if text, ok := l.Active(1500 * time.Millisecond); !ok || text != "First cue" {
		t.Fatalf("Active(1.5s) = (%q, %v), want (First cue, true)", text, ok)
	}
	if text, ok := l.Active(time.Minute + time.Second); !ok || text != "Second cue\nover two rows" {
		t.Fatalf("Active(1m1s) = (%q, %v)", text, ok)
	}
}

func TestParseSRTSkipsMalformedBlock(t *testing.T) {
	const src = "1\n" +
		"not a timestamp line\n" +
		"orphan text\n" +
		"\n" +
		"2\n" +
		"00:00:05,000 --> 00:00:06,000\n" +
		"Good\n"

	l, err := ParseSRT(strings.NewReader(src))
	if err != nil {
		t.Fatal(err)
	}
	if text, ok := l.Active(5500 * time.Millisecond); !ok || text != "Good" {
		t.Fatalf("Active(5.5s) = (%q, %v), want (Good, true)", text, ok)
	}
	if _, ok := l.Active(7 * time.Second); ok {
		t.Fatal("malformed block should not have produced a cue")
	}
}

func TestParseTimestamp(t *testing.T) {
	cases := []struct {
		in   string
		want time.Duration
		ok   bool
	}{
		{"00:00:01,000", time.Second, true},
		{"01:02:03,456", time.Hour + 2*time.Minute + 3*time.Second + 456*time.Millisecond, true},
		{"00:00:01.250", 1250 * time.Millisecond, true},
		{"nonsense", 0, false},
	}
	for _, c := range cases {
		got, ok := parseTimestamp(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("parseTimestamp(%q) = (%v, %v), want (%v, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}
