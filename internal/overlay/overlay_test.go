package overlay

import (
	"testing"
	"time"

	"github.com/SarahRoseLives/hacktv/internal/subtitle"
	"github.com/SarahRoseLives/hacktv/internal/video"
)

func TestBlendOpaqueLogoReplacesPixels(t *testing.T) {
	frame := video.NewFrame(4, 4)
	logo := &Image{Width: 2, Height: 2, Pix: []uint32{
		0xFFFF0000, 0xFFFF0000,
		0xFFFF0000, 0xFFFF0000,
	}}
	c := New(nil)
	c.Logo = logo
	c.LogoX, c.LogoY = 1, 1

	c.Blend(frame, 0, time.Time{})

	if r, g, b := frame.At(1, 1); r != 255 || g != 0 || b != 0 {
		t.Fatalf("pixel (1,1) = (%v,%v,%v), want opaque red", r, g, b)
	}
	if r, _, _ := frame.At(0, 0); r != 0 {
		t.Fatal("pixel outside the logo must stay untouched")
	}
}

func TestBlendZeroAlphaLeavesFrame(t *testing.T) {
	frame := video.NewFrame(2, 2)
	frame.Set(0, 0, 10, 20, 30)
	c := New(nil)
	c.Logo = &Image{Width: 2, Height: 2, Pix: make([]uint32, 4)} // alpha 0

	c.Blend(frame, 0, time.Time{})

	if r, g, b := frame.At(0, 0); r != 10 || g != 20 || b != 30 {
		t.Fatalf("zero-alpha blend changed pixel to (%v,%v,%v)", r, g, b)
	}
}

func TestBlendClipsAtFrameEdges(t *testing.T) {
	frame := video.NewFrame(2, 2)
	c := New(nil)
	c.Logo = &Image{Width: 4, Height: 4, Pix: make([]uint32, 16)}
	c.LogoX, c.LogoY = -2, -2

	// Must not panic on out-of-bounds placement.
	c.Blend(frame, 0, time.Time{})
}

func TestBlendSubtitleNeedsRasterizer(t *testing.T) {
	frame := video.NewFrame(2, 2)
	c := New(nil)
	c.Subtitles = subtitle.NewList([]subtitle.Cue{{Start: 0, End: time.Second, Text: "hi"}})

	// Without a rasterizer the subtitle stage is inert, not a panic.
	c.Blend(frame, 500*time.Millisecond, time.Time{})
}
