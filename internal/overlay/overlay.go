// Package overlay blends rasterized text and decoded logo pixel buffers
// onto a scaled video frame before line composition, using in-process
// per-pixel alpha compositing rather than an external filter graph so
// the composer can run it on every frame. Font rasterization and PNG
// decoding stay external collaborators: this package only consumes
// already-rasterized Image buffers.
package overlay

import (
	"time"

	"github.com/SarahRoseLives/hacktv/internal/subtitle"
	"github.com/SarahRoseLives/hacktv/internal/video"
)

// Image is a decoded, pre-rasterized pixel buffer (a PNG logo, or a
// caller-rendered text bitmap), row-major, alpha-premultiplied in the top
// byte (0xAARRGGBB).
type Image struct {
	Width, Height int
	Pix           []uint32
}

// TextRasterizer renders a string into an Image; supplied by the caller
// since font rasterization stays outside this package.
type TextRasterizer func(text string) *Image

// Compositor blends a logo, a clock/timestamp, and the active subtitle
// cue onto a frame, mirroring the `logo`/`timestamp`/`subtitles` config
// knobs.
type Compositor struct {
	Logo         *Image
	LogoX, LogoY int

	ShowTimestamp bool
	ClockFormat   string

	Subtitles *subtitle.List

	Rasterize TextRasterizer
}

// New creates a Compositor with no logo and timestamps disabled; set
// fields directly to enable each overlay the config knobs request.
func New(rasterize TextRasterizer) *Compositor {
	return &Compositor{Rasterize: rasterize, ClockFormat: "15:04:05"}
}

// Blend composites every enabled overlay onto frame in place, in the
// order logo, timestamp, subtitle -- later overlays painting over earlier
// ones where they overlap.
func (c *Compositor) Blend(frame *video.Frame, pts time.Duration, wallClock time.Time) {
	if c.Logo != nil {
		c.blendImage(frame, c.Logo, c.LogoX, c.LogoY)
	}
	if c.ShowTimestamp && c.Rasterize != nil {
		img := c.Rasterize(wallClock.Format(c.ClockFormat))
		c.blendImage(frame, img, 8, frame.Height-img.Height-8)
	}
	if c.Subtitles != nil && c.Rasterize != nil {
		if text, ok := c.Subtitles.Active(pts); ok && text != "" {
			img := c.Rasterize(text)
			x := (frame.Width - img.Width) / 2
			c.blendImage(frame, img, x, frame.Height-img.Height-32)
		}
	}
}

// blendImage alpha-composites img onto frame at (x0, y0), clipping at the
// frame's edges.
func (c *Compositor) blendImage(frame *video.Frame, img *Image, x0, y0 int) {
	if img == nil {
		return
	}
	for y := 0; y < img.Height; y++ {
		fy := y0 + y
		if fy < 0 || fy >= frame.Height {
			continue
		}
		for x := 0; x < img.Width; x++ {
			fx := x0 + x
			if fx < 0 || fx >= frame.Width {
				continue
			}
			p := img.Pix[y*img.Width+x]
			a := float64((p>>24)&0xFF) / 255.0
			if a <= 0 {
				continue
			}
			sr, sg, sb := float64((p>>16)&0xFF), float64((p>>8)&0xFF), float64(p&0xFF)
			fr, fg, fb := frame.At(fx, fy)
			r := uint8(sr + fr*(1-a))
			g := uint8(sg + fg*(1-a))
			b := uint8(sb + fb*(1-a))
			frame.Set(fx, fy, r, g, b)
		}
	}
}
