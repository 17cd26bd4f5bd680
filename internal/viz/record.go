package viz

import (
	"errors"
	"image"
	"image/color"
	"image/gif"
	"os"
)

const (
	cellW, cellH = 8, 16
	gifDelay     = 2 // hundredths of a second between frames
)

var ErrNoFrames = errors.New("viz: no frames recorded")

// Recorder rasterizes canvas snapshots into a two-colour GIF.
type Recorder struct {
	Path   string
	frames []*image.Paletted
}

func NewRecorder(path string) *Recorder {
	return &Recorder{Path: path}
}

func (r *Recorder) Len() int { return len(r.frames) }

// Capture renders each lit braille dot as a filled block.
func (r *Recorder) Capture(c *Canvas) {
	img := image.NewPaletted(image.Rect(0, 0, c.Width*cellW, c.Height*cellH), color.Palette{color.Black, color.White})
	dotW, dotH := cellW/2, cellH/4
	pw, ph := c.PixelSize()
	for y := 0; y < ph; y++ {
		for x := 0; x < pw; x++ {
			if !c.IsSet(x, y) {
				continue
			}
			for py := 0; py < dotH; py++ {
				for px := 0; px < dotW; px++ {
					img.SetColorIndex(x*dotW+px, y*dotH+py, 1)
				}
			}
		}
	}
	r.frames = append(r.frames, img)
}

// Save encodes the captured frames to Path and drops them.
func (r *Recorder) Save() error {
	if len(r.frames) == 0 {
		return ErrNoFrames
	}
	anim := gif.GIF{LoopCount: 0}
	for _, frame := range r.frames {
		anim.Image = append(anim.Image, frame)
		anim.Delay = append(anim.Delay, gifDelay)
	}
	f, err := os.Create(r.Path)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := gif.EncodeAll(f, &anim); err != nil {
		return err
	}
	r.frames = nil
	return nil
}
