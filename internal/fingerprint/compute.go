package fingerprint

import (
	"bytes"
	"fmt"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"math"

	_ "golang.org/x/image/bmp"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"
)

const (
	gridWidth  = 9
	gridHeight = 8

	// MaxDimension bounds either side of an image accepted for hashing.
	MaxDimension = 4096
)

// lanczos3 is a three-lobe Lanczos kernel. draw widens it when
// downsampling, so every source pixel contributes to the 9x8 grid.
var lanczos3 = &draw.Kernel{
	Support: 3,
	At: func(t float64) float64 {
		if t == 0 {
			return 1
		}
		if t >= 3 {
			return 0
		}
		return sinc(t) * sinc(t/3)
	},
}

func sinc(x float64) float64 {
	x *= math.Pi
	return math.Sin(x) / x
}

// Compute derives the 64-bit difference hash of an encoded image.
func Compute(data []byte) (Hash, error) {
	if len(data) == 0 {
		return Hash{}, ErrMissingInput
	}
	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return Hash{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	if err := checkSize(cfg.Width, cfg.Height); err != nil {
		return Hash{}, err
	}
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return Hash{}, fmt.Errorf("%w: %v", ErrDecode, err)
	}
	return FromImage(img)
}

// FromImage derives the difference hash of an already decoded image.
func FromImage(img image.Image) (Hash, error) {
	if img == nil {
		return Hash{}, ErrMissingInput
	}
	b := img.Bounds()
	if b.Empty() {
		return Hash{}, fmt.Errorf("%w: empty image", ErrDecode)
	}
	if err := checkSize(b.Dx(), b.Dy()); err != nil {
		return Hash{}, err
	}

	gray := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)

	grid := image.NewGray(image.Rect(0, 0, gridWidth, gridHeight))
	lanczos3.Scale(grid, grid.Bounds(), gray, gray.Bounds(), draw.Src, nil)

	return fromGrid(grid), nil
}

func checkSize(width, height int) error {
	if width > MaxDimension || height > MaxDimension {
		return fmt.Errorf("%w: image is %dx%d, limit is %d per side", ErrDecode, width, height, MaxDimension)
	}
	return nil
}

// fromGrid compares horizontally adjacent pixels of a 9x8 grid, row-major.
func fromGrid(grid *image.Gray) Hash {
	var v uint64
	for y := 0; y < gridHeight; y++ {
		for x := 0; x < gridWidth-1; x++ {
			v <<= 1
			if grid.GrayAt(x, y).Y > grid.GrayAt(x+1, y).Y {
				v |= 1
			}
		}
	}
	return Hash{bits: v, size: Size}
}
