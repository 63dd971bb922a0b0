package graphics

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	_ "image/png"
	"io"
	"mini-voxel/internal/registry"
	"os"

	"github.com/go-gl/gl/v4.1-core/gl"
	"golang.org/x/image/draw"
)

// AtlasSize is the edge length in pixels atlases are normalized to.
const AtlasSize = 256

var ErrInvalidAtlasSize = errors.New("atlas size must be positive")

// DecodeAtlas decodes an image and scales it to a size×size RGBA atlas.
func DecodeAtlas(r io.Reader, size int) (*image.RGBA, error) {
	if size <= 0 {
		return nil, ErrInvalidAtlasSize
	}
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	rgba := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.NearestNeighbor.Scale(rgba, rgba.Bounds(), img, img.Bounds(), draw.Src, nil)
	return rgba, nil
}

// LoadAtlas reads an atlas image from disk.
func LoadAtlas(path string, size int) (*image.RGBA, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open texture file: %w", err)
	}
	defer file.Close()
	return DecodeAtlas(file, size)
}

// FallbackAtlas paints an atlas with flat colours for the built-in blocks,
// laid out the same way as registry.Default.
func FallbackAtlas(size int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), &image.Uniform{color.RGBA{255, 0, 255, 255}}, image.Point{}, draw.Src)

	tile := size / registry.AtlasTiles
	grass := color.RGBA{95, 159, 53, 255}
	dirt := color.RGBA{134, 96, 67, 255}
	stone := color.RGBA{125, 125, 125, 255}

	fill := func(col int, c color.RGBA) {
		r := image.Rect(col*tile, 0, (col+1)*tile, tile)
		draw.Draw(img, r, &image.Uniform{c}, image.Point{}, draw.Src)
		// Darken alternate pixels so faces are readable up close
		for y := r.Min.Y; y < r.Max.Y; y++ {
			for x := r.Min.X; x < r.Max.X; x++ {
				if (x*7+y*13)%5 == 0 {
					img.SetRGBA(x, y, color.RGBA{shade(c.R), shade(c.G), shade(c.B), 255})
				}
			}
		}
	}
	fill(0, grass)
	fill(1, dirt)
	fill(2, dirt)
	fill(3, stone)

	// Grass side: green band over dirt
	band := image.Rect(tile, 0, 2*tile, tile/4)
	draw.Draw(img, band, &image.Uniform{grass}, image.Point{}, draw.Src)
	return img
}

// FlipVertical returns a copy of img with its rows reversed, so row 0 of the
// image ends up at V=1 once uploaded.
func FlipVertical(img *image.RGBA) *image.RGBA {
	b := img.Bounds()
	out := image.NewRGBA(b)
	stride := img.Stride
	h := b.Dy()
	for y := 0; y < h; y++ {
		copy(out.Pix[(h-1-y)*stride:(h-y)*stride], img.Pix[y*stride:(y+1)*stride])
	}
	return out
}

// LoadTexture uploads an atlas as a 2D texture with nearest filtering.
func LoadTexture(img *image.RGBA) uint32 {
	flipped := FlipVertical(img)

	var texture uint32
	gl.GenTextures(1, &texture)
	gl.BindTexture(gl.TEXTURE_2D, texture)

	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_S, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_WRAP_T, gl.CLAMP_TO_EDGE)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MIN_FILTER, gl.NEAREST)
	gl.TexParameteri(gl.TEXTURE_2D, gl.TEXTURE_MAG_FILTER, gl.NEAREST)

	gl.TexImage2D(
		gl.TEXTURE_2D,
		0,
		gl.RGBA,
		int32(flipped.Rect.Size().X),
		int32(flipped.Rect.Size().Y),
		0,
		gl.RGBA,
		gl.UNSIGNED_BYTE,
		gl.Ptr(flipped.Pix),
	)

	gl.BindTexture(gl.TEXTURE_2D, 0)
	return texture
}

func shade(v uint8) uint8 {
	return uint8(int(v) * 7 / 8)
}
