package graphics

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/png"
	"testing"
)

func encodePNG(t *testing.T, img image.Image) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode: %v", err)
	}
	return &buf
}

func TestDecodeAtlasScales(t *testing.T) {
	src := image.NewRGBA(image.Rect(0, 0, 2, 2))
	red := color.RGBA{255, 0, 0, 255}
	blue := color.RGBA{0, 0, 255, 255}
	src.SetRGBA(0, 0, red)
	src.SetRGBA(1, 0, blue)
	src.SetRGBA(0, 1, blue)
	src.SetRGBA(1, 1, red)

	atlas, err := DecodeAtlas(encodePNG(t, src), 8)
	if err != nil {
		t.Fatalf("DecodeAtlas: %v", err)
	}
	if atlas.Bounds().Dx() != 8 || atlas.Bounds().Dy() != 8 {
		t.Fatalf("size = %v", atlas.Bounds())
	}
	if got := atlas.RGBAAt(1, 1); got != red {
		t.Errorf("top-left quadrant = %v, want red", got)
	}
	if got := atlas.RGBAAt(6, 1); got != blue {
		t.Errorf("top-right quadrant = %v, want blue", got)
	}
}

func TestDecodeAtlasErrors(t *testing.T) {
	if _, err := DecodeAtlas(bytes.NewReader(nil), 0); !errors.Is(err, ErrInvalidAtlasSize) {
		t.Errorf("err = %v, want ErrInvalidAtlasSize", err)
	}
	if _, err := DecodeAtlas(bytes.NewReader([]byte("not an image")), 16); err == nil {
		t.Errorf("garbage decoded without error")
	}
}

func TestFallbackAtlasTiles(t *testing.T) {
	img := FallbackAtlas(AtlasSize)
	tile := AtlasSize / 16
	stone := img.RGBAAt(3*tile+1, tile/2)
	if stone.R != stone.G || stone.G != stone.B {
		t.Errorf("stone tile is not grey: %v", stone)
	}
	grass := img.RGBAAt(1, 1)
	if grass.G <= grass.R {
		t.Errorf("grass tile is not green: %v", grass)
	}
	if unused := img.RGBAAt(AtlasSize-1, AtlasSize-1); unused != (color.RGBA{255, 0, 255, 255}) {
		t.Errorf("unused tile = %v, want magenta", unused)
	}
}

func TestFlipVertical(t *testing.T) {
	img := image.NewRGBA(image.Rect(0, 0, 1, 3))
	img.SetRGBA(0, 0, color.RGBA{R: 1, A: 255})
	img.SetRGBA(0, 2, color.RGBA{R: 3, A: 255})
	out := FlipVertical(img)
	if out.RGBAAt(0, 0).R != 3 || out.RGBAAt(0, 2).R != 1 {
		t.Errorf("rows not reversed")
	}
	if img.RGBAAt(0, 0).R != 1 {
		t.Errorf("source modified")
	}
}
