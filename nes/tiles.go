package nes

import (
	"image"
	"image/color"
	"image/png"
	"io"
	"math/bits"
)

// tileSize is the width/height in pixels of one NES CHR tile; each tile is
// encoded as two 8-byte bitplanes.
const tileSize = 8

// nesPalette is a fixed 4-color grayscale stand-in for the real NES master
// palette, sufficient for visually inspecting tile shapes without pulling
// in palette data the core spec doesn't define.
var nesPalette = [4]color.RGBA{
	{0x00, 0x00, 0x00, 0xFF},
	{0x5E, 0x5E, 0x5E, 0xFF},
	{0xA8, 0xA8, 0xA8, 0xFF},
	{0xFF, 0xFF, 0xFF, 0xFF},
}

// DumpCHRTiles renders every 8x8 tile in a cartridge's CHR ROM to a single
// PNG tile sheet, 16 tiles wide, and writes it to w.
func DumpCHRTiles(cart *Cartridge, w io.Writer) error {
	chrSize := cart.CHRSize()
	numTiles := chrSize / 16 // each tile is 16 bytes (two 8-byte bitplanes)
	if numTiles == 0 {
		numTiles = 0
	}

	const tilesPerRow = 16
	rows := (numTiles + tilesPerRow - 1) / tilesPerRow
	if rows == 0 {
		rows = 1
	}

	img := image.NewRGBA(image.Rect(0, 0, tilesPerRow*tileSize, rows*tileSize))

	for t := 0; t < numTiles; t++ {
		tileOffset := t * 16
		col := t % tilesPerRow
		row := t / tilesPerRow
		drawTile(img, cart, tileOffset, col*tileSize, row*tileSize)
	}

	return png.Encode(w, img)
}

// drawTile renders the tile whose two bitplanes start at chrOffset into img
// at pixel offset (ox, oy). NES tile rows are stored MSB-first; bits.Reverse8
// un-reverses a byte so pixel 0 lines up with bit 7 without a manual loop.
func drawTile(img *image.RGBA, cart *Cartridge, chrOffset, ox, oy int) {
	for y := 0; y < tileSize; y++ {
		lo := bits.Reverse8(cart.CHRByte(chrOffset + y))
		hi := bits.Reverse8(cart.CHRByte(chrOffset + y + tileSize))

		for x := 0; x < tileSize; x++ {
			bit := uint(x)
			paletteIdx := (lo>>bit)&1 | (hi>>bit)&1<<1
			img.SetRGBA(ox+x, oy+y, nesPalette[paletteIdx])
		}
	}
}
