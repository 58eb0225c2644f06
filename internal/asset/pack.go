package asset

import (
	"bufio"
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"
	"unicode/utf8"

	"github.com/32bitkid/bitreader"
)

// Pack layout, all integers big-endian:
//
//	"POV1" u16:numLEDs u16:count
//	count × { u8:nameLen name u8:format u16:lines u16:paletteLen u32:pixelLen palette pixels }
const packMagic uint32 = 'P'<<24 | 'O'<<16 | 'V'<<8 | '1'

var ErrBadMagic = errors.New("not a pov asset pack")

type packReader struct {
	bits bitreader.BitReader
}

// bytes reads an n byte block. The buffer grows with the data actually
// read, so a lying length field fails at EOF instead of allocating up front.
func (r *packReader) bytes(n int) ([]byte, error) {
	var buf bytes.Buffer
	if _, err := io.Copy(&buf, io.LimitReader(r.bits, int64(n))); err != nil {
		return nil, err
	}
	if buf.Len() != n {
		return nil, io.ErrUnexpectedEOF
	}
	return buf.Bytes(), nil
}

func (r *packReader) image(numLEDs int) (Image, error) {
	var img Image

	nameLen, err := r.bits.Read8(8)
	if err != nil {
		return img, err
	}
	name, err := r.bytes(int(nameLen))
	if err != nil {
		return img, err
	}
	img.Name = string(name)

	format, err := r.bits.Read8(8)
	if err != nil {
		return img, err
	}
	img.Format = Format(format)
	if !img.Format.Valid() {
		return img, fmt.Errorf("%s: unknown format %d", img.Name, format)
	}

	lines, err := r.bits.Read16(16)
	if err != nil {
		return img, err
	}
	img.Lines = int(lines)

	paletteLen, err := r.bits.Read16(16)
	if err != nil {
		return img, err
	}
	pixelLen, err := r.bits.Read32(32)
	if err != nil {
		return img, err
	}
	if want := img.Lines * img.Format.Stride(numLEDs); int(pixelLen) != want {
		return img, fmt.Errorf("%s: pixel block is %d bytes, want %d", img.Name, pixelLen, want)
	}
	if paletteLen > 256*3 {
		return img, fmt.Errorf("%s: palette block too large (%d)", img.Name, paletteLen)
	}

	if paletteLen > 0 {
		if img.Palette, err = r.bytes(int(paletteLen)); err != nil {
			return img, err
		}
	}
	if img.Pixels, err = r.bytes(int(pixelLen)); err != nil {
		return img, err
	}
	return img, nil
}

// Decode reads an asset pack and checks every image in it.
func Decode(src io.Reader) (Table, error) {
	r := &packReader{bits: bitreader.NewReader(bufio.NewReader(src))}

	magic, err := r.bits.Read32(32)
	if err != nil {
		return Table{}, fmt.Errorf("read header: %w", err)
	}
	if magic != packMagic {
		return Table{}, ErrBadMagic
	}
	numLEDs, err := r.bits.Read16(16)
	if err != nil {
		return Table{}, fmt.Errorf("read header: %w", err)
	}
	count, err := r.bits.Read16(16)
	if err != nil {
		return Table{}, fmt.Errorf("read header: %w", err)
	}

	t := Table{NumLEDs: int(numLEDs), Images: make([]Image, 0, count)}
	for i := 0; i < int(count); i++ {
		img, err := r.image(t.NumLEDs)
		if err != nil {
			return Table{}, fmt.Errorf("image %d: %w", i, err)
		}
		t.Images = append(t.Images, img)
	}
	if err := t.Check(); err != nil {
		return Table{}, err
	}
	return t, nil
}

// Encode writes t as an asset pack.
func Encode(dst io.Writer, t Table) error {
	if err := t.Check(); err != nil {
		return err
	}
	if len(t.Images) > 0xFFFF || t.NumLEDs > 0xFFFF {
		return fmt.Errorf("table too large for pack format")
	}

	w := bufio.NewWriter(dst)
	be := binary.BigEndian
	var hdr [8]byte
	be.PutUint32(hdr[0:], packMagic)
	be.PutUint16(hdr[4:], uint16(t.NumLEDs))
	be.PutUint16(hdr[6:], uint16(len(t.Images)))
	w.Write(hdr[:])

	for _, img := range t.Images {
		name := trimName(img.Name)
		if img.Lines > 0xFFFF {
			return fmt.Errorf("%s: too many scanlines (%d)", img.Name, img.Lines)
		}
		w.WriteByte(byte(len(name)))
		w.WriteString(name)

		var rec [9]byte
		rec[0] = byte(img.Format)
		be.PutUint16(rec[1:], uint16(img.Lines))
		be.PutUint16(rec[3:], uint16(len(img.Palette)))
		be.PutUint32(rec[5:], uint32(len(img.Pixels)))
		w.Write(rec[:])
		w.Write(img.Palette)
		w.Write(img.Pixels)
	}
	return w.Flush()
}

// trimName cuts name to the 255 byte field without splitting a rune.
func trimName(name string) string {
	if len(name) <= 0xFF {
		return name
	}
	cut := 0xFF
	for cut > 0 && !utf8.RuneStart(name[cut]) {
		cut--
	}
	return name[:cut]
}

// Load decodes the asset pack at path.
func Load(path string) (Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return Table{}, err
	}
	defer f.Close()
	t, err := Decode(f)
	if err != nil {
		return Table{}, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Save writes t to path as an asset pack.
func Save(path string, t Table) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, t); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
