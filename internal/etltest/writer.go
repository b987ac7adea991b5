// Package etltest provides bit-level helpers for tests.
package etltest

import "encoding/hex"

// BitWriter appends big-endian bit fields to a buffer.
type BitWriter struct {
	buf   []byte
	nbits int
}

// WriteUint appends the low n bits of v.
func (w *BitWriter) WriteUint(v uint64, n int) {
	for i := n - 1; i >= 0; i-- {
		if w.nbits%8 == 0 {
			w.buf = append(w.buf, 0)
		}
		if v>>uint(i)&1 == 1 {
			w.buf[len(w.buf)-1] |= 0x80 >> uint(w.nbits%8)
		}
		w.nbits++
	}
}

// WriteBytes appends each octet of b.
func (w *BitWriter) WriteBytes(b []byte) {
	for _, c := range b {
		w.WriteUint(uint64(c), 8)
	}
}

// WriteHex appends the nibbles of a hex string. It panics on invalid input.
func (w *BitWriter) WriteHex(s string) {
	for i := 0; i < len(s); i++ {
		b, err := hex.DecodeString("0" + s[i:i+1])
		if err != nil {
			panic(err)
		}
		w.WriteUint(uint64(b[0]), 4)
	}
}

// WriteZeros appends n zero bits.
func (w *BitWriter) WriteZeros(n int) {
	for i := 0; i < n; i++ {
		w.WriteUint(0, 1)
	}
}

// Len returns the number of bits written.
func (w *BitWriter) Len() int { return w.nbits }

// Bytes returns the buffer, zero padded to a whole octet.
func (w *BitWriter) Bytes() []byte { return w.buf }

// PackPixels packs row-major pixel values at depth bits per pixel.
func PackPixels(pix []uint8, depth int) []byte {
	var w BitWriter
	for _, p := range pix {
		w.WriteUint(uint64(p), depth)
	}
	return w.Bytes()
}
