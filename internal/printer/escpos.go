package printer

import (
	"bytes"
	"errors"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// ESC/POS command bytes.
const (
	esc byte = 0x1B
	gs  byte = 0x1D
	lf  byte = 0x0A

	// ESC t n code table; 0 = PC437 (USA, Standard Europe)
	codePagePC437 byte = 0x00
)

// QR symbol parameters for GS ( k.
const (
	qrModel2      byte = 0x32
	qrECLevelL    byte = 0x30
	qrMaxDataSize      = 7089
	qrMinSize          = 1
	qrMaxSize          = 16
)

// Receipt accumulates one print job.
// Nothing reaches the device until Bytes is written in one call.
type Receipt struct {
	buf   bytes.Buffer
	width int
}

// NewReceipt starts a job with printer init (ESC @) and selects
// code page PC437 (ESC t 0), which Line encodes to.
func NewReceipt(width int) *Receipt {
	r := &Receipt{width: width}
	r.buf.Write([]byte{esc, '@', esc, 't', codePagePC437})
	return r
}

// Line appends text followed by a line feed.
// Each rune becomes one PC437 byte; control characters and runes the
// code page lacks become '?'.
func (r *Receipt) Line(s string) {
	for _, c := range s {
		r.buf.WriteByte(encodeRune(c))
	}
	r.buf.WriteByte(lf)
}

func encodeRune(c rune) byte {
	if c < 0x20 || c == 0x7F {
		return '?'
	}
	if c < 0x7F {
		return byte(c)
	}
	if b, ok := charmap.CodePage437.EncodeRune(c); ok {
		return b
	}
	return '?'
}

// Rule appends a full-width separator.
func (r *Receipt) Rule() {
	r.Line(strings.Repeat("-", r.width))
}

// QR appends a native QR symbol (model 2, EC level L) at module size.
func (r *Receipt) QR(data string, size int) error {
	if data == "" {
		return errors.New("printer: empty qr payload")
	}
	if len(data) > qrMaxDataSize {
		return errors.New("printer: qr payload too long")
	}
	if size < qrMinSize || size > qrMaxSize {
		return errors.New("printer: qr size out of range")
	}

	// fn 65: select model
	r.qrCmd(0x41, qrModel2, 0x00)
	// fn 67: module size
	r.qrCmd(0x43, byte(size))
	// fn 69: error correction
	r.qrCmd(0x45, qrECLevelL)
	// fn 80: store data
	r.qrCmd(0x50, append([]byte{0x30}, data...)...)
	// fn 81: print stored symbol
	r.qrCmd(0x51, 0x30)

	r.buf.WriteByte(lf)
	return nil
}

// qrCmd writes GS ( k pL pH cn fn [params].
func (r *Receipt) qrCmd(fn byte, params ...byte) {
	n := len(params) + 2
	r.buf.Write([]byte{gs, '(', 'k', byte(n), byte(n >> 8), 0x31, fn})
	r.buf.Write(params)
}

// Bytes returns the encoded job.
func (r *Receipt) Bytes() []byte {
	return r.buf.Bytes()
}
