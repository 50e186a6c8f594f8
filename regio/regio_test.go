// Copyright 2016 by Thorsten von Eicken, see LICENSE file

package regio

import (
	"bytes"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
)

var readframes = map[string]struct {
	addr  byte
	count int
	tx    []byte
}{
	"one":   {0x75, 1, []byte{0xF5, 0x00}},
	"burst": {0x01, 2, []byte{0x81, 0x00, 0x00}},
	"six":   {0x3B, 6, []byte{0xBB, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00}},
	"zero":  {0x00, 1, []byte{0x80, 0x00}},
	"top":   {0x7F, 1, []byte{0xFF, 0x00}},
}

func TestReadFrame(t *testing.T) {
	for n, tc := range readframes {
		f, err := ReadFrame(tc.addr, tc.count)
		if err != nil {
			t.Fatalf("ReadFrame %s: unexpected error %v", n, err)
		}
		if !bytes.Equal(f.Tx, tc.tx) {
			t.Fatalf("ReadFrame %s tx got %#v expected %#v", n, f.Tx, tc.tx)
		}
		if len(f.Rx) != len(f.Tx) {
			t.Fatalf("ReadFrame %s rx length %d, tx length %d", n, len(f.Rx), len(f.Tx))
		}
		for i, b := range f.Rx {
			if b != 0 {
				t.Fatalf("ReadFrame %s rx[%d] not zeroed: %#x", n, i, b)
			}
		}
	}
}

// Every 7-bit address must produce a control byte with the read flag on top of the address.
func TestReadControlByte(t *testing.T) {
	for a := 0; a <= 0x7f; a++ {
		f, err := ReadFrame(byte(a), 1)
		if err != nil {
			t.Fatalf("ReadFrame(%#x, 1): %v", a, err)
		}
		if f.Tx[0] != 0x80|byte(a) {
			t.Fatalf("ReadFrame(%#x, 1) control byte %#x, expected %#x", a, f.Tx[0], 0x80|byte(a))
		}
	}
}

func TestReadFrameBadCount(t *testing.T) {
	for _, count := range []int{0, -1, -100} {
		_, err := ReadFrame(0x3B, count)
		var fe *FramingError
		if !errors.As(err, &fe) {
			t.Fatalf("ReadFrame(0x3B, %d) error %v, expected FramingError", count, err)
		}
		// the message must name the offending count, not a bogus buffer length
		want := fmt.Sprintf("count %d", count)
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("ReadFrame(0x3B, %d) error %q, expected it to contain %q", count, err, want)
		}
	}
}

// Write control bytes must have bit 7 clear for every address and value.
func TestWriteControlByte(t *testing.T) {
	for a := 0; a <= 0x7f; a++ {
		for _, v := range []byte{0x00, 0x01, 0x7f, 0x80, 0xff} {
			f := WriteFrame(byte(a), v)
			want := []byte{byte(a), v}
			if !bytes.Equal(f.Tx, want) {
				t.Fatalf("WriteFrame(%#x, %#x) tx %#v, expected %#v", a, v, f.Tx, want)
			}
			if len(f.Rx) != 2 {
				t.Fatalf("WriteFrame(%#x, %#x) rx length %d, expected 2", a, v, len(f.Rx))
			}
		}
	}
}

func TestDecodeRead(t *testing.T) {
	got, err := DecodeRead([]byte{0xAA, 0x12, 0x34})
	if err != nil {
		t.Fatalf("DecodeRead: unexpected error %v", err)
	}
	if !bytes.Equal(got, []byte{0x12, 0x34}) {
		t.Fatalf("DecodeRead got %#v expected [0x12 0x34]", got)
	}
}

func TestDecodeReadShort(t *testing.T) {
	for _, rx := range [][]byte{nil, {}, {0xAA}} {
		_, err := DecodeRead(rx)
		var fe *FramingError
		if !errors.As(err, &fe) {
			t.Fatalf("DecodeRead(%#v) error %v, expected FramingError", rx, err)
		}
		want := fmt.Sprintf("(%d bytes", len(rx))
		if !strings.Contains(err.Error(), want) {
			t.Fatalf("DecodeRead(%#v) error %q, expected it to contain %q", rx, err, want)
		}
	}
}

// Simulate a full read transaction: the device echoes register values into the rx slots
// trailing the control byte.
func TestReadRoundTrip(t *testing.T) {
	f, err := ReadFrame(0x1, 2)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(f.Tx, []byte{0x81, 0x00, 0x00}) {
		t.Fatalf("tx got %#v", f.Tx)
	}
	copy(f.Rx, []byte{0xC3, 0x5A, 0x5B}) // garbage byte, then two register values
	vals, err := DecodeRead(f.Rx)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(vals, []byte{0x5A, 0x5B}) {
		t.Fatalf("decoded %#v expected [0x5A 0x5B]", vals)
	}
}

var int16tests = map[string]struct {
	high, low byte
	val       int16
}{
	"zero": {0x00, 0x00, 0},
	"one":  {0x00, 0x01, 1},
	"-1":   {0xFF, 0xFF, -1},
	"min":  {0x80, 0x00, -32768},
	"max":  {0x7F, 0xFF, 32767},
	"mid":  {0x40, 0x00, 16384},
}

func TestInt16BE(t *testing.T) {
	for n, tc := range int16tests {
		if got := Int16BE(tc.high, tc.low); got != tc.val {
			t.Fatalf("Int16BE %s got %d expected %d", n, got, tc.val)
		}
	}
}

var fullscaletests = map[string]struct {
	raw  int16
	sel  byte
	kind Kind
	val  float64
}{
	"1g":      {16384, 0, Accel, 1.0},
	"-2g":     {-32768, 0, Accel, -2.0},
	"8g-max":  {32767, 2, Accel, 8 * 32767.0 / 32768.0},
	"16g":     {16384, 3, Accel, 8.0},
	"125dps":  {16384, 0, Gyro, 125.0},
	"-250dps": {-32768, 0, Gyro, -250.0},
	"2000dps": {-32768, 3, Gyro, -2000.0},
	"quiet":   {0, 1, Gyro, 0.0},
}

func TestFullScale(t *testing.T) {
	for n, tc := range fullscaletests {
		got, err := FullScale(tc.raw, tc.sel, tc.kind)
		if err != nil {
			t.Fatalf("FullScale %s: unexpected error %v", n, err)
		}
		if math.Abs(got-tc.val) > 1e-9 {
			t.Fatalf("FullScale %s got %g expected %g", n, got, tc.val)
		}
	}
}

func TestFullScaleBadSelector(t *testing.T) {
	for _, sel := range []byte{4, 5, 0xff} {
		_, err := FullScale(100, sel, Accel)
		var se *InvalidSelectorError
		if !errors.As(err, &se) {
			t.Fatalf("FullScale sel=%d error %v, expected InvalidSelectorError", sel, err)
		}
	}
	// a bad Kind must be blamed on the kind, even when the selector is valid
	_, err := FullScale(100, 0, Kind(7))
	var se *InvalidSelectorError
	if !errors.As(err, &se) {
		t.Fatalf("FullScale bad kind error %v, expected InvalidSelectorError", err)
	}
	if !strings.Contains(err.Error(), "kind 7") {
		t.Fatalf("FullScale bad kind error %q, expected it to name the kind", err)
	}
	if strings.Contains(err.Error(), "selector") {
		t.Fatalf("FullScale bad kind error %q, must not blame the selector", err)
	}
}

// Encoding is a pure function: identical inputs must yield identical, independent buffers.
func TestEncodeIdempotent(t *testing.T) {
	f1, _ := ReadFrame(0x3B, 6)
	f2, _ := ReadFrame(0x3B, 6)
	if !bytes.Equal(f1.Tx, f2.Tx) || !bytes.Equal(f1.Rx, f2.Rx) {
		t.Fatalf("ReadFrame not idempotent: %#v vs %#v", f1, f2)
	}
	f1.Tx[0] = 0 // buffers must not be shared
	if f2.Tx[0] != 0xBB {
		t.Fatalf("ReadFrame frames share tx buffer")
	}
	w1 := WriteFrame(0x1C, 0x08)
	w2 := WriteFrame(0x1C, 0x08)
	if !bytes.Equal(w1.Tx, w2.Tx) {
		t.Fatalf("WriteFrame not idempotent: %#v vs %#v", w1.Tx, w2.Tx)
	}
}
