// Copyright 2016 by Thorsten von Eicken, see LICENSE file

// The regio package implements the register-access framing used by SPI peripherals that
// address a bank of up to 128 one-byte registers through a leading control byte. The control
// byte carries the 7-bit register address and a read/write flag in the top bit (set for
// reads), followed by the data bytes. Because SPI is full-duplex every transaction clocks as
// many bytes in as it clocks out: during the control byte the device returns garbage, and
// during each subsequent filler byte it returns the value of the next consecutive register.
//
// The package only builds and interprets the transfer buffers. Performing the transfer, and
// framing it with a chip-select assertion, is the bus driver's job; drivers pass the Tx and
// Rx buffers of a Frame to an SPI Tx call and hand the Rx buffer back to DecodeRead. All
// functions are pure, so they may be called concurrently without locking. Serializing the
// transactions themselves on a shared bus remains the caller's responsibility.
package regio

const readFlag = 0x80 // top bit of the control byte, set for register reads

// Frame holds the transmit buffer for one bus transaction and the receive buffer that the
// full-duplex transfer fills in lockstep. The two buffers always have the same length. A
// Frame is built immediately before a transaction and discarded after decoding, it carries
// no state across transactions.
type Frame struct {
	Tx []byte
	Rx []byte
}

// ReadFrame builds the transaction frame to read count consecutive registers starting at
// addr. Tx byte 0 is the control byte with the read flag set, the remaining count bytes are
// don't-care filler clocking the register values out of the device. After the transfer Rx
// byte 0 is meaningless and Rx bytes 1..count hold the values of registers addr..addr+count-1.
// Addresses are 7-bit, the top bit of addr is ignored. A count below 1 cannot produce a
// decodable response and is rejected with a FramingError.
func ReadFrame(addr byte, count int) (Frame, error) {
	if count < 1 {
		return Frame{}, &FramingError{Op: "encode", N: count}
	}
	tx := make([]byte, count+1)
	tx[0] = readFlag | addr&0x7f
	return Frame{Tx: tx, Rx: make([]byte, count+1)}, nil
}

// DecodeRead extracts the register values from the receive buffer of a completed read
// transaction. The first byte was clocked in while the control byte went out and carries no
// data, so it is dropped; the remaining bytes are the register values in address order.
func DecodeRead(rx []byte) ([]byte, error) {
	if len(rx) < 2 {
		return nil, &FramingError{Op: "decode", N: len(rx)}
	}
	return rx[1:], nil
}

// WriteFrame builds the two-byte transaction frame to write value into the register at addr.
// The receive buffer exists only to satisfy the full-duplex transfer, its contents are
// don't-care and never inspected.
func WriteFrame(addr, value byte) Frame {
	return Frame{Tx: []byte{addr & 0x7f, value}, Rx: make([]byte, 2)}
}

// Int16BE reassembles a signed 16-bit quantity from the high and low register bytes, as read
// from a pair of _H/_L registers.
func Int16BE(high, low byte) int16 {
	return int16(uint16(high)<<8 | uint16(low))
}
