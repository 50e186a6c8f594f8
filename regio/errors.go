// Copyright 2016 by Thorsten von Eicken, see LICENSE file

package regio

import "fmt"

// FramingError reports a transaction that cannot satisfy the framing contract: either a
// receive buffer too short to hold the control-byte slot plus at least one register value,
// or a read request for less than one register. It indicates a sizing bug in the caller,
// not a transient bus fault, so retrying the same call cannot succeed.
type FramingError struct {
	Op string // "encode" or "decode"
	N  int    // offending register count (encode) or buffer length (decode)
}

func (e *FramingError) Error() string {
	if e.Op == "encode" {
		return fmt.Sprintf("regio: register count %d below minimum 1", e.N)
	}
	return fmt.Sprintf("regio: receive buffer too short (%d bytes, need at least 2)", e.N)
}

// InvalidSelectorError reports a full-scale selector outside the 2-bit space {0,1,2,3}, or a
// conversion Kind outside the closed set. It indicates a caller or configuration bug.
type InvalidSelectorError struct {
	Selector byte
	Kind     Kind
}

func (e *InvalidSelectorError) Error() string {
	switch e.Kind {
	case Accel, Gyro:
		return fmt.Sprintf("regio: invalid full-scale selector %d (must be 0..3)", e.Selector)
	}
	return fmt.Sprintf("regio: invalid full-scale kind %d", e.Kind)
}
