// Copyright 2017 by Thorsten von Eicken, see LICENSE file

package spimux

import (
	"sync"

	"github.com/tve/sensors"
)

// Conn represents a connection to a device on an SPI bus with a multiplexed chip select.
//
// The purpose of spimux.Conn is to allow two devices to be connected to an SPI bus that
// only has a single chip select line. This is accomplished by placing a demux on the CS
// line such that an extra gpio pin can direct the chip select to either of the two devices.
// The way this functions is that the spimux.Conn Tx function sets the demux select for the
// appropriate device and then performs a std transaction.
//
// A sample circuit is to use a 74LVC1G19 demux with the SPI CS connected to E, the gpio
// select pin connected to A, and the CS inputs of the two devices attached to Y0 and Y1
// respectively. A pull-down resistor on the A input of the demux is recommended to ensure
// both CS remain inactive when the SPI CS is not driven.
//
// A limitation of the current implementation is that the speed and configuration (SPI mode
// and number of bits) are shared between the two devices: whichever device configures last
// wins. With two identical sensors, the intended use, this does not matter.
type Conn struct {
	mu     *sync.Mutex  // prevents interleaved transactions on the shared SPI bus
	spi    sensors.SPI  // the underlying SPI bus with the shared chip select
	selPin sensors.GPIO // pin to select between the two devices
	sel    int          // select pin level routing CS to this device
}

// New returns two connections for the provided SPI device, the first one using Low for the
// select pin, and the second using High.
func New(spi sensors.SPI, selPin sensors.GPIO) (*Conn, *Conn) {
	mu := &sync.Mutex{}
	return &Conn{mu, spi, selPin, sensors.GpioLow}, &Conn{mu, spi, selPin, sensors.GpioHigh}
}

// Tx sets the select pin to the correct value and performs the transaction on the
// underlying bus. The pin is set while holding the bus mutex so a transaction for one
// device can never be framed by the other device's chip select.
func (c *Conn) Tx(w, r []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.selPin.Out(c.sel)
	return c.spi.Tx(w, r)
}

// Speed forwards to the underlying bus and affects both devices.
func (c *Conn) Speed(hz int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.spi.Speed(hz)
}

// Configure forwards to the underlying bus and affects both devices.
func (c *Conn) Configure(mode, bits int) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.spi.Configure(mode, bits)
}

// Close is a no-op. TODO: close once both spimux are closed.
func (c *Conn) Close() error { return nil }
