package sensors

import (
	"fmt"
	"sync"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

var (
	hostOnce sync.Once
	hostErr  error
)

// OpenSPI opens an SPI port via periph and returns it behind the sensors.SPI interface.
// The name is a periph port name or alias, e.g. "/dev/spidev0.0" or "SPI0.0", an empty
// name selects the first available port. The port starts out at 4Mhz in mode 0 with 8-bit
// words; Speed and Configure may adjust that before the first transfer.
func OpenSPI(name string) (SPI, error) {
	hostOnce.Do(func() { _, hostErr = host.Init() })
	if hostErr != nil {
		return nil, fmt.Errorf("SPI: periph init: %s", hostErr)
	}
	port, err := spireg.Open(name)
	if err != nil {
		return nil, fmt.Errorf("SPI: cannot open %s: %s", name, err)
	}
	return &periphSPI{port: port, hz: 4 * physic.MegaHertz, mode: spi.Mode0, bits: 8}, nil
}

// periphSPI adapts a periph spi port to the sensors.SPI interface. The underlying port is
// connected lazily on the first transfer so Speed and Configure can still take effect.
type periphSPI struct {
	port spi.PortCloser
	conn spi.Conn
	hz   physic.Frequency
	mode spi.Mode
	bits int
}

func (s *periphSPI) Tx(w, r []byte) error {
	if s.conn == nil {
		conn, err := s.port.Connect(s.hz, s.mode, s.bits)
		if err != nil {
			return fmt.Errorf("SPI: connect: %s", err)
		}
		s.conn = conn
	}
	return s.conn.Tx(w, r)
}

func (s *periphSPI) Speed(hz int64) error {
	if s.conn != nil {
		return fmt.Errorf("SPI: cannot change speed after first transfer")
	}
	s.hz = physic.Frequency(hz) * physic.Hertz
	return nil
}

func (s *periphSPI) Configure(mode int, bits int) error {
	if s.conn != nil {
		return fmt.Errorf("SPI: cannot change mode after first transfer")
	}
	switch mode {
	case SPIMode0:
		s.mode = spi.Mode0
	case SPIMode1:
		s.mode = spi.Mode1
	case SPIMode2:
		s.mode = spi.Mode2
	case SPIMode3:
		s.mode = spi.Mode3
	default:
		return fmt.Errorf("SPI: invalid mode %d", mode)
	}
	s.bits = bits
	return nil
}

func (s *periphSPI) Close() error {
	return s.port.Close()
}
