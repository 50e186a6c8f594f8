package sensors

// stuff in here is a hack to be able to switch between embd and periph...

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/kidoman/embd"
)

// SPI is the capability a driver needs from the bus: a full-duplex transfer plus speed and
// mode configuration. Tx clocks w out and fills r in lockstep, so both buffers must have the
// same length. Chip select is asserted for the duration of one Tx call, which makes one Tx
// one logical register transaction.
type SPI interface {
	Tx(w, r []byte) error
	Speed(hz int64) error
	Configure(mode int, bits int) error
	Close() error
}

const (
	SPIMode0 = 0x0 // CPOL=0, CPHA=0
	SPIMode1 = 0x1 // CPOL=0, CPHA=1
	SPIMode2 = 0x2 // CPOL=1, CPHA=0
	SPIMode3 = 0x3 // CPOL=1, CPHA=1
)

type GPIO interface {
	In(edge int) error
	Read() int
	WaitForEdge(timeout time.Duration) bool
	Out(level int)
	Number() int
}

const (
	GpioLow         = 0
	GpioHigh        = 1
	GpioNoEdge      = 0
	GpioRisingEdge  = 1
	GpioFallingEdge = 2
	GpioBothEdges   = 3
)

//===== SPI shim for embd

func NewSPI() SPI {
	return &spiShim{embd.NewSPIBus(embd.SPIMode0, 0, 4, 8, 0)}
}

type spiShim struct {
	embd.SPIBus
}

func (s *spiShim) Tx(w, r []byte) error {
	if len(w) != len(r) {
		return fmt.Errorf("SPI: tx/rx length mismatch (%d vs %d)", len(w), len(r))
	}
	copy(r, w)
	return s.TransferAndReceiveData(r)
}

func (s *spiShim) Speed(hz int64) error {
	if hz != 4000000 {
		return errors.New("SPI: sorry, only 4Mhz supported")
	}
	return nil
}

func (s *spiShim) Configure(mode int, bits int) error {
	if mode != SPIMode0 {
		return errors.New("SPI: sorry, only SPI mode 0 supported")
	}
	if bits != 8 {
		return errors.New("SPI: sorry, only 8-bit mode supported")
	}
	return nil
}

//===== GPIO shim for embd

func NewGPIO(name string) GPIO {
	g, err := embd.NewDigitalPin(name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "NewDigitalPin: %s\n", err)
		return nil
	}
	return &gpioShim{p: g, dir: embd.In, edge: make(chan struct{}, 1)}
}

type gpioShim struct {
	p    embd.DigitalPin
	dir  embd.Direction
	edge chan struct{}
}

func (g *gpioShim) In(edge int) error {
	if err := g.p.SetDirection(embd.In); err != nil {
		return err
	}
	g.dir = embd.In
	if edge != GpioNoEdge {
		e := []embd.Edge{embd.EdgeNone, embd.EdgeRising, embd.EdgeFalling, embd.EdgeBoth}[edge]
		return g.p.Watch(e, g.edgeCB)
	}
	return nil
}

func (g *gpioShim) Read() int {
	v, _ := g.p.Read()
	return v
}

func (g *gpioShim) WaitForEdge(timeout time.Duration) bool {
	to := time.After(timeout)
	select {
	case <-g.edge:
		return true
	case <-to:
		return false
	}
}

func (g *gpioShim) Out(level int) {
	if g.dir != embd.Out {
		g.p.SetDirection(embd.Out)
		g.dir = embd.Out
	}
	g.p.Write(level)
}

func (g *gpioShim) Number() int {
	return g.p.N()
}

func (g *gpioShim) edgeCB(embd.DigitalPin) {
	select {
	case g.edge <- struct{}{}:
	default:
	}
}
