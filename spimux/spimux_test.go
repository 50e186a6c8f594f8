// Copyright 2017 by Thorsten von Eicken, see LICENSE file

package spimux

import (
	"testing"
	"time"
)

type fakeSPI struct {
	sel  *fakePin
	txns []int // select pin level seen at the start of each transaction
}

func (f *fakeSPI) Tx(w, r []byte) error {
	f.txns = append(f.txns, f.sel.level)
	return nil
}
func (f *fakeSPI) Speed(hz int64) error           { return nil }
func (f *fakeSPI) Configure(mode, bits int) error { return nil }
func (f *fakeSPI) Close() error                   { return nil }

type fakePin struct {
	level int
}

func (p *fakePin) In(edge int) error                      { return nil }
func (p *fakePin) Read() int                              { return p.level }
func (p *fakePin) WaitForEdge(timeout time.Duration) bool { return false }
func (p *fakePin) Out(level int)                          { p.level = level }
func (p *fakePin) Number() int                            { return 0 }

func TestSelect(t *testing.T) {
	pin := &fakePin{level: -1}
	bus := &fakeSPI{sel: pin}
	c0, c1 := New(bus, pin)

	buf := []byte{0, 0}
	if err := c0.Tx(buf, buf); err != nil {
		t.Fatal(err)
	}
	if err := c1.Tx(buf, buf); err != nil {
		t.Fatal(err)
	}
	if err := c0.Tx(buf, buf); err != nil {
		t.Fatal(err)
	}

	expect := []int{0, 1, 0}
	if len(bus.txns) != len(expect) {
		t.Fatalf("got %d transactions, expected %d", len(bus.txns), len(expect))
	}
	for i := range expect {
		if bus.txns[i] != expect[i] {
			t.Fatalf("transaction %d saw select level %d, expected %d", i, bus.txns[i], expect[i])
		}
	}
}
