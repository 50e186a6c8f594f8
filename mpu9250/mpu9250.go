// Copyright 2016 by Thorsten von Eicken, see LICENSE file

// The mpu9250 package interfaces with an InvenSense MPU-9250 (or MPU-9255/MPU-6500) inertial
// measurement unit connected to an SPI bus.
//
// The chip exposes a bank of 7-bit registers behind the control-byte framing implemented in
// the regio package: each transaction starts with the register address, with the top bit set
// for reads, and consecutive registers are read in a single burst by clocking out filler
// bytes. The accelerometer and gyroscope axis values are 16-bit big-endian signed quantities
// spread over _H/_L register pairs and scale with the configured full-scale range.
//
// The driver reads the data registers directly, it does not use the chip's FIFO. A complete
// sample (three accelerometer axes, chip temperature, three gyroscope axes) is read in one
// 14-register burst so all values stem from the same internal sample instant. Callers either
// poll on their own schedule or, when the chip's INT output is wired to an edge-capable gpio
// pin, pass the pin in Opts and pace themselves on the data-ready interrupt via
// WaitForSample.
//
// The configuration methods are not concurrency safe. Individual register transactions are
// serialized by an internal mutex, so sampling from one goroutine while another goroutine
// owns the configuration is fine; nothing else is.
//
// The magnetometer behind the chip's internal I2C master is not supported, this driver
// operates the chip in SPI-only mode and disables the I2C slave interface.
//
// Datasheet: https://invensense.tdk.com/wp-content/uploads/2015/02/PS-MPU-9250A-01-v1.1.pdf
package mpu9250

import (
	"fmt"
	"sync"
	"time"

	"github.com/tve/sensors"
	"github.com/tve/sensors/regio"
)

// LogPrintf is the function type used for debug logging, a-la log.Printf.
type LogPrintf func(format string, v ...interface{})

// Dev represents an MPU-9250 device.
type Dev struct {
	spi     sensors.SPI  // SPI device to access the chip
	intrPin sensors.GPIO // data-ready interrupt pin, nil when polling
	// configuration
	accelSel byte // FS_SEL selector programmed into ACCEL_CONFIG
	gyroSel  byte // FS_SEL selector programmed into GYRO_CONFIG
	log      LogPrintf
	// state
	sync.Mutex // serializes register transactions on the bus
}

// Opts contains options used when initializing a Dev.
type Opts struct {
	AccelRange byte         // full-scale selector 0..3 = ±2g, ±4g, ±8g, ±16g
	GyroRange  byte         // full-scale selector 0..3 = ±250, ±500, ±1000, ±2000 °/s
	SampleRate int          // chip sample rate in Hz, 4..1000, 0 leaves the chip default
	IntrPin    sensors.GPIO // pin wired to the chip's INT output, nil to poll
	Logger     LogPrintf    // function to use for debug logging, nil for none
}

// Sample is one complete reading of the chip's data registers.
type Sample struct {
	Accel [3]float64 // X, Y, Z acceleration in g
	Gyro  [3]float64 // X, Y, Z rotation rate in °/s
	Temp  float64    // chip temperature in °C
	At    time.Time  // time the registers were read
}

// New initializes an MPU-9250 given an SPI device and programs both full-scale ranges. When
// Opts carries an interrupt pin the chip's data-ready interrupt is enabled as well and
// WaitForSample becomes usable.
//
// The SPI bus must support mode 0; the driver asks for 4Mhz, which is above the 1Mhz the
// datasheet specifies for configuration registers but works fine in practice.
//
// New verifies the chip's identity via WHO_AM_I with a retry loop: right after power-up the
// chip can need a few ms before it responds sensibly.
func New(dev sensors.SPI, opts Opts) (*Dev, error) {
	d := &Dev{spi: dev, log: func(format string, v ...interface{}) {}}
	if opts.Logger != nil {
		d.log = func(format string, v ...interface{}) {
			opts.Logger("mpu9250: "+format, v...)
		}
	}

	// Set SPI parameters.
	if err := dev.Speed(4 * 1000 * 1000); err != nil {
		return nil, fmt.Errorf("mpu9250: cannot set speed, %v", err)
	}
	if err := dev.Configure(sensors.SPIMode0, 8); err != nil {
		return nil, fmt.Errorf("mpu9250: cannot set mode, %v", err)
	}

	// Reset the chip so we start from its power-up defaults.
	if err := d.writeReg(REG_PWR_MGMT_1, PWR1_RESET); err != nil {
		return nil, err
	}
	time.Sleep(100 * time.Millisecond)

	// Try to find the chip.
	id, err := d.identify()
	if err != nil {
		return nil, err
	}
	d.log("found chip, who-am-i %#x", id)

	// Program the initial configuration.
	for i := 0; i < len(configRegs); i += 2 {
		if err := d.writeReg(configRegs[i], configRegs[i+1]); err != nil {
			return nil, err
		}
	}
	if opts.SampleRate != 0 {
		if opts.SampleRate < 4 || opts.SampleRate > 1000 {
			return nil, fmt.Errorf("mpu9250: sample rate %d out of range 4..1000", opts.SampleRate)
		}
		// the chip divides its 1khz internal rate by 1+SMPLRT_DIV
		if err := d.writeReg(REG_SMPLRT_DIV, byte(1000/opts.SampleRate-1)); err != nil {
			return nil, err
		}
	}
	if err := d.SetAccelRange(opts.AccelRange); err != nil {
		return nil, err
	}
	if err := d.SetGyroRange(opts.GyroRange); err != nil {
		return nil, err
	}
	if opts.IntrPin != nil {
		if err := opts.IntrPin.In(sensors.GpioRisingEdge); err != nil {
			return nil, fmt.Errorf("mpu9250: cannot watch interrupt pin: %s", err)
		}
		if err := d.writeReg(REG_INT_PIN_CFG, INTCFG_LATCH_INT_EN|INTCFG_INT_ANYRD_2CLR); err != nil {
			return nil, err
		}
		if err := d.writeReg(REG_INT_ENABLE, INTEN_RAW_RDY_EN); err != nil {
			return nil, err
		}
		d.intrPin = opts.IntrPin
	}
	return d, nil
}

// identify polls WHO_AM_I until a supported chip answers.
func (d *Dev) identify() (byte, error) {
	var id byte
	for n := 10; n > 0; n-- {
		var err error
		id, err = d.readReg(REG_WHO_AM_I)
		if err != nil {
			return 0, err
		}
		switch id {
		case WHOAMI_MPU9250, WHOAMI_MPU9255, WHOAMI_MPU6500:
			return id, nil
		}
		time.Sleep(10 * time.Millisecond)
	}
	return 0, fmt.Errorf("mpu9250: cannot find chip, who-am-i reads %#x", id)
}

// SetAccelRange programs the accelerometer full-scale range, sel is the 2-bit FS_SEL
// selector: 0=±2g 1=±4g 2=±8g 3=±16g.
func (d *Dev) SetAccelRange(sel byte) error {
	if sel > 3 {
		return &regio.InvalidSelectorError{Selector: sel, Kind: regio.Accel}
	}
	if err := d.writeReg(REG_ACCEL_CONFIG, sel<<FS_SEL_SHIFT); err != nil {
		return err
	}
	d.accelSel = sel
	return nil
}

// SetGyroRange programs the gyroscope full-scale range, sel is the 2-bit FS_SEL selector:
// 0=±250 1=±500 2=±1000 3=±2000 °/s.
func (d *Dev) SetGyroRange(sel byte) error {
	if sel > 3 {
		return &regio.InvalidSelectorError{Selector: sel, Kind: regio.Gyro}
	}
	if err := d.writeReg(REG_GYRO_CONFIG, sel<<FS_SEL_SHIFT); err != nil {
		return err
	}
	d.gyroSel = sel
	return nil
}

// Accel reads the three accelerometer axes and returns them in g.
func (d *Dev) Accel() ([3]float64, error) {
	raw, err := d.readRegs(REG_ACCEL_XOUT_H, 6)
	if err != nil {
		return [3]float64{}, err
	}
	return d.convertAxes(raw, d.accelSel, regio.Accel)
}

// Gyro reads the three gyroscope axes and returns them in °/s.
func (d *Dev) Gyro() ([3]float64, error) {
	raw, err := d.readRegs(REG_GYRO_XOUT_H, 6)
	if err != nil {
		return [3]float64{}, err
	}
	return d.convertAxes(raw, d.gyroSel, regio.Gyro)
}

// Temperature reads the chip's internal temperature sensor and returns °C.
func (d *Dev) Temperature() (float64, error) {
	raw, err := d.readRegs(REG_TEMP_OUT_H, 2)
	if err != nil {
		return 0, err
	}
	return tempCelsius(regio.Int16BE(raw[0], raw[1])), nil
}

// Motion6 reads accelerometer, temperature, and gyroscope in a single 14-register burst,
// which guarantees all values come from the same sample instant. The registers conveniently
// sit back-to-back: ACCEL_*OUT at 0x3B..0x40, TEMP_OUT at 0x41..0x42, GYRO_*OUT at
// 0x43..0x48.
func (d *Dev) Motion6() (*Sample, error) {
	raw, err := d.readRegs(REG_ACCEL_XOUT_H, 14)
	if err != nil {
		return nil, err
	}
	s := &Sample{At: time.Now()}
	if s.Accel, err = d.convertAxes(raw[0:6], d.accelSel, regio.Accel); err != nil {
		return nil, err
	}
	s.Temp = tempCelsius(regio.Int16BE(raw[6], raw[7]))
	if s.Gyro, err = d.convertAxes(raw[8:14], d.gyroSel, regio.Gyro); err != nil {
		return nil, err
	}
	return s, nil
}

// WaitForSample blocks until the chip raises its data-ready interrupt, then reads the
// complete sample. The Motion6 burst clears the latched interrupt since any register read
// does. An error is returned when no interrupt pin was configured or when no interrupt
// arrives within the timeout, which at the configured sample rate means the chip or the
// wiring is in trouble.
func (d *Dev) WaitForSample(timeout time.Duration) (*Sample, error) {
	if d.intrPin == nil {
		return nil, fmt.Errorf("mpu9250: no interrupt pin configured")
	}
	if !d.intrPin.WaitForEdge(timeout) {
		return nil, fmt.Errorf("mpu9250: data-ready interrupt timeout")
	}
	return d.Motion6()
}

// convertAxes turns six raw _H/_L bytes into three physical axis values.
func (d *Dev) convertAxes(raw []byte, sel byte, kind regio.Kind) ([3]float64, error) {
	var out [3]float64
	for i := 0; i < 3; i++ {
		v, err := regio.FullScale(regio.Int16BE(raw[2*i], raw[2*i+1]), sel, kind)
		if err != nil {
			return out, err
		}
		out[i] = v
	}
	return out, nil
}

// tempCelsius converts the raw temperature register value per the datasheet's room
// temperature offset and sensitivity.
func tempCelsius(raw int16) float64 {
	return float64(raw)/333.87 + 21.0
}

// writeReg writes one register.
func (d *Dev) writeReg(addr, value byte) error {
	d.Lock()
	defer d.Unlock()
	f := regio.WriteFrame(addr, value)
	if err := d.spi.Tx(f.Tx, f.Rx); err != nil {
		return fmt.Errorf("mpu9250: write reg %#x: %s", addr, err)
	}
	return nil
}

// readRegs reads count consecutive registers starting at addr in one burst.
func (d *Dev) readRegs(addr byte, count int) ([]byte, error) {
	d.Lock()
	defer d.Unlock()
	f, err := regio.ReadFrame(addr, count)
	if err != nil {
		return nil, err
	}
	if err := d.spi.Tx(f.Tx, f.Rx); err != nil {
		return nil, fmt.Errorf("mpu9250: read reg %#x: %s", addr, err)
	}
	return regio.DecodeRead(f.Rx)
}

// readReg reads one register and returns its value.
func (d *Dev) readReg(addr byte) (byte, error) {
	v, err := d.readRegs(addr, 1)
	if err != nil {
		return 0, err
	}
	return v[0], nil
}
