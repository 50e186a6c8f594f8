// Copyright (c) 2016 by Thorsten von Eicken, see LICENSE file for details

package main

import (
	"fmt"
	"log"
	"time"

	"github.com/tve/sensors"
	"github.com/tve/sensors/mpu9250"
	"github.com/tve/sensors/spimux"
	"github.com/tve/sensors/thread"
)

// Reading is the JSON structure published to MQTT for each IMU sample.
type Reading struct {
	Accel [3]float64 `json:"accel"` // X, Y, Z acceleration in g
	Gyro  [3]float64 `json:"gyro"`  // X, Y, Z rotation rate in °/s
	Temp  float64    `json:"temp"`  // chip temperature in °C
	At    time.Time  `json:"at"`    // time the sample was read
}

// muxPair holds the two connections spimux carves out of one SPI port.
type muxPair struct {
	conn [2]sensors.SPI
}

// startImu gets a handle onto the SPI device for one configured IMU, dealing with the CS
// demux if there is one, initializes the chip, and starts the sampling goroutine.
func startImu(c ImuConfig, muxes map[string]*muxPair, mq *mq, debug LogPrintf) error {
	if debug != nil {
		debug("Configuring IMU for %s: %+v", c.Prefix, c)
	}

	var dev sensors.SPI
	switch {
	case c.CSMuxPin != "":
		pair, ok := muxes[c.CSMuxPin]
		if !ok {
			bus, err := openSPI(c)
			if err != nil {
				return err
			}
			selPin := sensors.NewGPIO(c.CSMuxPin)
			if selPin == nil {
				return fmt.Errorf("cannot open pin %s", c.CSMuxPin)
			}
			c0, c1 := spimux.New(bus, selPin)
			pair = &muxPair{conn: [2]sensors.SPI{c0, c1}}
			muxes[c.CSMuxPin] = pair
		}
		dev = pair.conn[c.CSMuxSel]
	default:
		var err error
		dev, err = openSPI(c)
		if err != nil {
			return err
		}
	}

	var imuLog mpu9250.LogPrintf
	if debug != nil {
		imuLog = mpu9250.LogPrintf(debug)
	}
	opts := mpu9250.Opts{
		AccelRange: c.AccelRange,
		GyroRange:  c.GyroRange,
		Logger:     imuLog,
	}
	if c.IntrPin != "" {
		// Pace the chip instead of a ticker: program the sample rate into the chip
		// and block on its data-ready interrupt.
		opts.IntrPin = sensors.NewGPIO(c.IntrPin)
		if opts.IntrPin == nil {
			return fmt.Errorf("cannot open pin %s", c.IntrPin)
		}
		opts.SampleRate = c.RateHz
	}
	imu, err := mpu9250.New(dev, opts)
	if err != nil {
		return err
	}

	if c.IntrPin != "" {
		go sampleIntr(imu, c.Prefix, mq, debug)
	} else {
		go sample(imu, c.Prefix, c.RateHz, mq, debug)
	}
	return nil
}

// openSPI opens the configured SPI port using the selected driver.
func openSPI(c ImuConfig) (sensors.SPI, error) {
	if c.Embd {
		return sensors.NewSPI(), nil
	}
	return sensors.OpenSPI(c.SpiPort)
}

// sample reads the IMU at the configured rate forever and publishes each sample. Read errors
// are treated as fatal for the goroutine: after an SPI error there is no telling what state
// the chip is in, and restarting the process is the recovery that works.
func sample(imu *mpu9250.Dev, prefix string, rateHz int, mq *mq, debug LogPrintf) {
	if err := thread.Realtime(10); err != nil {
		log.Printf("%s: cannot set realtime priority: %s", prefix, err)
	}
	topic := prefix + "/motion"
	ticker := time.NewTicker(time.Second / time.Duration(rateHz))
	defer ticker.Stop()
	for range ticker.C {
		s, err := imu.Motion6()
		if err != nil {
			log.Printf("%s: read failed: %s", prefix, err)
			return
		}
		mq.Publish(topic, Reading{Accel: s.Accel, Gyro: s.Gyro, Temp: s.Temp, At: s.At})
	}
}

// sampleIntr publishes a sample for each data-ready interrupt the chip raises. The chip was
// programmed to sample at the configured rate, so a second without an interrupt means the
// chip or the wiring died and the goroutine gives up, same as sample does on a read error.
func sampleIntr(imu *mpu9250.Dev, prefix string, mq *mq, debug LogPrintf) {
	if err := thread.Realtime(10); err != nil {
		log.Printf("%s: cannot set realtime priority: %s", prefix, err)
	}
	topic := prefix + "/motion"
	for {
		s, err := imu.WaitForSample(time.Second)
		if err != nil {
			log.Printf("%s: read failed: %s", prefix, err)
			return
		}
		mq.Publish(topic, Reading{Accel: s.Accel, Gyro: s.Gyro, Temp: s.Temp, At: s.At})
	}
}
