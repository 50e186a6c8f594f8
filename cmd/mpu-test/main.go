// Copyright (c) 2016 by Thorsten von Eicken, see LICENSE file for details

package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/tve/sensors"
	"github.com/tve/sensors/mpu9250"
)

func mainImpl() error {
	spiDev := flag.String("spi", "", "SPI port name, empty for the first available port")
	accel := flag.Int("accel", 0, "accel full-scale selector 0..3 = ±2g, ±4g, ±8g, ±16g")
	gyro := flag.Int("gyro", 0, "gyro full-scale selector 0..3 = ±250, ±500, ±1000, ±2000 °/s")
	count := flag.Int("n", 10, "number of samples to print")
	interval := flag.Duration("interval", 500*time.Millisecond, "time between samples")
	debug := flag.Bool("debug", false, "enable debug output")
	flag.Parse()

	spi, err := sensors.OpenSPI(*spiDev)
	if err != nil {
		return err
	}
	defer spi.Close()

	var logger mpu9250.LogPrintf
	if *debug {
		logger = log.Printf
	}

	log.Printf("Initializing MPU-9250...")
	t0 := time.Now()
	imu, err := mpu9250.New(spi, mpu9250.Opts{
		AccelRange: byte(*accel),
		GyroRange:  byte(*gyro),
		Logger:     logger,
	})
	if err != nil {
		return err
	}
	log.Printf("Ready (%.1fms)", time.Since(t0).Seconds()*1000)

	for i := 0; i < *count; i++ {
		s, err := imu.Motion6()
		if err != nil {
			return err
		}
		log.Printf("accel %+6.3f %+6.3f %+6.3f g  gyro %+8.2f %+8.2f %+8.2f °/s  temp %.1f°C",
			s.Accel[0], s.Accel[1], s.Accel[2], s.Gyro[0], s.Gyro[1], s.Gyro[2], s.Temp)
		time.Sleep(*interval)
	}
	return nil
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "mpu-test: %s.\n", err)
		os.Exit(1)
	}
}
