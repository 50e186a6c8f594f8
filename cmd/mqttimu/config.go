// Copyright (c) 2016 by Thorsten von Eicken, see LICENSE file for details

package main

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v2"
)

// Config is the top-level YAML configuration for the gateway.
type Config struct {
	Mqtt MqttConfig  `yaml:"mqtt"`
	Imus []ImuConfig `yaml:"imus"`
}

// MqttConfig describes the broker connection.
type MqttConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// ImuConfig describes one IMU attached to an SPI bus, possibly behind a chip-select demux
// shared with a second IMU.
type ImuConfig struct {
	Prefix     string `yaml:"prefix"`   // MQTT topic prefix, e.g. imu/0
	SpiPort    string `yaml:"spiport"`  // SPI port name, empty for the first available port
	Embd       bool   `yaml:"embd"`     // use the embd SPI driver instead of periph
	CSMuxPin   string `yaml:"csmuxpin"` // gpio pin steering the CS demux, empty when unmuxed
	CSMuxSel   int    `yaml:"csmuxsel"` // demux side this IMU's CS is wired to, 0 or 1
	IntrPin    string `yaml:"intrpin"`  // gpio pin wired to the chip's INT output, empty to poll
	RateHz     int    `yaml:"ratehz"`   // samples per second to publish
	AccelRange byte   `yaml:"accelrange"`
	GyroRange  byte   `yaml:"gyrorange"`
}

// readConfig loads and validates the YAML config file, filling in defaults.
func readConfig(file string) (*Config, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, fmt.Errorf("cannot open config file: %s", err)
	}
	defer f.Close()

	var c Config
	dec := yaml.NewDecoder(f)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("cannot decode config file %s: %s", file, err)
	}

	if c.Mqtt.Host == "" {
		c.Mqtt.Host = "localhost"
	}
	if c.Mqtt.Port == 0 {
		c.Mqtt.Port = 1883
	}
	if len(c.Imus) == 0 {
		return nil, fmt.Errorf("config has no imus")
	}
	for i := range c.Imus {
		ic := &c.Imus[i]
		if ic.Prefix == "" {
			ic.Prefix = fmt.Sprintf("imu/%d", i)
		}
		if ic.RateHz == 0 {
			ic.RateHz = 10
		}
		if ic.RateHz < 1 || ic.RateHz > 200 {
			return nil, fmt.Errorf("imu %s: ratehz %d out of range 1..200", ic.Prefix, ic.RateHz)
		}
		// Range selectors are 2-bit fields, catch config typos here rather than
		// deep inside the driver.
		if ic.AccelRange > 3 {
			return nil, fmt.Errorf("imu %s: accelrange %d out of range 0..3", ic.Prefix, ic.AccelRange)
		}
		if ic.GyroRange > 3 {
			return nil, fmt.Errorf("imu %s: gyrorange %d out of range 0..3", ic.Prefix, ic.GyroRange)
		}
		if ic.CSMuxSel != 0 && ic.CSMuxSel != 1 {
			return nil, fmt.Errorf("imu %s: csmuxsel must be 0 or 1", ic.Prefix)
		}
		// An interrupt-paced IMU has the chip's sample rate programmed to ratehz,
		// which the chip cannot divide down below 4Hz.
		if ic.IntrPin != "" && ic.RateHz < 4 {
			return nil, fmt.Errorf("imu %s: ratehz %d too low for intrpin, need at least 4", ic.Prefix, ic.RateHz)
		}
	}
	return &c, nil
}
