// Copyright (c) 2016 by Thorsten von Eicken, see LICENSE file for details

// Mqttimu reads one or more MPU-9250 IMUs attached to SPI buses and publishes their samples
// to an MQTT broker as JSON messages. Two IMUs can share one SPI port through a chip-select
// demux, see the spimux package for the circuit.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"
)

// LogPrintf is the function type used for debug logging, a-la log.Printf.
type LogPrintf func(format string, v ...interface{})

func main() {
	configFile := flag.String("config", "mqttimu.yml", "configuration file")
	debug := flag.Bool("debug", false, "enable debug output")
	flag.Parse()

	config, err := readConfig(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "mqttimu: %s\n", err)
		os.Exit(1)
	}

	var logger LogPrintf
	if *debug {
		logger = log.Printf
	}

	mq, err := newMQ(config.Mqtt, logger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to MQTT broker: %s\n", err)
		os.Exit(2)
	}

	muxes := make(map[string]*muxPair)
	for _, ic := range config.Imus {
		if err := startImu(ic, muxes, mq, logger); err != nil {
			fmt.Fprintf(os.Stderr, "Exiting due to error: %s\n", err)
			os.Exit(2)
		}
	}

	log.Printf("mqttimu is ready")
	for {
		time.Sleep(time.Hour)
	} // ugh!
}
