// Copyright (c) 2016 by Thorsten von Eicken, see LICENSE file for details

package main

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
)

// mq is a handle onto an MQTT broker connection.
type mq struct {
	conn  mqtt.Client
	debug LogPrintf
}

// newMQ connects to a broker and returns a new mq object. The connection is persistent,
// i.e., re-establishes itself if there is a disconnect.
func newMQ(conf MqttConfig, debug LogPrintf) (*mq, error) {
	hostname, _ := os.Hostname()
	id := "mqttimu-" + hostname
	if debug != nil {
		debug("Configuring MQTT with client id %s: %s:%d", id, conf.Host, conf.Port)
	}
	mqtt.ERROR = log.New(os.Stderr, "", 0)
	opts := mqtt.NewClientOptions().
		AddBroker(fmt.Sprintf("tcp://%s:%d", conf.Host, conf.Port))
	opts.ClientID = id
	opts.Username = conf.User
	opts.Password = conf.Password
	opts.AutoReconnect = true

	conn := mqtt.NewClient(opts)
	token := conn.Connect()
	// WaitTimeout returning false means the token never completed, in which case paho
	// leaves token.Error() nil, so the timeout needs its own error.
	if !token.WaitTimeout(10 * time.Second) {
		return nil, fmt.Errorf("timeout connecting to %s:%d", conf.Host, conf.Port)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("cannot connect to %s:%d: %s", conf.Host, conf.Port, err)
	}

	log.Printf("MQTT connected")
	return &mq{conn: conn, debug: debug}, nil
}

// Publish JSON-encodes the payload and publishes it at QoS 1. Publish errors are not worth
// aborting the sampling loop over, the persistent connection re-delivers queued messages
// after a reconnect.
func (mq *mq) Publish(topic string, payload interface{}) {
	jsonPayload, err := json.Marshal(payload)
	if err != nil {
		log.Printf("cannot json encode payload for %s: %s", topic, err)
		return
	}
	if mq.debug != nil {
		mq.debug("PUB %s %s", topic, jsonPayload)
	}
	mq.conn.Publish(topic, 1, false, jsonPayload)
}
