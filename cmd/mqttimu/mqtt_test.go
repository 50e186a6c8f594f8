// Copyright (c) 2016 by Thorsten von Eicken, see LICENSE file for details

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// A refused connection completes the connect token within the timeout but with an error,
// which newMQ must surface instead of returning a live-looking handle.
func TestNewMQConnectRefused(t *testing.T) {
	mq, err := newMQ(MqttConfig{Host: "127.0.0.1", Port: 1}, t.Logf)
	require.Error(t, err)
	assert.Nil(t, mq)
	assert.Contains(t, err.Error(), "127.0.0.1:1")
}
