package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCheckMQTTTopic(t *testing.T) {

	assert := assert.New(t)

	topic, err := CheckMQTTTopic("solax2mqtt")
	assert.NoError(err)
	assert.Equal("solax2mqtt", topic)

	topic, err = CheckMQTTTopic("Solax2MQTT")
	assert.NoError(err)
	assert.Equal("solax2mqtt", topic, "topic is lowercased")

	_, err = CheckMQTTTopic("solax/2mqtt")
	assert.Error(err)

	_, err = CheckMQTTTopic("")
	assert.Error(err)
}
