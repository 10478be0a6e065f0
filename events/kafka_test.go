package events

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/Shopify/sarama"
	"github.com/Shopify/sarama/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKafkaLogEvent(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)

	var got map[string]interface{}
	producer.ExpectSendMessageWithMessageCheckerFunctionAndSucceed(func(msg *sarama.ProducerMessage) error {
		assert.Equal(t, "cafe_events", msg.Topic)
		data, err := msg.Value.Encode()
		if err != nil {
			return err
		}
		return json.Unmarshal(data, &got)
	})

	k := NewKafkaWithProducer(producer, "cafe_events")
	require.NoError(t, k.LogEvent(CartCleared, map[string]interface{}{"user_id": "u1"}))
	require.NoError(t, k.Close())

	assert.Equal(t, "cart_cleared", got["event"])
	assert.Equal(t, "u1", got["user_id"])
	assert.Contains(t, got, "timestamp")
}

func TestKafkaLogEventSendFailure(t *testing.T) {
	producer := mocks.NewSyncProducer(t, nil)
	producer.ExpectSendMessageAndFail(errors.New("broker down"))

	k := NewKafkaWithProducer(producer, "cafe_events")
	err := k.LogEvent(QuotePriced, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broker down")
	require.NoError(t, k.Close())
}

func TestRecorder(t *testing.T) {
	var r Recorder
	fields := map[string]interface{}{"pruned": 2}
	require.NoError(t, r.LogEvent(SessionsCleaned, fields))
	require.NoError(t, Nop{}.LogEvent(SessionsCleaned, fields))

	assert.Equal(t, []string{SessionsCleaned}, r.Names())
	assert.Equal(t, 2, r.Events()[0].Fields["pruned"])
	assert.NotContains(t, fields, "event", "caller's map is not mutated")
}
