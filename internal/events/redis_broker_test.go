package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeRedisMessage(t *testing.T) {
	data, err := EncodeRedisMessage("abc", []byte(`{"id":"abc"}`))
	require.NoError(t, err)
	assert.JSONEq(t, `{"key":"abc","payload":{"id":"abc"}}`, string(data))
}

func TestRedisBroker_Publish(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	b := NewRedisBroker(rdb)

	payload := []byte(`{"id":"abc","schemaVersion":1}`)
	expected, err := EncodeRedisMessage("abc", payload)
	require.NoError(t, err)

	mock.ExpectPublish(TopicFeedbackSubmitted, expected).SetVal(1)
	require.NoError(t, b.Publish(context.Background(), TopicFeedbackSubmitted, "abc", payload))
	assert.NoError(t, mock.ExpectationsWereMet())

	var env redisEnvelope
	require.NoError(t, json.Unmarshal(expected, &env))
	assert.Equal(t, "abc", env.Key)
}

func TestRedisBroker_PublishError(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	b := NewRedisBroker(rdb)

	payload := []byte(`{}`)
	expected, err := EncodeRedisMessage("k", payload)
	require.NoError(t, err)

	mock.ExpectPublish(TopicFeedbackSubmitted, expected).SetErr(errors.New("connection reset"))
	err = b.Publish(context.Background(), TopicFeedbackSubmitted, "k", payload)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "redis publish")
}

func TestRedisBroker_Ping(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	b := NewRedisBroker(rdb)

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, b.Ping(context.Background()))

	mock.ExpectPing().SetErr(errors.New("down"))
	assert.Error(t, b.Ping(context.Background()))
}
