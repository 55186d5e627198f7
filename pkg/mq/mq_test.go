package mq

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testEvent struct {
	ReviewID uint   `json:"review_id"`
	Action   string `json:"action"`
}

func TestEncode(t *testing.T) {
	now := time.Unix(1700000000, 0)
	msg, err := Encode(testEvent{ReviewID: 7, Action: "created"}, now)
	require.NoError(t, err)

	assert.Equal(t, "application/json", msg.ContentType)
	assert.Equal(t, amqp.Persistent, msg.DeliveryMode)
	assert.Equal(t, now, msg.Timestamp)
	assert.JSONEq(t, `{"review_id":7,"action":"created"}`, string(msg.Body))

	_, err = Encode(make(chan int), now)
	assert.Error(t, err)
}

// 需要真实RabbitMQ：设置COURSEBOOK_TEST_AMQP_URL后运行
func TestPublishConsume(t *testing.T) {
	url := os.Getenv("COURSEBOOK_TEST_AMQP_URL")
	if url == "" {
		t.Skip("COURSEBOOK_TEST_AMQP_URL未设置，跳过RabbitMQ测试")
	}
	const exchange = "coursebook.test.events"

	consumer, err := NewConsumer(url, exchange, ExchangeTopic, "", []string{"review.*"})
	require.NoError(t, err)
	defer consumer.Close()

	publisher, err := NewPublisher(url, exchange, ExchangeTopic)
	require.NoError(t, err)
	defer publisher.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	received := make(chan testEvent, 1)
	go func() {
		_ = consumer.Consume(ctx, func(ctx context.Context, key string, body []byte) error {
			var e testEvent
			if err := json.Unmarshal(body, &e); err != nil {
				return err
			}
			received <- e
			return nil
		})
	}()

	require.NoError(t, publisher.Publish(ctx, "review.created", testEvent{ReviewID: 1, Action: "created"}))

	select {
	case e := <-received:
		assert.Equal(t, uint(1), e.ReviewID)
	case <-ctx.Done():
		t.Fatal("未收到消息")
	}
}
