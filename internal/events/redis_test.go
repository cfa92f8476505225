package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func TestMock_RecordsEvents(t *testing.T) {
	m := NewMock()
	m.PublishFunc = func(e Event) error {
		if e.Type == EventMatchCancelled {
			return errors.New("broker down")
		}
		return nil
	}

	require.NoError(t, m.Publish(context.Background(), Event{Type: EventQueueJoined}))
	assert.Error(t, m.Publish(context.Background(), Event{Type: EventMatchCancelled}))
	assert.Equal(t, []EventType{EventQueueJoined, EventMatchCancelled}, m.Types())

	m.Reset()
	assert.Empty(t, m.Types())
}

func TestRedisPublisher_Publish(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections").WithStartupTimeout(60 * time.Second),
		},
		Started: true,
	})
	require.NoError(t, err, "Failed to start Redis container")
	defer func() { _ = container.Terminate(ctx) }()

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client, err := Connect(ctx, fmt.Sprintf("redis://%s:%s/0", host, port.Port()))
	require.NoError(t, err)
	defer client.Close()

	pub := NewRedisPublisher(client, "")
	assert.Equal(t, DefaultChannel, pub.Channel())

	sub := client.Subscribe(ctx, pub.Channel())
	defer sub.Close()
	_, err = sub.Receive(ctx)
	require.NoError(t, err)

	event := Event{
		Type:       EventMatchFinished,
		SessionID:  "session-1",
		OccurredAt: time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC),
		Data:       map[string]any{"match_id": "match-1", "winner": "TEAM_A"},
	}
	require.NoError(t, pub.Publish(ctx, event))

	msg, err := sub.ReceiveMessage(ctx)
	require.NoError(t, err)

	var got Event
	require.NoError(t, json.Unmarshal([]byte(msg.Payload), &got))
	assert.Equal(t, EventMatchFinished, got.Type)
	assert.Equal(t, "session-1", got.SessionID)
	assert.True(t, event.OccurredAt.Equal(got.OccurredAt))
	assert.Equal(t, map[string]any{"match_id": "match-1", "winner": "TEAM_A"}, got.Data)
}
