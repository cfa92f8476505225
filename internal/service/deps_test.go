package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aidar/courtmatch/internal/events"
)

func TestNextJoinTime(t *testing.T) {
	now := time.Date(2026, 10, 18, 18, 0, 0, 0, time.UTC)

	assert.Equal(t, now, nextJoinTime(time.Time{}, now))
	assert.Equal(t, now, nextJoinTime(now.Add(-time.Second), now))
	// a tail at or after now is passed by one microsecond
	assert.Equal(t, now.Add(time.Microsecond), nextJoinTime(now, now))
	assert.Equal(t, now.Add(time.Second+time.Microsecond), nextJoinTime(now.Add(time.Second), now))
}

func TestDeps_PublishFailureIsSwallowed(t *testing.T) {
	pub := events.NewMock()
	pub.PublishFunc = func(events.Event) error { return errors.New("broker down") }

	d := Deps{
		Publisher: pub,
		Now:       func() time.Time { return time.Date(2026, 10, 18, 18, 0, 0, 1500, time.FixedZone("X", 3600)) },
	}.withDefaults()

	d.publish(context.Background(), events.EventMatchFinished, "s1", nil)

	require.Len(t, pub.Published, 1)
	assert.Equal(t, "s1", pub.Published[0].SessionID)
	assert.Equal(t, time.UTC, pub.Published[0].OccurredAt.Location())
	assert.Equal(t, 1000, pub.Published[0].OccurredAt.Nanosecond())
}
