package notify

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RoomChannel is the pub/sub channel of a live socket room.
func RoomChannel(room string) string {
	return "room:" + room
}

// RedisRooms publishes live socket payloads over Redis pub/sub.
type RedisRooms struct {
	client redis.UniversalClient
}

// NewRedisRooms builds a RedisRooms publisher.
func NewRedisRooms(client redis.UniversalClient) *RedisRooms {
	return &RedisRooms{client: client}
}

// PublishRoom publishes payload to the room channel.
func (r *RedisRooms) PublishRoom(ctx context.Context, room string, payload []byte) error {
	if err := r.client.Publish(ctx, RoomChannel(room), payload).Err(); err != nil {
		return fmt.Errorf("publish room %s: %w", room, err)
	}
	return nil
}
