package storage

import (
	"encoding/json"
	"time"

	"github.com/redis/go-redis/v9"

	"marketgo/backend/internal/models"
)

const roomChannelPrefix = "chat:room:"

// RoomChannel names the pub/sub channel carrying one room's outbound frames.
func RoomChannel(roomID string) string {
	return roomChannelPrefix + roomID
}

// PublishFrame pushes an already-persisted message frame onto the room's
// pub/sub channel. Every server instance subscribed to the pattern picks it up,
// so fan-out stays coherent across horizontally scaled processes.
func (s *Service) PublishFrame(frame models.OutboundFrame) error {
	payload, err := json.Marshal(frame)
	if err != nil {
		return err
	}
	return s.Redis.Publish(s.Ctx, RoomChannel(frame.RoomID), payload).Err()
}

// SubscribeRooms subscribes to every room channel on this Redis instance.
func (s *Service) SubscribeRooms() *redis.PubSub {
	return s.Redis.PSubscribe(s.Ctx, roomChannelPrefix+"*")
}

// IncrementWindow bumps a fixed-window counter, setting the window TTL on
// first increment. Used for per-IP rate limiting and login attempt tracking;
// keeping the counter in Redis keeps limits exact across server instances.
func (s *Service) IncrementWindow(key string, window time.Duration) (int64, error) {
	count, err := s.Redis.Incr(s.Ctx, key).Result()
	if err != nil {
		return 0, err
	}
	if count == 1 {
		if err := s.Redis.Expire(s.Ctx, key, window).Err(); err != nil {
			return count, err
		}
	}
	return count, nil
}

// ResetWindow clears a fixed-window counter, e.g. after a successful login.
func (s *Service) ResetWindow(key string) error {
	return s.Redis.Del(s.Ctx, key).Err()
}
