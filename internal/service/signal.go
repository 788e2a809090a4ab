package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/uclaacm/bruinbot"
)

// SignalChannel carries membership events to live subscribers, most
// notably the realtime websocket bridge.
const SignalChannel = "bruinbot:events"

type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func (s *SignalService) Publish(ctx context.Context, event bruinbot.Event) error {

	jsonstr, err := json.Marshal(event)
	if err != nil {
		return err
	}

	err = s.rdb.Publish(ctx, SignalChannel, jsonstr).Err()
	if err != nil {
		return err
	}

	return nil
}

// Subscribe returns a live subscription on the event channel. The
// caller owns the subscription and must close it.
func (s *SignalService) Subscribe(ctx context.Context) *redis.PubSub {
	return s.rdb.Subscribe(ctx, SignalChannel)
}
