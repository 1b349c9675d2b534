package redis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

const DefaultPredictionChannel = "emotion:predictions"

type IRedis interface {
	PublishPrediction(ctx context.Context, payload []byte) error
	Close() error
}

type redisClient struct {
	client  *redis.Client
	channel string
}

// New connects to REDIS_ADDRESS. An unreachable server is logged, not fatal:
// publishing is best-effort and go-redis reconnects on its own.
func New() (IRedis, error) {
	redisAddr := os.Getenv("REDIS_ADDRESS")
	if redisAddr == "" {
		return nil, errors.New("REDIS_ADDRESS not set")
	}
	db, _ := strconv.Atoi(os.Getenv("REDIS_DB"))

	channel := os.Getenv("PREDICTION_CHANNEL")
	if channel == "" {
		channel = DefaultPredictionChannel
	}

	logrus.Info(fmt.Sprintf("Connecting to Redis at %s...", redisAddr))

	client := redis.NewClient(&redis.Options{
		Addr:     redisAddr,
		Password: os.Getenv("REDIS_PASSWORD"),
		DB:       db,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		logrus.Error(fmt.Sprintf("Failed to connect to Redis: %v", err))
	} else {
		logrus.Info("Successfully connected to Redis")
	}

	return NewWithClient(client, channel), nil
}

func NewWithClient(client *redis.Client, channel string) IRedis {
	return &redisClient{client: client, channel: channel}
}

func (r *redisClient) PublishPrediction(ctx context.Context, payload []byte) error {
	receivers, err := r.client.Publish(ctx, r.channel, payload).Result()
	if err != nil {
		logrus.Error(fmt.Sprintf("Error publishing prediction on %s: %v", r.channel, err))
		return err
	}
	logrus.Debug(fmt.Sprintf("Published prediction on %s to %d subscribers", r.channel, receivers))
	return nil
}

func (r *redisClient) Close() error {
	return r.client.Close()
}
