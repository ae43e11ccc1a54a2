package redisbus

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

type Config struct {
	Addr     string
	Password string
	DB       int
	Channel  string
}

// Publisher fans JSON events out to a single redis pub/sub channel.
type Publisher interface {
	Publish(ctx context.Context, event any) error
	Channel() string
	Close() error
}

type publisher struct {
	log     *logger.Logger
	rdb     *goredis.Client
	channel string
}

func NewPublisher(log *logger.Logger, cfg Config) (Publisher, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}
	addr := strings.TrimSpace(cfg.Addr)
	if addr == "" {
		return nil, fmt.Errorf("missing REDIS_ADDR")
	}
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return newPublisher(log, rdb, cfg.Channel), nil
}

func newPublisher(log *logger.Logger, rdb *goredis.Client, channel string) *publisher {
	channel = strings.TrimSpace(channel)
	if channel == "" {
		channel = "wizard"
	}
	return &publisher{
		log:     log.With("client", "RedisPublisher"),
		rdb:     rdb,
		channel: channel,
	}
}

func (p *publisher) Channel() string { return p.channel }

func (p *publisher) Publish(ctx context.Context, event any) error {
	if p == nil || p.rdb == nil {
		return fmt.Errorf("redis publisher not initialized")
	}
	raw, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	if err := p.rdb.Publish(ctx, p.channel, raw).Err(); err != nil {
		return fmt.Errorf("redis publish: %w", err)
	}
	return nil
}

func (p *publisher) Close() error {
	if p == nil || p.rdb == nil {
		return nil
	}
	return p.rdb.Close()
}
