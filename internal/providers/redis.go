package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dharmasatrya/flightmatch/internal/models"
)

type RedisConfig struct {
	Host     string
	Port     string
	Password string
	DB       int
	Key      string
}

// RedisProvider reads offers stored as JSON documents in a Redis list, head
// to tail.
type RedisProvider struct {
	client *redis.Client
	key    string
}

func NewRedisProvider(cfg RedisConfig) (*RedisProvider, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Host + ":" + cfg.Port,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("ping redis %s:%s: %w", cfg.Host, cfg.Port, err)
	}

	return &RedisProvider{
		client: client,
		key:    cfg.Key,
	}, nil
}

func (p *RedisProvider) Name() string {
	return "redis"
}

func (p *RedisProvider) Records(ctx context.Context) ([]models.SourceRecord, error) {
	items, err := p.client.LRange(ctx, p.key, 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("lrange %s: %w", p.key, err)
	}
	return decodeRecords(p.key, items), nil
}

// Append pushes offers to the tail of the list.
func (p *RedisProvider) Append(ctx context.Context, offers []models.SourceRecord) error {
	if len(offers) == 0 {
		return nil
	}
	values := make([]interface{}, 0, len(offers))
	for _, o := range offers {
		data, err := json.Marshal(o)
		if err != nil {
			return err
		}
		values = append(values, data)
	}
	return p.client.RPush(ctx, p.key, values...).Err()
}

// IsPopulated reports whether the offer list holds any entries.
func (p *RedisProvider) IsPopulated(ctx context.Context) (bool, error) {
	n, err := p.client.LLen(ctx, p.key).Result()
	if err != nil {
		return false, fmt.Errorf("llen %s: %w", p.key, err)
	}
	return n > 0, nil
}

func (p *RedisProvider) Close() error {
	return p.client.Close()
}

// decodeRecords skips entries that are not valid offer documents.
func decodeRecords(key string, items []string) []models.SourceRecord {
	records := make([]models.SourceRecord, 0, len(items))
	for i, item := range items {
		var rec models.SourceRecord
		if err := json.Unmarshal([]byte(item), &rec); err != nil {
			slog.Warn("Skipping malformed offer", "key", key, "index", i, "error", err)
			continue
		}
		records = append(records, rec)
	}
	return records
}
