package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisCache Redis缓存实现 - 票档余量计数与售票事件广播
type RedisCache struct {
	client *redis.Client
	prefix string
}

// SaleEvent 售票事件消息
type SaleEvent struct {
	SaleID      uint   `json:"sale_id"`
	ShowID      uint   `json:"show_id"`
	TenantID    uint   `json:"tenant_id"`
	Serial      string `json:"serial"`
	Quantity    int    `json:"quantity"`
	AmountCents int64  `json:"amount_cents"`
	Created     int64  `json:"created"`
}

// Config Redis配置
type Config struct {
	Host     string
	Port     int
	Password string
	DB       int
	Prefix   string
}

// NewRedisCache 创建Redis缓存实例
func NewRedisCache(config *Config) *RedisCache {
	client := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", config.Host, config.Port),
		Password: config.Password,
		DB:       config.DB,
	})

	prefix := config.Prefix
	if prefix == "" {
		prefix = "etick"
	}

	return &RedisCache{
		client: client,
		prefix: prefix,
	}
}

// Close 关闭Redis连接
func (c *RedisCache) Close() error {
	return c.client.Close()
}

// Ping 测试Redis连接
func (c *RedisCache) Ping() error {
	ctx := context.Background()
	return c.client.Ping(ctx).Err()
}

// remainingKey 票档余量键
func (c *RedisCache) remainingKey(offerID uint) string {
	return fmt.Sprintf("%s:offer:%d:remaining", c.prefix, offerID)
}

// SetOfferRemaining 写入票档余量
func (c *RedisCache) SetOfferRemaining(ctx context.Context, offerID uint, remaining int, ttl time.Duration) error {
	return c.client.Set(ctx, c.remainingKey(offerID), remaining, ttl).Err()
}

// GetOfferRemaining 读取票档余量，缓存未命中返回 -1
func (c *RedisCache) GetOfferRemaining(ctx context.Context, offerID uint) (int, error) {
	val, err := c.client.Get(ctx, c.remainingKey(offerID)).Int()
	if err == redis.Nil {
		return -1, nil
	}
	if err != nil {
		return -1, err
	}
	return val, nil
}

// DecrOfferRemaining 扣减票档余量
func (c *RedisCache) DecrOfferRemaining(ctx context.Context, offerID uint, n int) (int64, error) {
	return c.client.DecrBy(ctx, c.remainingKey(offerID), int64(n)).Result()
}

// DeleteOfferRemaining 删除票档余量缓存
func (c *RedisCache) DeleteOfferRemaining(ctx context.Context, offerID uint) error {
	return c.client.Del(ctx, c.remainingKey(offerID)).Err()
}

// saleChannel 售票事件频道
func (c *RedisCache) saleChannel() string {
	return c.prefix + ":sales"
}

// PublishSaleEvent 广播售票事件
func (c *RedisCache) PublishSaleEvent(ctx context.Context, event *SaleEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		return err
	}
	return c.client.Publish(ctx, c.saleChannel(), data).Err()
}

// SubscribeSaleEvents 订阅售票事件
func (c *RedisCache) SubscribeSaleEvents(ctx context.Context) *redis.PubSub {
	return c.client.Subscribe(ctx, c.saleChannel())
}
