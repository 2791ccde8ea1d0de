package caching

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"strings"
	"time"

	"clubops/internal/models"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

type CacheService interface {
	// Subscription aggregate caching
	GetSubscription(ctx context.Context, subscriptionID uuid.UUID) (*models.Subscription, error)
	SetSubscription(ctx context.Context, sub *models.Subscription, ttl time.Duration) error
	DeleteSubscription(ctx context.Context, subscriptionID uuid.UUID) error

	// Member caching
	GetMember(ctx context.Context, memberID uuid.UUID) (*models.Member, error)
	SetMember(ctx context.Context, member *models.Member, ttl time.Duration) error
	DeleteMember(ctx context.Context, memberID uuid.UUID) error

	// Status dashboard counts, refreshed by the background sweep
	GetStatusCounts(ctx context.Context) (map[string]int, error)
	SetStatusCounts(ctx context.Context, counts map[string]int, ttl time.Duration) error

	// Generic string operations
	SetString(ctx context.Context, key string, value string, ttl time.Duration) error
	GetString(ctx context.Context, key string) (string, error)
	Delete(ctx context.Context, key string) error

	// Ping reports cache connectivity, used by health probes
	Ping(ctx context.Context) error
}

type redisCacheService struct {
	client *redis.Client
}

func NewRedisCacheService(addr, password string, db int) CacheService {
	// Accept redis://host:port and rediss://host:port forms as well
	parsedAddr := addr
	if strings.HasPrefix(addr, "redis://") || strings.HasPrefix(addr, "rediss://") {
		if hostPort := strings.TrimPrefix(strings.TrimPrefix(addr, "redis://"), "rediss://"); hostPort != addr {
			parsedAddr = hostPort
		}
	}

	client := redis.NewClient(&redis.Options{
		Addr:     parsedAddr,
		Password: password,
		DB:       db,
	})

	if pingErr := client.Ping(context.Background()).Err(); pingErr != nil {
		log.Printf("WARN: Redis ping failed on initialization: %v (address: %s)", pingErr, parsedAddr)
	}

	return &redisCacheService{client: client}
}

func subscriptionKey(id uuid.UUID) string {
	return fmt.Sprintf("clubops:subscription:%s", id.String())
}

func memberKey(id uuid.UUID) string {
	return fmt.Sprintf("clubops:member:%s", id.String())
}

const statusCountsKey = "clubops:subscriptions:status-counts"

func (r *redisCacheService) GetSubscription(ctx context.Context, subscriptionID uuid.UUID) (*models.Subscription, error) {
	data, err := r.client.Get(ctx, subscriptionKey(subscriptionID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var sub models.Subscription
	if err := json.Unmarshal(data, &sub); err != nil {
		return nil, err
	}
	return &sub, nil
}

func (r *redisCacheService) SetSubscription(ctx context.Context, sub *models.Subscription, ttl time.Duration) error {
	data, err := json.Marshal(sub)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, subscriptionKey(sub.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteSubscription(ctx context.Context, subscriptionID uuid.UUID) error {
	return r.client.Del(ctx, subscriptionKey(subscriptionID)).Err()
}

func (r *redisCacheService) GetMember(ctx context.Context, memberID uuid.UUID) (*models.Member, error) {
	data, err := r.client.Get(ctx, memberKey(memberID)).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil // cache miss
		}
		return nil, err
	}

	var member models.Member
	if err := json.Unmarshal(data, &member); err != nil {
		return nil, err
	}
	return &member, nil
}

func (r *redisCacheService) SetMember(ctx context.Context, member *models.Member, ttl time.Duration) error {
	data, err := json.Marshal(member)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, memberKey(member.ID), data, ttl).Err()
}

func (r *redisCacheService) DeleteMember(ctx context.Context, memberID uuid.UUID) error {
	return r.client.Del(ctx, memberKey(memberID)).Err()
}

func (r *redisCacheService) GetStatusCounts(ctx context.Context) (map[string]int, error) {
	data, err := r.client.Get(ctx, statusCountsKey).Bytes()
	if err != nil {
		if err == redis.Nil {
			return nil, nil
		}
		return nil, err
	}

	counts := make(map[string]int)
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, err
	}
	return counts, nil
}

func (r *redisCacheService) SetStatusCounts(ctx context.Context, counts map[string]int, ttl time.Duration) error {
	data, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, statusCountsKey, data, ttl).Err()
}

func (r *redisCacheService) SetString(ctx context.Context, key string, value string, ttl time.Duration) error {
	return r.client.Set(ctx, key, value, ttl).Err()
}

func (r *redisCacheService) GetString(ctx context.Context, key string) (string, error) {
	value, err := r.client.Get(ctx, key).Result()
	if err != nil {
		if err == redis.Nil {
			return "", nil
		}
		return "", err
	}
	return value, nil
}

func (r *redisCacheService) Delete(ctx context.Context, key string) error {
	return r.client.Del(ctx, key).Err()
}

func (r *redisCacheService) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}
