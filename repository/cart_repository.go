package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/Jaypatel0924/Sweet-Shop-Management-System/models"
	"github.com/redis/go-redis/v9"
)

// CartRepository stores per-user cart and wishlist state.
type CartRepository interface {
	GetCart(ctx context.Context, userID string) (*models.Cart, error)
	SaveCart(ctx context.Context, cart *models.Cart) error
	DeleteCart(ctx context.Context, userID string) error
	GetWishlist(ctx context.Context, userID string) ([]string, error)
	AddToWishlist(ctx context.Context, userID, sweetID string) error
	RemoveFromWishlist(ctx context.Context, userID, sweetID string) error
}

type RedisCartRepository struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCartRepository(client *redis.Client, ttl time.Duration) *RedisCartRepository {
	return &RedisCartRepository{
		client: client,
		ttl:    ttl,
	}
}

func (r *RedisCartRepository) cartKey(userID string) string {
	return fmt.Sprintf("cart:user:%s", userID)
}

func (r *RedisCartRepository) wishlistKey(userID string) string {
	return fmt.Sprintf("wishlist:user:%s", userID)
}

// GetCart returns nil when the user has no stored cart.
func (r *RedisCartRepository) GetCart(ctx context.Context, userID string) (*models.Cart, error) {
	data, err := r.client.Get(ctx, r.cartKey(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var cart models.Cart
	if err := json.Unmarshal([]byte(data), &cart); err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *RedisCartRepository) SaveCart(ctx context.Context, cart *models.Cart) error {
	cart.UpdatedAt = time.Now().UTC()

	data, err := json.Marshal(cart)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, r.cartKey(cart.UserID), data, r.ttl).Err()
}

func (r *RedisCartRepository) DeleteCart(ctx context.Context, userID string) error {
	return r.client.Del(ctx, r.cartKey(userID)).Err()
}

func (r *RedisCartRepository) GetWishlist(ctx context.Context, userID string) ([]string, error) {
	ids, err := r.client.SMembers(ctx, r.wishlistKey(userID)).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(ids)
	return ids, nil
}

func (r *RedisCartRepository) AddToWishlist(ctx context.Context, userID, sweetID string) error {
	key := r.wishlistKey(userID)
	pipe := r.client.TxPipeline()
	pipe.SAdd(ctx, key, sweetID)
	if r.ttl > 0 {
		pipe.Expire(ctx, key, r.ttl)
	}
	_, err := pipe.Exec(ctx)
	return err
}

func (r *RedisCartRepository) RemoveFromWishlist(ctx context.Context, userID, sweetID string) error {
	return r.client.SRem(ctx, r.wishlistKey(userID), sweetID).Err()
}
