package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ali-ezz/web-cart-galaxy/internal/core/domain"
)

// cartTTL bounds abandoned carts; every save renews it.
const cartTTL = 30 * 24 * time.Hour

// CartStore persists one cart per user as a JSON document.
// Key format: cart:<user_id>
type CartStore struct {
	client *redis.Client
}

func NewCartStore(client *redis.Client) *CartStore {
	return &CartStore{client: client}
}

// Get returns the user's cart, or an empty cart when none is stored.
func (s *CartStore) Get(ctx context.Context, userID string) (*domain.Cart, error) {
	raw, err := s.client.Get(ctx, s.key(userID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return &domain.Cart{UserID: userID, Items: []domain.CartItem{}}, nil
		}
		return nil, fmt.Errorf("get cart: %w", err)
	}

	var cart domain.Cart
	if err := json.Unmarshal(raw, &cart); err != nil {
		return nil, fmt.Errorf("decode cart: %w", err)
	}
	if cart.Items == nil {
		cart.Items = []domain.CartItem{}
	}
	return &cart, nil
}

func (s *CartStore) Save(ctx context.Context, cart *domain.Cart) error {
	raw, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("encode cart: %w", err)
	}
	if err := s.client.Set(ctx, s.key(cart.UserID), raw, cartTTL).Err(); err != nil {
		return fmt.Errorf("save cart: %w", err)
	}
	return nil
}

func (s *CartStore) Delete(ctx context.Context, userID string) error {
	if err := s.client.Del(ctx, s.key(userID)).Err(); err != nil {
		return fmt.Errorf("delete cart: %w", err)
	}
	return nil
}

func (s *CartStore) key(userID string) string {
	return "cart:" + userID
}
