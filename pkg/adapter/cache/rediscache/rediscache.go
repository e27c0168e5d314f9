// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package rediscache implements the taxisuc.ActiveCache interface
// with Redis. The active taxis list is kept as one JSON value with
// an expiration time, so a missed invalidation lasts for one TTL.
package rediscache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/momeni/taxiweb/pkg/core/model"
	"github.com/redis/go-redis/v9"
)

const activeTaxisKey = "taxiweb:taxis:active"

// Cache keeps the active taxis list in a Redis server.
type Cache struct {
	client *redis.Client
	ttl    time.Duration
}

// New connects to the addr Redis server and pings it.
func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("pinging redis at %s: %w", addr, err)
	}
	return &Cache{client: client, ttl: ttl}, nil
}

// Active returns the cached active taxis or nil on a cache miss.
func (c *Cache) Active(ctx context.Context) ([]model.Taxi, error) {
	data, err := c.client.Get(ctx, activeTaxisKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get: %w", err)
	}
	taxis := []model.Taxi{}
	if err = json.Unmarshal(data, &taxis); err != nil {
		return nil, fmt.Errorf("decoding active taxis: %w", err)
	}
	return taxis, nil
}

// StoreActive caches the taxis list.
func (c *Cache) StoreActive(ctx context.Context, taxis []model.Taxi) error {
	data, err := json.Marshal(taxis)
	if err != nil {
		return fmt.Errorf("encoding active taxis: %w", err)
	}
	if err = c.client.Set(ctx, activeTaxisKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("set: %w", err)
	}
	return nil
}

// Invalidate drops the cached list.
func (c *Cache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, activeTaxisKey).Err(); err != nil {
		return fmt.Errorf("del: %w", err)
	}
	return nil
}

// Close closes the Redis client.
func (c *Cache) Close() error {
	return c.client.Close()
}
