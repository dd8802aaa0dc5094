// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"context"
	"encoding/json"
	"errors"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"time"
)

const redisKeyPrefix = "pwdcheck:breach:"

// RedisCache shares breach lookups between server replicas. Keys are the SHA1 of the
// password, the plaintext never leaves the process.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCache(client *redis.Client, ttl time.Duration) *RedisCache {
	return &RedisCache{client: client, ttl: ttl}
}

func redisKey(password string) string {
	return redisKeyPrefix + hashPassword(password)
}

func (r *RedisCache) Get(ctx context.Context, password string) (Entry, bool) {
	b, err := r.client.Get(ctx, redisKey(password)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Warn().Err(err).Msg("error reading breach cache")
		}
		return Entry{}, false
	}

	var e Entry
	if err = json.Unmarshal(b, &e); err != nil {
		log.Warn().Err(err).Msg("error decoding breach cache entry")
		return Entry{}, false
	}

	return e, true
}

func (r *RedisCache) Set(ctx context.Context, password string, e Entry) {
	b, err := json.Marshal(e)
	if err != nil {
		log.Warn().Err(err).Msg("error encoding breach cache entry")
		return
	}

	if err = r.client.Set(ctx, redisKey(password), b, r.ttl).Err(); err != nil {
		log.Warn().Err(err).Msg("error writing breach cache")
	}
}
