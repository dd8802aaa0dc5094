// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package cli

import (
	"context"
	"fmt"
	"github.com/alvinbaena/pwd-analyzer/internal/analyzer"
	"github.com/alvinbaena/pwd-analyzer/internal/config"
	"github.com/alvinbaena/pwd-analyzer/pkg/hibp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"time"
)

const redisPingTimeout = 3 * time.Second

// newChecker builds the breach checker described by cfg. The returned function releases the
// cache and must be called once the checker is no longer used.
func newChecker(cfg config.Config) (*hibp.Checker, func(), error) {
	var cache hibp.Cache
	var release func()

	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			return nil, nil, fmt.Errorf("error parsing REDIS_URL: %w", err)
		}

		client := redis.NewClient(opts)
		ctx, cancel := context.WithTimeout(context.Background(), redisPingTimeout)
		defer cancel()
		if err = client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, fmt.Errorf("error connecting to redis at %s: %w", opts.Addr, err)
		}

		log.Info().Msgf("using redis breach cache at %s", opts.Addr)
		cache = hibp.NewRedisCache(client, cfg.BreachCacheTTL)
		release = func() {
			_ = client.Close()
		}
	} else {
		mem, err := hibp.NewMemoryCache(cfg.BreachCacheSize, cfg.BreachCacheTTL)
		if err != nil {
			return nil, nil, err
		}

		log.Debug().Msgf("using in-memory breach cache for up to %d entries", cfg.BreachCacheSize)
		cache = mem
		release = mem.Close
	}

	checker, err := hibp.NewChecker(
		hibp.WithBaseURL(cfg.HibpURL),
		hibp.WithTimeout(cfg.BreachTimeout),
		hibp.WithTTL(cfg.BreachCacheTTL),
		hibp.WithCache(cache),
	)
	if err != nil {
		release()
		return nil, nil, err
	}

	return checker, release, nil
}

// newAnalyzer is used by the one-shot commands. Offline analysis never touches the network.
func newAnalyzer(offline bool) (*analyzer.Service, func(), error) {
	if offline {
		return analyzer.New(nil), func() {}, nil
	}

	cfg, err := config.Load(nil)
	if err != nil {
		return nil, nil, fmt.Errorf("invalid configuration: %w", err)
	}

	checker, release, err := newChecker(cfg)
	if err != nil {
		return nil, nil, err
	}

	return analyzer.New(checker), func() {
		checker.Report()
		release()
	}, nil
}
