// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"bufio"
	"context"
	"crypto/sha1"
	"crypto/tls"
	"encoding/hex"
	"errors"
	"fmt"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/rs/zerolog/log"
	"io"
	"net"
	"net/http"
	"regexp"
	"strconv"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://api.pwnedpasswords.com"
	DefaultTimeout = 5 * time.Second
	DefaultTTL     = time.Hour

	prefixLen = 5
	userAgent = "golang-pwd-analyzer/1.0"
)

var (
	ErrInvalidHash = errors.New("input is not a valid SHA1 Hexadecimal hash")

	sha1Pattern   = regexp.MustCompile("^[a-fA-F\\d]{40}$")
	suffixPattern = regexp.MustCompile("^[a-fA-F\\d]{35}$")
)

// Entry is the cached outcome of a breach lookup.
type Entry struct {
	Breached  bool      `json:"breached"`
	Count     int       `json:"count"`
	CheckedAt time.Time `json:"checkedAt"`
}

// Checker looks passwords up in the Pwned Passwords range API. Only the first 5 characters
// of the SHA1 hash are sent (k-anonymity), the match against the returned suffixes is done
// locally.
type Checker struct {
	baseURL string
	timeout time.Duration
	ttl     time.Duration
	cache   Cache
	http    *retryablehttp.Client
	stat    *status
	now     func() time.Time
}

type Option func(*Checker)

// WithBaseURL points the checker at another range API implementation.
func WithBaseURL(url string) Option {
	return func(c *Checker) {
		c.baseURL = strings.TrimSuffix(url, "/")
	}
}

// WithTimeout bounds every provider call. Values <= 0 are ignored, the call is never unbounded.
func WithTimeout(timeout time.Duration) Option {
	return func(c *Checker) {
		if timeout > 0 {
			c.timeout = timeout
		}
	}
}

// WithCache replaces the default in-memory cache.
func WithCache(cache Cache) Option {
	return func(c *Checker) {
		c.cache = cache
	}
}

// WithTTL sets how long a cached result is trusted, measured from insertion.
func WithTTL(ttl time.Duration) Option {
	return func(c *Checker) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

func NewChecker(opts ...Option) (*Checker, error) {
	c := &Checker{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
		ttl:     DefaultTTL,
		stat:    newStatus(),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(c)
	}

	if c.cache == nil {
		cache, err := NewMemoryCache(DefaultCacheSize, c.ttl)
		if err != nil {
			return nil, fmt.Errorf("error creating breach cache: %w", err)
		}
		c.cache = cache
	}

	c.http = initHttpClient(c.timeout)
	return c, nil
}

func initHttpClient(timeout time.Duration) *retryablehttp.Client {
	client := retryablehttp.NewClient()
	client.Logger = nil

	// A failed lookup falls back to "not breached" right away, the request must not wait on
	// retries.
	client.RetryMax = 0

	client.HTTPClient = &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			TLSClientConfig: &tls.Config{
				MinVersion: tls.VersionTLS12,
			},
			DialContext: (&net.Dialer{
				Timeout:   timeout,
				KeepAlive: 30 * time.Second,
			}).DialContext,
			MaxIdleConns:          100,
			MaxIdleConnsPerHost:   16,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   timeout,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return client
}

// Check reports whether the password is in the breach corpus and how many times it was seen.
//
// Lookup errors are never returned: they are logged and reported as not breached, so a
// provider outage can't fail an analysis. Failed lookups are not cached.
func (c *Checker) Check(ctx context.Context, password string) Entry {
	c.stat.Lookup()

	if e, ok := c.cache.Get(ctx, password); ok && c.now().Sub(e.CheckedAt) < c.ttl {
		c.stat.CacheHit()
		return e
	}

	prefix, suffix := splitHash(hashPassword(password))
	count, err := c.lookup(ctx, prefix, suffix)
	if err != nil {
		c.stat.Failure()
		log.Warn().Err(err).Msgf("breach lookup failed for range %s, assuming not breached", prefix)
		return Entry{CheckedAt: c.now()}
	}

	e := Entry{Breached: count > 0, Count: count, CheckedAt: c.now()}
	c.cache.Set(ctx, password, e)
	return e
}

// CheckHash runs the range protocol for an already hashed password. Results are not cached.
func (c *Checker) CheckHash(ctx context.Context, hash string) (Entry, error) {
	if !sha1Pattern.MatchString(hash) {
		return Entry{}, ErrInvalidHash
	}

	c.stat.Lookup()
	prefix, suffix := splitHash(strings.ToUpper(hash))
	count, err := c.lookup(ctx, prefix, suffix)
	if err != nil {
		c.stat.Failure()
		log.Warn().Err(err).Msgf("breach lookup failed for range %s, assuming not breached", prefix)
		return Entry{CheckedAt: c.now()}, nil
	}

	return Entry{Breached: count > 0, Count: count, CheckedAt: c.now()}, nil
}

// Stats is a snapshot of the checker counters.
func (c *Checker) Stats() Stats {
	return c.stat.Snapshot()
}

// Report logs the checker counters.
func (c *Checker) Report() {
	c.stat.Report()
}

func hashPassword(password string) string {
	sum := sha1.Sum([]byte(password))
	// The range API works with uppercase hashes
	return strings.ToUpper(hex.EncodeToString(sum[:]))
}

func splitHash(hash string) (string, string) {
	return hash[:prefixLen], hash[prefixLen:]
}

func rangeHttpRequest(ctx context.Context, baseURL string, prefix string) (*retryablehttp.Request, error) {
	req, err := retryablehttp.NewRequestWithContext(
		ctx,
		http.MethodGet,
		fmt.Sprintf("%s/range/%s", baseURL, prefix),
		nil,
	)
	if err != nil {
		return nil, err
	}

	req.Header.Set("User-Agent", userAgent)
	// Padded responses hide the real size of the range from anyone watching the wire.
	req.Header.Set("Add-Padding", "true")
	return req, nil
}

func (c *Checker) lookup(ctx context.Context, prefix string, suffix string) (int, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	timer := time.Now()
	req, err := rangeHttpRequest(ctx, c.baseURL, prefix)
	if err != nil {
		return 0, err
	}

	res, err := c.http.Do(req)
	if err != nil {
		return 0, err
	}

	defer func(Body io.ReadCloser) {
		if err := Body.Close(); err != nil {
			log.Warn().Err(err).Msgf("error closing body for range %s", prefix)
		}
	}(res.Body)

	if res.StatusCode < 200 || res.StatusCode > 299 {
		return 0, fmt.Errorf("request for range [%s] failed with status [%d] %s", prefix, res.StatusCode, res.Status)
	}

	count, err := findSuffix(res.Body, suffix)
	if err != nil {
		return 0, fmt.Errorf("error reading range %s: %w", prefix, err)
	}

	c.stat.RequestComplete(res, time.Since(timer).Milliseconds())
	log.Debug().Msgf("range %s looked up in %v", prefix, time.Since(timer))
	return count, nil
}

// findSuffix scans SUFFIX:COUNT lines. Padding rows have a count of 0. Any other line, or a
// body without a single row, means the response is not a range and is an error.
func findSuffix(body io.Reader, suffix string) (int, error) {
	rows := 0
	found := -1

	scanner := bufio.NewScanner(body)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}

		hash, rawCount, ok := strings.Cut(line, ":")
		if !ok || !suffixPattern.MatchString(hash) {
			return 0, fmt.Errorf("malformed range line %q", truncateLine(line))
		}

		count, err := strconv.Atoi(strings.TrimSpace(rawCount))
		if err != nil || count < 0 {
			return 0, fmt.Errorf("malformed count for suffix %s", hash)
		}

		rows++
		if found < 0 && strings.EqualFold(hash, suffix) {
			found = count
		}
	}
	if err := scanner.Err(); err != nil {
		return 0, err
	}

	if rows == 0 {
		return 0, errors.New("empty range response")
	}
	if found < 0 {
		return 0, nil
	}
	return found, nil
}

func truncateLine(line string) string {
	if len(line) > 64 {
		return line[:64] + "..."
	}
	return line
}
