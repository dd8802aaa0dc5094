// Copyright (c) 2022. Alvin Baena.
// SPDX-License-Identifier: MIT

package hibp

import (
	"github.com/rs/zerolog/log"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"net/http"
	"sync/atomic"
	"time"
)

// Stats are the breach checker counters since start.
type Stats struct {
	Lookups           uint64  `json:"lookups"`
	CacheHits         uint64  `json:"cacheHits"`
	Requests          uint64  `json:"requests"`
	Failures          uint64  `json:"failures"`
	CloudflareHits    uint64  `json:"cloudflareHits"`
	CloudflareMisses  uint64  `json:"cloudflareMisses"`
	AverageResponseMs float64 `json:"averageResponseMs"`
}

type status struct {
	lookups                    uint64
	cacheHits                  uint64
	failures                   uint64
	cloudflareRequests         uint64
	cloudflareHits             uint64
	cloudflareMisses           uint64
	cloudflareRequestTimeTotal uint64
	start                      time.Time
}

func newStatus() *status {
	return &status{start: time.Now()}
}

func (s *status) Lookup() {
	atomic.AddUint64(&s.lookups, 1)
}

func (s *status) CacheHit() {
	atomic.AddUint64(&s.cacheHits, 1)
}

func (s *status) Failure() {
	atomic.AddUint64(&s.failures, 1)
}

func (s *status) RequestComplete(res *http.Response, millis int64) {
	atomic.AddUint64(&s.cloudflareRequestTimeTotal, uint64(millis))
	atomic.AddUint64(&s.cloudflareRequests, 1)

	if cacheHit := res.Header.Get("CF-Cache-Status"); cacheHit == "HIT" {
		atomic.AddUint64(&s.cloudflareHits, 1)
	} else {
		atomic.AddUint64(&s.cloudflareMisses, 1)
	}
}

func (s *status) Snapshot() Stats {
	st := Stats{
		Lookups:          atomic.LoadUint64(&s.lookups),
		CacheHits:        atomic.LoadUint64(&s.cacheHits),
		Requests:         atomic.LoadUint64(&s.cloudflareRequests),
		Failures:         atomic.LoadUint64(&s.failures),
		CloudflareHits:   atomic.LoadUint64(&s.cloudflareHits),
		CloudflareMisses: atomic.LoadUint64(&s.cloudflareMisses),
	}

	if st.Requests > 0 {
		st.AverageResponseMs = float64(atomic.LoadUint64(&s.cloudflareRequestTimeTotal)) / float64(st.Requests)
	}

	return st
}

func (s *status) Report() {
	st := s.Snapshot()

	p := message.NewPrinter(language.English)
	log.Info().Msgf("breach checker served %s lookups in %v, %s from cache, %s failed",
		p.Sprintf("%d", st.Lookups), time.Since(s.start).Round(time.Second), p.Sprintf("%d", st.CacheHits), p.Sprintf("%d", st.Failures))
	if st.Requests > 0 {
		log.Debug().Msgf("made %s Cloudflare requests. Average response time %.2f ms", p.Sprintf("%d", st.Requests), st.AverageResponseMs)
		log.Debug().Msgf("cloudflare cache hits: %s, misses: %s", p.Sprintf("%d", st.CloudflareHits), p.Sprintf("%d", st.CloudflareMisses))
	}
}
