/* Copyright © 2026 Mike Brown. All Rights Reserved.
 *
 * See LICENSE file at the root of this repository for license terms
 */
package main

import (
	"net"
	"strings"
	"sync"
	"time"
)

// ipRateLimiter enforces a sliding window request limit per client IP. The
// per-IP history and the IP set itself are both pruned so the map cannot
// grow without bound across a long-lived process.
type ipRateLimiter struct {
	mu        sync.Mutex
	perIp     map[string][]time.Time
	limit     int
	window    time.Duration
	lastSweep time.Time
}

func newIpRateLimiter(limit int, window time.Duration) *ipRateLimiter {
	return &ipRateLimiter{
		perIp:     make(map[string][]time.Time),
		limit:     limit,
		window:    window,
		lastSweep: time.Now(),
	}
}

// Allow records one request attempt from ip and reports whether it is within
// the window limit.
func (rl *ipRateLimiter) Allow(ip string, now time.Time) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastSweep) > rl.window {
		rl.sweepLocked(now)
	}

	cutoff := now.Add(-rl.window)
	recent := rl.perIp[ip][:0]
	for _, t := range rl.perIp[ip] {
		if t.After(cutoff) {
			recent = append(recent, t)
		}
	}

	if len(recent) >= rl.limit {
		rl.perIp[ip] = recent
		return false
	}

	rl.perIp[ip] = append(recent, now)
	return true
}

// sweepLocked drops IPs whose entire history has aged out of the window.
func (rl *ipRateLimiter) sweepLocked(now time.Time) {
	cutoff := now.Add(-rl.window)
	for ip, times := range rl.perIp {
		stale := true
		for _, t := range times {
			if t.After(cutoff) {
				stale = false
				break
			}
		}
		if stale {
			delete(rl.perIp, ip)
		}
	}
	rl.lastSweep = now
}

// clientIp extracts the requesting address, honoring the proxy-supplied
// header our hosting environment sets.
func clientIp(remoteAddr string, forwardedFor string) string {
	if forwardedFor != "" {
		// first hop is the client
		ip, _, _ := strings.Cut(forwardedFor, ",")
		return strings.TrimSpace(ip)
	}
	host, _, err := net.SplitHostPort(remoteAddr)
	if err != nil {
		return remoteAddr
	}
	return host
}
