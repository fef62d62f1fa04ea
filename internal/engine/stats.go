package engine

import (
	"math/rand"
	"time"
)

// Options tunes the simulated echo statistics. The simulator has no time
// model; latencies are sampled values, nothing sleeps.
type Options struct {
	LossRate   float64 // probability a simulated packet is dropped
	MinLatency float64 // ms
	MaxLatency float64 // ms
	TTL        int     // maximum hop count before echoes expire
	Seed       int64   // 0 seeds from the clock
}

// DefaultOptions mirrors a small LAN: 1% loss, 1-10ms latency, TTL 64.
func DefaultOptions() Options {
	return Options{
		LossRate:   0.01,
		MinLatency: 1,
		MaxLatency: 10,
		TTL:        64,
	}
}

// PingStats extends a path result with simulated per-packet echo statistics.
type PingStats struct {
	PingResult

	Sent     int       `json:"sent"`
	Received int       `json:"received"`
	Lost     int       `json:"lost"`
	LossPct  float64   `json:"loss_pct"`
	MinMs    float64   `json:"min_ms"`
	AvgMs    float64   `json:"avg_ms"`
	MaxMs    float64   `json:"max_ms"`
	Expired  bool      `json:"expired"` // path longer than the TTL
	Times    []float64 `json:"-"`
}

// PingStats runs Ping and simulates count echo packets over the resulting
// path. With a fixed Seed and loss rate the output is fully deterministic.
// A non-positive count defaults to 4 packets.
func (e *Engine) PingStats(source, destination string, count int) (*PingStats, error) {
	res, err := e.Ping(source, destination)
	if err != nil {
		return nil, err
	}
	if count <= 0 {
		count = 4
	}

	stats := &PingStats{PingResult: *res}
	if !res.Reachable {
		return stats, nil
	}
	if res.Hops > e.opts.TTL {
		stats.Expired = true
		stats.Sent = count
		stats.Lost = count
		stats.LossPct = 100
		return stats, nil
	}

	seed := e.opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	var sum float64
	for n := 0; n < count; n++ {
		stats.Sent++
		if rng.Float64() < e.opts.LossRate {
			stats.Lost++
			continue
		}
		latency := e.opts.MinLatency + rng.Float64()*(e.opts.MaxLatency-e.opts.MinLatency)
		stats.Received++
		stats.Times = append(stats.Times, latency)
		sum += latency
		if stats.MinMs == 0 || latency < stats.MinMs {
			stats.MinMs = latency
		}
		if latency > stats.MaxMs {
			stats.MaxMs = latency
		}
	}
	if stats.Received > 0 {
		stats.AvgMs = sum / float64(stats.Received)
	}
	stats.LossPct = float64(stats.Lost) / float64(stats.Sent) * 100
	return stats, nil
}
