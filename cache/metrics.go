package cache

import "time"

// Metrics bounds.
const (
	// latencyWindowMax is the maximum number of retained access latency
	// samples; on overflow the window is trimmed to the newest
	// latencyWindowKeep samples.
	latencyWindowMax  = 1000
	latencyWindowKeep = 500

	// recentKeyLimit bounds the diagnostic listing in Stats.RecentKeys.
	recentKeyLimit = 10

	// keyPrefixLen is how much of a derived key Stats exposes. Full keys
	// are content fingerprints and are never surfaced.
	keyPrefixLen = 8
)

// Stats is a point-in-time snapshot of a store's usage metrics.
type Stats struct {
	Hits            int64   `json:"hits"`
	Misses          int64   `json:"misses"`
	Evictions       int64   `json:"evictions"`
	TotalRequests   int64   `json:"total_requests"`
	HitRate         float64 `json:"hit_rate"`
	AvgAccessTimeMs float64 `json:"avg_access_time_ms"`
	Entries         int     `json:"entries"`

	// RecentKeys lists short prefixes of the most recently used keys,
	// newest first, capped at recentKeyLimit.
	RecentKeys []string `json:"recent_keys,omitempty"`
}

// recorder receives store lookup events. Implementations are not safe for
// concurrent use on their own; the owning store serializes all access.
type recorder interface {
	hit(d time.Duration)
	miss(d time.Duration)
	eviction()
	reset()
	snapshot() Stats
}

// collector accumulates cumulative counters and a bounded rolling window of
// access latencies.
type collector struct {
	hits      int64
	misses    int64
	evictions int64
	samples   []float64
}

func newCollector() *collector {
	return &collector{}
}

func (c *collector) hit(d time.Duration) {
	c.hits++
	c.observe(d)
}

func (c *collector) miss(d time.Duration) {
	c.misses++
	c.observe(d)
}

// eviction counts a capacity-driven LRU removal. TTL expiry never reaches
// here; an expired read is recorded as a miss so that "evicted for space"
// and "expired for staleness" stay distinguishable downstream.
func (c *collector) eviction() {
	c.evictions++
}

func (c *collector) observe(d time.Duration) {
	c.samples = append(c.samples, float64(d)/float64(time.Millisecond))
	if len(c.samples) > latencyWindowMax {
		trimmed := make([]float64, latencyWindowKeep)
		copy(trimmed, c.samples[len(c.samples)-latencyWindowKeep:])
		c.samples = trimmed
	}
}

func (c *collector) reset() {
	*c = collector{}
}

func (c *collector) snapshot() Stats {
	total := c.hits + c.misses

	s := Stats{
		Hits:          c.hits,
		Misses:        c.misses,
		Evictions:     c.evictions,
		TotalRequests: total,
	}

	// Guard against 0/0: no requests means a hit rate of 0, not NaN.
	if total > 0 {
		s.HitRate = float64(c.hits) / float64(total)
	}

	if len(c.samples) > 0 {
		var sum float64
		for _, v := range c.samples {
			sum += v
		}
		s.AvgAccessTimeMs = sum / float64(len(c.samples))
	}

	return s
}

// noopRecorder is used when metrics are disabled.
type noopRecorder struct{}

func (noopRecorder) hit(time.Duration)  {}
func (noopRecorder) miss(time.Duration) {}
func (noopRecorder) eviction()          {}
func (noopRecorder) reset()             {}
func (noopRecorder) snapshot() Stats    { return Stats{} }

// Ensure both recorders satisfy the interface
var (
	_ recorder = (*collector)(nil)
	_ recorder = noopRecorder{}
)
