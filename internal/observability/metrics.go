package observability

import (
	"context"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/yungbote/payerdesk/internal/platform/envutil"
	"github.com/yungbote/payerdesk/internal/platform/logger"
)

type Metrics struct {
	apiRequests   *CounterVec
	apiLatency    *HistogramVec
	apiInflight   *GaugeVec
	mutations     *CounterVec
	unmappedQueue *GaugeVec
	queueCache    *CounterVec
	importedRows  *CounterVec
	automapped    *CounterVec
	dbStats       *GaugeVec
	redisUp       *GaugeVec
	redisPing     *GaugeVec
}

var (
	initOnce sync.Once
	instance *Metrics
)

func Enabled() bool {
	return envutil.Bool("METRICS_ENABLED", false)
}

// Current is nil when metrics are disabled. Every method is nil-safe.
func Current() *Metrics {
	return instance
}

func scrapeInterval() time.Duration {
	n := envutil.Int("METRICS_SCRAPE_INTERVAL_SECONDS", 0)
	if n <= 0 {
		return 10 * time.Second
	}
	return time.Duration(n) * time.Second
}

func Init(log *logger.Logger) *Metrics {
	if !Enabled() {
		return nil
	}
	initOnce.Do(func() {
		instance = NewMetrics()
		if log != nil {
			log.Info("Observability metrics enabled")
		}
	})
	return instance
}

// NewMetrics builds an unregistered Metrics; Init is the process-wide entry.
func NewMetrics() *Metrics {
	return &Metrics{
		apiRequests: NewCounterVec("payerdesk_api_requests_total", "Total API requests by method/route/status.", []string{"method", "route", "status"}),
		apiLatency: NewHistogramVec(
			"payerdesk_api_request_duration_seconds",
			"API request latency in seconds by method/route.",
			[]string{"method", "route"},
			[]float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5},
		),
		apiInflight:   NewGauge("payerdesk_api_inflight_requests", "In-flight API requests."),
		mutations:     NewCounterVec("payerdesk_mutations_total", "Store mutations by operation/result.", []string{"op", "result"}),
		unmappedQueue: NewGauge("payerdesk_unmapped_queue_size", "Details flagged for review at the last queue build."),
		queueCache:    NewCounterVec("payerdesk_unmapped_cache_lookups_total", "Unmapped queue cache lookups by result.", []string{"result"}),
		importedRows:  NewCounterVec("payerdesk_imported_rows_total", "Rows imported by sheet and outcome.", []string{"sheet", "outcome"}),
		automapped:    NewCounterVec("payerdesk_automap_total", "Auto-mapping results by kind.", []string{"kind"}),
		dbStats:       NewGaugeVec("payerdesk_db_pool", "Database pool statistics.", []string{"stat"}),
		redisUp:       NewGauge("payerdesk_redis_up", "Redis reachability (1 up, 0 down)."),
		redisPing:     NewGauge("payerdesk_redis_ping_seconds", "Redis ping latency in seconds."),
	}
}

// Handler serves the exposition text; 503 when metrics are disabled.
func (m *Metrics) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if m == nil {
			w.WriteHeader(http.StatusServiceUnavailable)
			return
		}
		w.Header().Set("Content-Type", "text/plain; version=0.0.4")
		_ = m.WritePrometheus(w)
	})
}

func (m *Metrics) WritePrometheus(w io.Writer) error {
	if m == nil {
		return nil
	}
	writers := []interface{ WritePrometheus(io.Writer) error }{
		m.apiRequests, m.apiLatency, m.apiInflight,
		m.mutations, m.unmappedQueue, m.queueCache,
		m.importedRows, m.automapped,
		m.dbStats, m.redisUp, m.redisPing,
	}
	for _, wr := range writers {
		if err := wr.WritePrometheus(w); err != nil {
			return err
		}
	}
	return nil
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unknown"
	}
	if status == "" {
		status = "0"
	}
	m.apiRequests.Inc(method, route, status)
	m.apiLatency.Observe(dur.Seconds(), method, route)
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Add(1)
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Add(-1)
}

// ObserveMutation counts one store mutation; result is "ok" or "error".
func (m *Metrics) ObserveMutation(op string, err error) {
	if m == nil {
		return
	}
	result := "ok"
	if err != nil {
		result = "error"
	}
	m.mutations.Inc(op, result)
}

func (m *Metrics) SetUnmappedQueueSize(n int) {
	if m == nil {
		return
	}
	m.unmappedQueue.Set(float64(n))
}

// IncQueueCache records a cache lookup: "hit", "miss" or "error".
func (m *Metrics) IncQueueCache(result string) {
	if m == nil {
		return
	}
	m.queueCache.Inc(result)
}

func (m *Metrics) AddImportedRows(sheet, outcome string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.importedRows.Add(float64(n), sheet, outcome)
}

func (m *Metrics) AddAutomapped(kind string, n int) {
	if m == nil || n <= 0 {
		return
	}
	m.automapped.Add(float64(n), kind)
}

func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB) {
	if m == nil || db == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sqlDB, err := db.DB()
				if err != nil {
					if log != nil {
						log.Warn("metrics: db stats unavailable", "error", err)
					}
					continue
				}
				stats := sqlDB.Stats()
				m.dbStats.Set(float64(stats.OpenConnections), "open_connections")
				m.dbStats.Set(float64(stats.InUse), "in_use")
				m.dbStats.Set(float64(stats.Idle), "idle")
				m.dbStats.Set(float64(stats.WaitCount), "wait_count")
				m.dbStats.Set(stats.WaitDuration.Seconds(), "wait_duration_seconds")
			}
		}
	}()
}

// StartRedisCollector pings rdb on every scrape interval. The client is owned
// by the caller.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb redis.UniversalClient) {
	if m == nil || rdb == nil {
		return
	}
	interval := scrapeInterval()
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				start := time.Now()
				if err := rdb.Ping(ctx).Err(); err != nil {
					m.redisUp.Set(0)
					if log != nil {
						log.Warn("metrics: redis ping failed", "error", err)
					}
					continue
				}
				m.redisUp.Set(1)
				m.redisPing.Set(time.Since(start).Seconds())
			}
		}
	}()
}
