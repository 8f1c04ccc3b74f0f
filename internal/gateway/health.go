package gateway

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"sort"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"

	"github.com/oksasatya/go-ddd-campus/pkg/helpers"
)

type Status string

const (
	StatusOK      Status = "OK"
	StatusError   Status = "Error"
	StatusDown    Status = "Down"
	StatusUnknown Status = "Unknown"
)

// HealthKey is the redis hash holding the latest result per upstream.
const HealthKey = "gateway:health"

const maxHealthBody = 64 << 10

type Result struct {
	Name       string    `json:"name"`
	URL        string    `json:"url"`
	Status     Status    `json:"status"`
	HTTPStatus int       `json:"httpStatus,omitempty"`
	LatencyMS  float64   `json:"latencyMs"`
	Error      string    `json:"error,omitempty"`
	CheckedAt  time.Time `json:"checkedAt"`
}

// Monitor probes GET <upstream>/health/ping on a cron schedule and keeps the
// latest result per upstream.
type Monitor struct {
	upstreams []Upstream
	client    *http.Client
	timeout   time.Duration
	rdb       *redis.Client
	ttl       time.Duration
	metrics   *Metrics
	logger    *logrus.Logger

	mu      sync.RWMutex
	results map[string]Result

	cron *cron.Cron
}

type MonitorOptions struct {
	Client  *http.Client
	Timeout time.Duration
	Redis   *redis.Client // optional
	TTL     time.Duration
	Metrics *Metrics // optional
	Logger  *logrus.Logger
}

func NewMonitor(upstreams []Upstream, opts MonitorOptions) *Monitor {
	if opts.Client == nil {
		opts.Client = &http.Client{}
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 3 * time.Second
	}
	m := &Monitor{
		upstreams: upstreams,
		client:    opts.Client,
		timeout:   opts.Timeout,
		rdb:       opts.Redis,
		ttl:       opts.TTL,
		metrics:   opts.Metrics,
		logger:    opts.Logger,
		results:   make(map[string]Result, len(upstreams)),
	}
	for _, u := range upstreams {
		m.results[u.Name] = Result{Name: u.Name, URL: healthURL(u), Status: StatusUnknown}
	}
	return m
}

func healthURL(u Upstream) string {
	return u.Target.JoinPath("health", "ping").String()
}

// Probe classifies one upstream: OK for a 2xx whose JSON status is "ok",
// Error for any other HTTP answer, Down when no answer arrives in time.
func (m *Monitor) Probe(ctx context.Context, u Upstream) Result {
	res := Result{Name: u.Name, URL: healthURL(u), CheckedAt: time.Now().UTC()}
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, res.URL, nil)
	if err != nil {
		res.Status, res.Error = StatusDown, err.Error()
		return res
	}
	resp, err := m.client.Do(req)
	if err != nil {
		res.LatencyMS = msSince(start)
		res.Status, res.Error = StatusDown, err.Error()
		return res
	}
	defer func() { _ = resp.Body.Close() }()
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxHealthBody))
	res.LatencyMS = msSince(start)
	res.HTTPStatus = resp.StatusCode
	if err != nil {
		res.Status, res.Error = StatusDown, err.Error()
		return res
	}

	switch {
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		res.Status, res.Error = StatusError, fmt.Sprintf("unexpected status %d", resp.StatusCode)
	case !gjson.ValidBytes(body):
		res.Status, res.Error = StatusError, "health body is not json"
	case gjson.GetBytes(body, "status").String() != "ok":
		res.Status, res.Error = StatusError, fmt.Sprintf("health status %q", gjson.GetBytes(body, "status").String())
	default:
		res.Status = StatusOK
	}
	return res
}

func msSince(t time.Time) float64 {
	return float64(time.Since(t).Microseconds()) / 1000
}

// CheckAll probes every upstream concurrently and records the results.
func (m *Monitor) CheckAll(ctx context.Context) []Result {
	out := make([]Result, len(m.upstreams))
	var wg sync.WaitGroup
	for i, u := range m.upstreams {
		wg.Add(1)
		go func(i int, u Upstream) {
			defer wg.Done()
			out[i] = m.Probe(ctx, u)
		}(i, u)
	}
	wg.Wait()

	m.mu.Lock()
	for _, r := range out {
		prev := m.results[r.Name].Status
		m.results[r.Name] = r
		if prev != r.Status && m.logger != nil {
			m.logger.WithFields(logrus.Fields{"upstream": r.Name, "from": prev, "to": r.Status}).Info("upstream status changed")
		}
	}
	m.mu.Unlock()

	for _, r := range out {
		if m.metrics != nil {
			m.metrics.ObserveProbe(r)
		}
		m.persist(ctx, r)
	}
	return out
}

func (m *Monitor) persist(ctx context.Context, r Result) {
	if m.rdb == nil {
		return
	}
	c, cancel := context.WithTimeout(ctx, time.Second)
	defer cancel()
	if err := helpers.RedisHSetJSON(c, m.rdb, HealthKey, r.Name, r, m.ttl); err != nil && m.logger != nil {
		m.logger.WithError(err).WithField("upstream", r.Name).Warn("redis health write failed")
	}
}

// Restore seeds the in-memory results from redis, keeping only known upstreams.
func (m *Monitor) Restore(ctx context.Context) error {
	if m.rdb == nil {
		return nil
	}
	saved, err := helpers.RedisHGetAllJSON[Result](ctx, m.rdb, HealthKey)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	for name, r := range saved {
		if _, ok := m.results[name]; ok {
			m.results[name] = r
		}
	}
	return nil
}

// Snapshot returns the latest results ordered by upstream name.
func (m *Monitor) Snapshot() []Result {
	m.mu.RLock()
	out := make([]Result, 0, len(m.results))
	for _, r := range m.results {
		out = append(out, r)
	}
	m.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// Start runs one check immediately and then on spec, e.g. "@every 15s".
func (m *Monitor) Start(ctx context.Context, spec string) error {
	c := cron.New()
	if _, err := c.AddFunc(spec, func() { m.CheckAll(ctx) }); err != nil {
		return fmt.Errorf("gateway: health schedule %q: %w", spec, err)
	}
	m.cron = c
	m.CheckAll(ctx)
	c.Start()
	return nil
}

// Stop halts the schedule and waits for a running check to finish.
func (m *Monitor) Stop() {
	if m.cron == nil {
		return
	}
	<-m.cron.Stop().Done()
}
