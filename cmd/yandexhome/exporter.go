package main

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
	"golang.org/x/exp/slices"

	yh "github.com/tj-smith47/yandexhome-go"
)

// snapshotSource is the part of the client the exporter polls.
type snapshotSource interface {
	GetUserInfo(ctx context.Context) (*yh.UserInfo, error)
}

// sink receives every successful snapshot after the gauges are updated.
type sink interface {
	Write(ctx context.Context, samples []sample, at time.Time) error
}

type exporterMetrics struct {
	deviceOnline    *prometheus.GaugeVec
	capabilityState *prometheus.GaugeVec
	propertyState   *prometheus.GaugeVec
	polls           *prometheus.CounterVec
	lastSuccess     prometheus.Gauge
}

func newExporterMetrics(reg prometheus.Registerer) *exporterMetrics {
	m := &exporterMetrics{
		deviceOnline: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "yandexhome_device_online",
				Help: "1 if the device is reported online.",
			},
			[]string{"id", "name", "room", "type"},
		),
		capabilityState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "yandexhome_capability_state",
				Help: "Current numeric state of a device capability.",
			},
			[]string{"id", "name", "room", "capability", "instance"},
		),
		propertyState: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "yandexhome_property_state",
				Help: "Current value of a device property.",
			},
			[]string{"id", "name", "room", "property", "instance"},
		),
		polls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "yandexhome_exporter_polls_total",
				Help: "Snapshot polls by outcome.",
			},
			[]string{"outcome"},
		),
		lastSuccess: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "yandexhome_exporter_last_success_timestamp_seconds",
				Help: "Unix time of the last successful poll.",
			},
		),
	}
	reg.MustRegister(m.deviceOnline)
	reg.MustRegister(m.capabilityState)
	reg.MustRegister(m.propertyState)
	reg.MustRegister(m.polls)
	reg.MustRegister(m.lastSuccess)
	return m
}

// sample is one numeric reading taken from a snapshot.
type sample struct {
	DeviceID string
	Device   string
	Room     string
	Kind     string // "capability" or "property"
	Type     string
	Instance string
	Value    float64
}

// createRoomMapping maps device ids to room names.
func createRoomMapping(rooms []yh.Room, devices []yh.Device) map[string]string {
	mapping := make(map[string]string, len(devices))
	for _, d := range devices {
		idx := slices.IndexFunc(rooms, func(r yh.Room) bool { return r.ID == d.Room })
		if idx != -1 {
			mapping[d.ID] = rooms[idx].Name
		}
	}
	return mapping
}

// collectSamples extracts every numeric state of home. Mode and event
// values and hsv colors have no single number and are skipped.
func collectSamples(home *yh.SmartHome) []sample {
	rooms := createRoomMapping(home.Rooms, home.Devices)
	var samples []sample
	for _, d := range home.Devices {
		for _, c := range d.Capabilities {
			if v, ok := capabilityNumber(c.State); ok {
				samples = append(samples, sample{
					DeviceID: d.ID, Device: d.Name, Room: rooms[d.ID],
					Kind: "capability", Type: shortType(string(c.Type)), Instance: c.State.InstanceName(),
					Value: v,
				})
			}
		}
		for _, p := range d.Properties {
			if s, ok := p.State.(yh.FloatState); ok {
				samples = append(samples, sample{
					DeviceID: d.ID, Device: d.Name, Room: rooms[d.ID],
					Kind: "property", Type: shortType(string(p.Type)), Instance: string(s.Instance),
					Value: s.Value,
				})
			}
		}
	}
	return samples
}

func capabilityNumber(state yh.CapabilityState) (float64, bool) {
	switch s := state.(type) {
	case yh.OnOffState:
		return boolGauge(s.Value), true
	case yh.ToggleState:
		return boolGauge(s.Value), true
	case yh.RangeState:
		return s.Value, true
	case yh.ColorSettingState:
		if v, ok := s.Value.(yh.ColorInteger); ok {
			return float64(v), true
		}
	}
	return 0, false
}

func boolGauge(b bool) float64 {
	if b {
		return 1
	}
	return 0
}

// Exporter polls the account snapshot and publishes it as metrics.
type Exporter struct {
	source   snapshotSource
	metrics  *exporterMetrics
	logger   *zap.Logger
	interval time.Duration

	// refresh, when set, runs before every poll to rotate credentials.
	refresh func(ctx context.Context) error
	sinks   []sink

	refreshCh chan struct{}

	mu          sync.RWMutex
	lastSuccess time.Time
	lastErr     error

	seriesMu  sync.Mutex
	published map[series][]string
}

// series identifies one label set of a gauge vector.
type series struct {
	vec    *prometheus.GaugeVec
	labels string
}

func newExporter(source snapshotSource, reg prometheus.Registerer, interval time.Duration, logger *zap.Logger) *Exporter {
	return &Exporter{
		source:    source,
		metrics:   newExporterMetrics(reg),
		logger:    logger,
		interval:  interval,
		refreshCh: make(chan struct{}, 1),
	}
}

// TriggerRefresh asks the run loop to poll now.
func (e *Exporter) TriggerRefresh() {
	select {
	case e.refreshCh <- struct{}{}:
	default:
	}
}

// Run polls once immediately and then every interval until ctx is done.
func (e *Exporter) Run(ctx context.Context) {
	for {
		if err := e.PollOnce(ctx); err != nil && ctx.Err() == nil {
			e.logger.Warn("poll failed",
				zap.String("outcome", yh.Classify(err).String()),
				zap.String("message", yh.Message(err)),
				zap.Error(err),
			)
		}
		timer := time.NewTimer(e.interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-e.refreshCh:
			timer.Stop()
		case <-timer.C:
		}
	}
}

// PollOnce fetches one snapshot and updates the gauges and sinks.
func (e *Exporter) PollOnce(ctx context.Context) error {
	if e.refresh != nil {
		if err := e.refresh(ctx); err != nil {
			e.logger.Warn("credential refresh failed", zap.Error(err))
		}
	}

	info, err := e.source.GetUserInfo(ctx)
	e.metrics.polls.WithLabelValues(yh.Classify(err).String()).Inc()
	if err != nil {
		e.setResult(time.Time{}, err)
		return err
	}

	now := time.Now()
	samples := collectSamples(&info.SmartHome)
	e.update(&info.SmartHome, samples)
	for _, s := range e.sinks {
		if err := s.Write(ctx, samples, now); err != nil {
			e.logger.Warn("sink write failed", zap.Error(err))
		}
	}
	e.metrics.lastSuccess.Set(float64(now.Unix()))
	e.setResult(now, nil)
	e.logger.Debug("poll finished",
		zap.Int("devices", len(info.Devices)),
		zap.Int("samples", len(samples)),
		zap.String("request_id", info.RequestID),
	)
	return nil
}

// update sets the device gauges to the state in home, then deletes the
// series of devices and states that disappeared. A scrape running
// concurrently sees either the old or the new value of each series.
func (e *Exporter) update(home *yh.SmartHome, samples []sample) {
	e.seriesMu.Lock()
	defer e.seriesMu.Unlock()

	m := e.metrics
	current := make(map[series][]string, len(home.Devices)+len(samples))
	set := func(vec *prometheus.GaugeVec, value float64, labels ...string) {
		vec.WithLabelValues(labels...).Set(value)
		current[series{vec: vec, labels: strings.Join(labels, "\x00")}] = labels
	}

	rooms := createRoomMapping(home.Rooms, home.Devices)
	for _, d := range home.Devices {
		online := boolGauge(d.State == yh.DeviceStateOnline)
		set(m.deviceOnline, online, d.ID, d.Name, rooms[d.ID], shortType(string(d.Type)))
	}
	for _, s := range samples {
		vec := m.capabilityState
		if s.Kind == "property" {
			vec = m.propertyState
		}
		set(vec, s.Value, s.DeviceID, s.Device, s.Room, s.Type, s.Instance)
	}

	for key, labels := range e.published {
		if _, ok := current[key]; !ok {
			key.vec.DeleteLabelValues(labels...)
		}
	}
	e.published = current
}

func (e *Exporter) setResult(success time.Time, err error) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if err == nil {
		e.lastSuccess = success
	}
	e.lastErr = err
}

// Handler returns the exporter HTTP API.
func (e *Exporter) Handler(reg prometheus.Gatherer) http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
	r.Get("/healthz", e.health)
	r.Post("/refresh", e.triggerRefresh)
	return r
}

func (e *Exporter) health(w http.ResponseWriter, _ *http.Request) {
	e.mu.RLock()
	lastSuccess, lastErr := e.lastSuccess, e.lastErr
	e.mu.RUnlock()

	status, code := "ok", http.StatusOK
	body := map[string]any{}
	if !lastSuccess.IsZero() {
		body["last_success"] = lastSuccess.UTC().Format(time.RFC3339)
	}
	if lastErr != nil {
		body["last_error"] = yh.Message(lastErr)
		status = "degraded"
	}
	if lastSuccess.IsZero() {
		status, code = "unavailable", http.StatusServiceUnavailable
	}
	body["status"] = status
	writeJSON(w, code, body)
}

func (e *Exporter) triggerRefresh(w http.ResponseWriter, _ *http.Request) {
	e.TriggerRefresh()
	writeJSON(w, http.StatusAccepted, map[string]any{"status": "scheduled"})
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(body)
}

// runServer serves until ctx is done, then shuts the server down.
func runServer(ctx context.Context, server *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return <-errCh
}
