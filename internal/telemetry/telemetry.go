// Package telemetry exposes flight-core metrics over a local debug server.
package telemetry

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	tickDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "starflight_tick_duration_seconds",
		Help:    "Time spent in a simulation tick",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05},
	})

	renderDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "starflight_render_duration_seconds",
		Help:    "Time spent rasterizing a frame",
		Buckets: []float64{0.001, 0.005, 0.01, 0.016, 0.033, 0.1},
	})

	// Bounded labels: dock, collision, contact.
	resolverEvents = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "starflight_resolver_events_total",
		Help: "Dock and collision events",
	}, []string{"kind"})

	// Bounded labels: the autonav disengage reasons.
	autonavDisengaged = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "starflight_autonav_disengaged_total",
		Help: "Autonav disengagements by reason",
	}, []string{"reason"})

	// Bounded labels: hit, miss.
	aimResolved = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "starflight_fire_ticks_total",
		Help: "Ticks with fire held, by whether the aim landed on a body",
	}, []string{"result"})

	autonavActive = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "starflight_autonav_active",
		Help: "1 while autonav is flying the ship",
	})

	playerSpeed = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "starflight_player_speed_au_per_second",
		Help: "Player ship speed",
	})
)

// RecordTick records tick timing.
func RecordTick(d time.Duration) {
	tickDuration.Observe(d.Seconds())
}

// RecordRender records frame rasterization timing.
func RecordRender(d time.Duration) {
	renderDuration.Observe(d.Seconds())
}

// RecordEvent counts a resolver event. kind must be a bounded label value.
func RecordEvent(kind string) {
	resolverEvents.WithLabelValues(kind).Inc()
}

// RecordDisengage counts an autonav disengagement.
func RecordDisengage(reason string) {
	autonavDisengaged.WithLabelValues(reason).Inc()
}

// RecordFire counts a tick of fire held.
func RecordFire(hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	aimResolved.WithLabelValues(result).Inc()
}

// SetAutonav updates the autonav gauge.
func SetAutonav(active bool) {
	if active {
		autonavActive.Set(1)
		return
	}
	autonavActive.Set(0)
}

// SetSpeed updates the player speed gauge.
func SetSpeed(auPerSecond float64) {
	playerSpeed.Set(auPerSecond)
}

// NewRouter returns the debug router: /metrics, /health and /debug/pprof.
// It holds no listener, so tests can wrap it in httptest.NewServer.
func NewRouter() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("OK"))
	})
	r.Mount("/debug", middleware.Profiler())
	return r
}

// Serve runs the debug server on addr until ctx is cancelled.
func Serve(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           NewRouter(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info().Str("addr", addr).Msg("telemetry server listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
