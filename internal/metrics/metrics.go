package metrics

import (
	"net/http"
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rocketscienceinc/tictactoe-sessions/internal/apperror"
	"github.com/rocketscienceinc/tictactoe-sessions/internal/entity"
)

// Metrics - game and HTTP counters registered on a private registry.
type Metrics struct {
	registry *prometheus.Registry

	gamesCreated   prometheus.Counter
	gamesCompleted *prometheus.CounterVec
	moves          prometheus.Counter
	rejected       *prometheus.CounterVec
	activeGames    prometheus.Gauge

	httpRequests        *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec
}

func New() *Metrics {
	that := &Metrics{
		registry: prometheus.NewRegistry(),
		gamesCreated: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "tictactoe_games_created_total", Help: "Games created"},
		),
		gamesCompleted: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "tictactoe_games_completed_total", Help: "Games completed by outcome"},
			[]string{"outcome"},
		),
		moves: prometheus.NewCounter(
			prometheus.CounterOpts{Name: "tictactoe_moves_total", Help: "Accepted moves"},
		),
		rejected: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "tictactoe_rejected_operations_total", Help: "Rejected operations by error kind"},
			[]string{"operation", "kind"},
		),
		activeGames: prometheus.NewGauge(
			prometheus.GaugeOpts{Name: "tictactoe_active_games", Help: "Games currently held in memory"},
		),
		httpRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Name: "http_requests_total", Help: "Total HTTP requests"},
			[]string{"method", "route", "status"},
		),
		httpRequestDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "http_request_duration_seconds",
				Help:    "HTTP request duration",
				Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
			},
			[]string{"method", "route"},
		),
	}

	that.registry.MustRegister(
		that.gamesCreated,
		that.gamesCompleted,
		that.moves,
		that.rejected,
		that.activeGames,
		that.httpRequests,
		that.httpRequestDuration,
	)

	return that
}

func (that *Metrics) GameCreated() {
	that.gamesCreated.Inc()
	that.activeGames.Inc()
}

func (that *Metrics) GameDeleted() {
	that.activeGames.Dec()
}

// MoveAccepted - counts the move and, for a finishing move, the outcome.
func (that *Metrics) MoveAccepted(outcome entity.Outcome) {
	that.moves.Inc()

	switch outcome.Kind {
	case entity.OutcomeWin:
		that.gamesCompleted.WithLabelValues("win").Inc()
	case entity.OutcomeDraw:
		that.gamesCompleted.WithLabelValues("draw").Inc()
	}
}

func (that *Metrics) Rejected(operation string, err error) {
	that.rejected.WithLabelValues(operation, string(apperror.KindOf(err))).Inc()
}

func (that *Metrics) ObserveRequest(method, route string, status int, seconds float64) {
	that.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	that.httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

func (that *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(that.registry, promhttp.HandlerOpts{})
}
