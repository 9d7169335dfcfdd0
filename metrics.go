package main

import (
	"github.com/Carson-Bove/tictactyler/games/tictactoe"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const metricsNamespace = "tictactyler"

// metrics counts session lifecycle events. It is a tictactoe.Observer.
type metrics struct {
	sessionsCreated   prometheus.Counter
	gamesStarted      prometheus.Counter
	moves             *prometheus.CounterVec
	gamesFinished     *prometheus.CounterVec
	resets            prometheus.Counter
	sessionsDestroyed *prometheus.CounterVec
	requeues          prometheus.Counter
	rejections        *prometheus.CounterVec
}

func newMetrics(reg prometheus.Registerer) *metrics {
	factory := promauto.With(reg)

	return &metrics{
		sessionsCreated: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_created_total",
			Help:      "Total number of game sessions opened by the matchmaking queue",
		}),

		gamesStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "games_started_total",
			Help:      "Total number of sessions that paired two participants",
		}),

		moves: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "moves_total",
			Help:      "Total number of accepted moves",
		}, []string{"mark"}),

		gamesFinished: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "games_finished_total",
			Help:      "Total number of finished rounds by outcome",
		}, []string{"winner"}),

		resets: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "resets_total",
			Help:      "Total number of rounds restarted in place",
		}),

		sessionsDestroyed: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "sessions_destroyed_total",
			Help:      "Total number of sessions torn down",
		}, []string{"cause"}),

		requeues: factory.NewCounter(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "requeues_total",
			Help:      "Total number of survivors returned to the matchmaking queue",
		}),

		rejections: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Name:      "rejections_total",
			Help:      "Total number of rejected client requests",
		}, []string{"kind", "reason"}),
	}
}

// registerCensus exports point-in-time counts read from stats on each scrape.
func registerCensus(reg prometheus.Registerer, stats func() tictactoe.Stats) {
	factory := promauto.With(reg)

	states := map[string]func(tictactoe.Stats) int{
		"waiting":  func(s tictactoe.Stats) int { return s.Waiting },
		"active":   func(s tictactoe.Stats) int { return s.Active },
		"finished": func(s tictactoe.Stats) int { return s.Finished },
	}
	for state, count := range states {
		count := count
		factory.NewGaugeFunc(prometheus.GaugeOpts{
			Namespace:   metricsNamespace,
			Name:        "sessions",
			Help:        "Current number of sessions by state",
			ConstLabels: prometheus.Labels{"state": state},
		}, func() float64 {
			return float64(count(stats()))
		})
	}

	factory.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: metricsNamespace,
		Name:      "connections",
		Help:      "Current number of live connections",
	}, func() float64 {
		return float64(stats().Connections)
	})
}

// knownKinds bounds the kind label to message types clients can send.
var knownKinds = map[string]bool{
	tictactoe.KindRequestJoin:  true,
	tictactoe.KindMakeMove:     true,
	tictactoe.KindGameOver:     true,
	tictactoe.KindRequestReset: true,
}

func (m *metrics) SessionCreated(string) {
	m.sessionsCreated.Inc()
}

func (m *metrics) SessionStarted(string) {
	m.gamesStarted.Inc()
}

func (m *metrics) MoveApplied(_ string, mark tictactoe.Mark, _ int) {
	m.moves.WithLabelValues(string(mark)).Inc()
}

func (m *metrics) GameFinished(_ string, winner tictactoe.Outcome) {
	m.gamesFinished.WithLabelValues(string(winner)).Inc()
}

func (m *metrics) GameReset(string) {
	m.resets.Inc()
}

func (m *metrics) SessionDestroyed(_ string, cause tictactoe.Cause) {
	m.sessionsDestroyed.WithLabelValues(string(cause)).Inc()
}

func (m *metrics) Requeued(string) {
	m.requeues.Inc()
}

func (m *metrics) Rejected(kind, reason string) {
	if !knownKinds[kind] {
		kind = "unknown"
	}
	m.rejections.WithLabelValues(kind, reason).Inc()
}
