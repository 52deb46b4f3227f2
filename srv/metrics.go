package srv

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	connectedPlayers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wordparty_connected_players",
		Help: "Number of player sessions currently connected.",
	})

	activeGames = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "wordparty_active_games",
		Help: "Number of game rooms currently running.",
	})

	gamesCreatedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "wordparty_games_created_total",
		Help: "Total number of game rooms created.",
	})
)
