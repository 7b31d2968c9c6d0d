// internal/metrics/metrics.go
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Game-level counters. Registered on the default registry; cardinality is
// fixed so there is no label cleanup to worry about.
var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lyricbingo_rooms_created_total",
		Help: "Number of rooms created.",
	})

	PlayersJoined = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lyricbingo_players_joined_total",
		Help: "Number of player joins, excluding idempotent re-joins.",
	})

	ClaimsStarted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lyricbingo_claims_started_total",
		Help: "Number of bingo claims that passed the line check and entered review.",
	})

	ClaimsNoLine = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lyricbingo_claims_no_line_total",
		Help: "Number of bingo calls rejected because no line was complete.",
	})

	VotesCast = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lyricbingo_votes_cast_total",
		Help: "Number of votes accepted into a claim's current cell.",
	})

	ClaimsRejected = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lyricbingo_claims_rejected_total",
		Help: "Number of claims that failed a cell vote.",
	})

	BingosAwarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: "lyricbingo_bingos_awarded_total",
		Help: "Number of claims accepted through all five cells.",
	})
)

// Handler exposes the default registry for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
