package impl

import (
	"io"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/common/expfmt"
	"golang.org/x/xerrors"
)

const metricsPrefix = "inkwell_"

var (
	updatesPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: metricsPrefix + "updates_published_total",
		Help: "Total number of snapshots published by editing surfaces",
	})

	updatesDiscarded = promauto.NewCounter(prometheus.CounterOpts{
		Name: metricsPrefix + "updates_discarded_total",
		Help: "Total number of update transactions aborted by an error",
	})

	historyDecisions = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: metricsPrefix + "history_decisions_total",
		Help: "History decisions taken for published snapshots",
	}, []string{"action"})

	historyReplays = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: metricsPrefix + "history_replays_total",
		Help: "Undo and redo steps replayed",
	}, []string{"direction"})

	undoDepth = promauto.NewGauge(prometheus.GaugeOpts{
		Name: metricsPrefix + "history_undo_depth",
		Help: "Current number of entries on the last updated undo stack",
	})
)

// WriteMetrics writes the editor metrics gathered from g in the Prometheus
// text format.
func WriteMetrics(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return xerrors.Errorf("failed to gather metrics: %v", err)
	}

	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), metricsPrefix) {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return xerrors.Errorf("failed to write %s: %v", mf.GetName(), err)
		}
	}
	return nil
}
