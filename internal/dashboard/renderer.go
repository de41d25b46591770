package dashboard

import (
	"fmt"
	"io"
	"time"

	"github.com/cdzombak/httpwatch/internal/alert"
	"github.com/cdzombak/httpwatch/internal/stats"
)

// AggregatorSnapshot is one aggregator's ranked entries as of the moment
// the dashboard snapshot was taken.
type AggregatorSnapshot struct {
	Title string
	Hits  []stats.Hit
}

// Snapshot is the consistent read of monitor state the renderer needs.
// Callers take it under the monitor's mutex and release before calling
// Render.
type Snapshot struct {
	Anchor                 time.Time
	AverageBaseline        int
	AverageThreshold       float64
	RequestCount           int
	AverageBucketCountdown int
	State                  alert.RunState
	History                []alert.Record
	Aggregators            []AggregatorSnapshot
}

// wallTime converts a monotonic-seconds timestamp to a local wall-clock
// time for display, using the snapshot's clock anchor.
func (s Snapshot) wallTime(seconds float64) time.Time {
	return s.Anchor.Add(time.Duration(seconds * float64(time.Second))).Local()
}

const timeLayout = "15:04:05 2006/01/02"

// Render writes one dashboard frame to w: a clear-screen sequence (when
// clearScreen is true), a header with baseline/threshold/request-count/
// countdown, an alert banner when State is Alert or Dismiss and history is
// non-empty, the full alert history, then one section per aggregator with
// its title and ranked entries.
func Render(w io.Writer, snap Snapshot, clearScreen bool) {
	if clearScreen {
		fmt.Fprint(w, "\x1b[2J\x1b[H")
	}

	fmt.Fprintln(w, headerStyle.Render("httpwatch"))
	fmt.Fprintln(w, renderKeyValue("State", StateStyle(snap.State).Render(snap.State.String())))
	fmt.Fprintln(w, renderKeyValue("Baseline", fmt.Sprintf("%d req/bucket", snap.AverageBaseline)))
	fmt.Fprintln(w, renderKeyValue("Threshold", formatPercent(snap.AverageThreshold)))
	fmt.Fprintln(w, renderKeyValue("Current count", fmt.Sprintf("%d", snap.RequestCount)))
	fmt.Fprintln(w, renderKeyValue("Next evaluation", fmt.Sprintf("%ds", snap.AverageBucketCountdown)))

	if (snap.State == alert.Alert || snap.State == alert.Dismiss) && len(snap.History) > 0 {
		fmt.Fprintln(w)
		banner := "ALERT ACTIVE"
		style := statusAlert
		if snap.State == alert.Dismiss {
			banner = "ALERT DISMISSED"
			style = statusDismiss
		}
		fmt.Fprintln(w, style.Render(banner))
		most := snap.History[0]
		fmt.Fprintln(w, dimStyle.Render(fmt.Sprintf("most recent: count=%d at %s", most.Count, snap.wallTime(most.TriggeredAt).Format(timeLayout))))
	}

	fmt.Fprintln(w, sectionHeaderStyle.Render("Alert history"))
	if len(snap.History) == 0 {
		fmt.Fprintln(w, dimStyle.Render("(none)"))
	}
	for _, rec := range snap.History {
		fmt.Fprintf(w, "  count: %-8d triggered_at: %s\n", rec.Count, snap.wallTime(rec.TriggeredAt).Format(timeLayout))
	}

	for _, agg := range snap.Aggregators {
		fmt.Fprintln(w, sectionHeaderStyle.Render(agg.Title))
		if len(agg.Hits) == 0 {
			fmt.Fprintln(w, dimStyle.Render("(none)"))
			continue
		}
		for _, hit := range agg.Hits {
			fmt.Fprintf(w, "  %s: %d last_seen: %s\n", hit.Key, hit.Entry.Count, snap.wallTime(hit.Entry.LastSeen).Format(timeLayout))
		}
	}
}

// RenderLearning writes the minimal learning-phase screen: just the state
// banner and accumulated request count, with no aggregator sections (the
// aggregators are not updated while in Learn, so there is nothing ranked
// to show yet).
func RenderLearning(w io.Writer, requestCount, learningCountdown int, clearScreen bool) {
	if clearScreen {
		fmt.Fprint(w, "\x1b[2J\x1b[H")
	}
	fmt.Fprintln(w, headerStyle.Render("httpwatch"))
	fmt.Fprintln(w, renderKeyValue("State", StateStyle(alert.Learn).Render(alert.Learn.String())))
	fmt.Fprintln(w, renderKeyValue("Requests observed", fmt.Sprintf("%d", requestCount)))
	fmt.Fprintln(w, renderKeyValue("Learning countdown", fmt.Sprintf("%ds", learningCountdown)))
}
