// Package evaluator implements the periodic comparison of observed request
// volume against the learned baseline, driving the alert state machine and
// history.
package evaluator

import (
	"github.com/cdzombak/httpwatch/internal/alert"
)

// Evaluate runs once per average_bucket_size window while the FSM is
// outside Learn. requestCount and averageBaseline are the current bucket's
// observed count and the learned baseline (averageBaseline must be > 0,
// guaranteed by the FSM never leaving Learn otherwise); thresholdPercent is
// the configured alert trigger percentage; now is the current clock
// reading used to stamp any new alert.Record.
//
// Returns the computed delta percentage. The caller is responsible for
// resetting its own request_count counter to 0 after this call, per the
// asymmetric-comparison contract below: equal-to-threshold is not an
// alert.
func Evaluate(requestCount, averageBaseline int, thresholdPercent float64, fsm *alert.FSM, history *alert.History, now float64) (float64, error) {
	delta := float64(requestCount-averageBaseline) * 100 / float64(averageBaseline)

	switch {
	case delta > thresholdPercent:
		if err := fsm.Transition(alert.Alert); err != nil {
			return delta, err
		}
		history.Prepend(alert.Record{Count: requestCount, TriggeredAt: now})
	case fsm.State() == alert.Alert:
		if err := fsm.Transition(alert.Dismiss); err != nil {
			return delta, err
		}
	default:
		if err := fsm.Transition(alert.Normal); err != nil {
			return delta, err
		}
	}

	return delta, nil
}
