// Package baseline implements the adaptive learning phase that derives
// average_baseline from observed request volume before the monitor starts
// evaluating alerts.
package baseline

import (
	"math"

	"github.com/cdzombak/httpwatch/internal/alert"
)

// Config bundles the learner's tunables, a subset of the monitor's config.
type Config struct {
	AverageBucketSize       int
	AverageLearningDuration int
}

// Learner accumulates request_count during the Learn state and, once per
// tick, produces a running estimate of average_baseline.
type Learner struct {
	cfg Config

	requestCount      int
	learningCountdown int
	baseline          int
}

// New creates a Learner with the countdown initialized to the full
// learning duration.
func New(cfg Config) *Learner {
	return &Learner{
		cfg:               cfg,
		learningCountdown: cfg.AverageLearningDuration,
	}
}

// ObserveRequest increments request_count. Called once per ingested
// request-kind event while the FSM is in Learn.
func (l *Learner) ObserveRequest() {
	l.requestCount++
}

// RequestCount returns the current accumulated request count.
func (l *Learner) RequestCount() int {
	return l.requestCount
}

// Countdown returns the remaining seconds in the current learning window.
func (l *Learner) Countdown() int {
	return l.learningCountdown
}

// Baseline returns the most recently computed running estimate.
func (l *Learner) Baseline() int {
	return l.baseline
}

// Tick runs one learning-window step of period timeout seconds against fsm,
// per the algorithm:
//  1. decrement average_learning_countdown by timeout, clamped at 0.
//  2. elapsed := average_learning_duration - average_learning_countdown;
//     if elapsed == 0, baseline is 0.
//  3. average_baseline := round(request_count * average_bucket_size / elapsed).
//  4. if average_learning_countdown == 0:
//     - baseline > 0: reset request_count, reset countdown, transition
//       FSM Learn -> Normal.
//     - else: reset countdown and request_count, remain in Learn.
//
// Tick must only be called while fsm is in alert.Learn.
func (l *Learner) Tick(timeout int, fsm *alert.FSM) error {
	l.learningCountdown -= timeout
	if l.learningCountdown < 0 {
		l.learningCountdown = 0
	}

	elapsed := l.cfg.AverageLearningDuration - l.learningCountdown
	if elapsed == 0 {
		l.baseline = 0
	} else {
		l.baseline = int(math.Round(float64(l.requestCount) * float64(l.cfg.AverageBucketSize) / float64(elapsed)))
	}

	if l.learningCountdown == 0 {
		if l.baseline > 0 {
			l.requestCount = 0
			l.learningCountdown = l.cfg.AverageLearningDuration
			return fsm.Transition(alert.Normal)
		}
		l.learningCountdown = l.cfg.AverageLearningDuration
		l.requestCount = 0
	}
	return nil
}
