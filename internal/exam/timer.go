package exam

import (
	"context"
	"time"
)

// ShowTimerThreshold is when the countdown becomes visible: the last
// five minutes. Hiding it earlier avoids inducing test anxiety during a
// long exam while still giving a final-countdown warning.
const ShowTimerThreshold = 5 * 60 // seconds

// Tick advances the countdown by one second and persists the session.
// TimeRemaining floors at 0 and never increases; ShowTimer latches on
// at the threshold and never reverts. The returned timeUp is true for
// exactly one tick, the first to reach zero; the student may dismiss
// the notification and keep talking, so running out of time neither
// hides the question nor forces navigation.
func (f *Flow) Tick(ctx context.Context) (timeUp bool, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.phase == PhaseFinished && f.sess.IsComplete {
		return false, nil
	}

	if f.sess.TimeRemaining > 0 {
		f.sess.TimeRemaining--
	}
	if f.sess.TimeRemaining <= ShowTimerThreshold {
		f.sess.ShowTimer = true
	}
	if f.sess.TimeRemaining <= 0 && !f.timeUp {
		f.timeUp = true
		timeUp = true
	}

	if err := f.store.SaveSession(ctx, f.sess); err != nil {
		return timeUp, err
	}
	return timeUp, nil
}

// RunTimer drives the 1 Hz countdown until ctx is cancelled (view
// teardown), preventing a dangling tick from writing to a stale
// session. notify fires once, on the tick that exhausts the clock.
func RunTimer(ctx context.Context, f *Flow, notify func()) error {
	t := time.NewTicker(time.Second)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-t.C:
			up, err := f.Tick(ctx)
			if err != nil {
				return err
			}
			if up && notify != nil {
				notify()
			}
		}
	}
}
