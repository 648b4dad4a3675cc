package monitor

import (
	"context"
	"errors"
	"time"
)

const DefaultInterval = 60 * time.Second

// WatchConfig holds everything Watch needs.
type WatchConfig struct {
	Monitor  *Monitor
	Channels []string
	Interval time.Duration // defaults to DefaultInterval if <= 0
	Rounds   int           // 0 = until ctx is done

	// ReportInitial reports everything found on the first poll of a
	// channel instead of silently taking it as the baseline.
	ReportInitial bool

	// OnChange is called for every change, in poll order. Nil = no callback.
	OnChange func(Change)
	Log      Logger // optional; nil = no logging
}

// Watch polls every channel once per round, one channel at a time, and
// reports what changed since the previous round. A channel whose pages
// fail to render is left out of that round's comparison. It returns ctx.Err()
// when ctx ends before the configured rounds are done.
func Watch(ctx context.Context, cfg WatchConfig) error {
	if cfg.Monitor == nil {
		return errors.New("watch: no monitor configured")
	}
	if len(cfg.Channels) == 0 {
		return errors.New("watch: no channels configured")
	}
	log := cfg.Log
	if log == nil {
		log = nopLogger{}
	}
	interval := cfg.Interval
	if interval <= 0 {
		interval = DefaultInterval
	}

	tracker := NewTracker()
	for round := 1; cfg.Rounds <= 0 || round <= cfg.Rounds; round++ {
		log.Debugf("Starting poll round %d", round)
		for _, ch := range cfg.Channels {
			if err := ctx.Err(); err != nil {
				return err
			}
			live, liveErr := cfg.Monitor.liveCheck(ctx, ch)
			upcoming, upcomingErr := cfg.Monitor.upcomingCheck(ctx, ch)
			if liveErr != nil || upcomingErr != nil {
				// An empty result here means "unknown", not "nothing".
				// Keep the previous snapshot so the channel does not flap.
				log.Warnf("%s: skipping round %d, page did not render", ch, round)
				continue
			}

			changes, first := tracker.Update(ch, live, upcoming)
			if first && !cfg.ReportInitial {
				log.Infof("%s: %d live, %d scheduled", ch, len(live), len(upcoming))
				continue
			}
			for _, c := range changes {
				if cfg.OnChange != nil {
					cfg.OnChange(c)
				}
			}
		}

		if cfg.Rounds > 0 && round == cfg.Rounds {
			break
		}
		if err := wait(ctx, interval); err != nil {
			return err
		}
	}
	return nil
}

// wait is swapped in tests.
var wait = func(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
