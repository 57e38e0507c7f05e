package daemon

import (
	"fmt"
	"log/slog"

	"github.com/go-co-op/gocron/v2"

	"git.home.luguber.info/inful/lightkb/internal/logfields"
)

// startScheduler sets up the optional periodic rebuild. The job only
// kicks the coordinator's channel; the cycle itself still runs on the
// coordinator goroutine, so the single-writer guarantee holds.
func (c *Coordinator) startScheduler() (gocron.Scheduler, error) {
	if c.opts.ScheduleInterval <= 0 {
		return nil, nil
	}

	scheduler, err := gocron.NewScheduler()
	if err != nil {
		return nil, fmt.Errorf("daemon: create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(c.opts.ScheduleInterval),
		gocron.NewTask(func() {
			select {
			case c.kick <- "schedule":
			default:
				// A cycle is already pending; coalesce.
			}
		}),
		gocron.WithName("periodic-rebuild"),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return nil, fmt.Errorf("daemon: schedule periodic rebuild: %w", err)
	}

	scheduler.Start()
	slog.Info("Scheduled periodic rebuild",
		slog.Duration("interval", c.opts.ScheduleInterval),
		logfields.Trigger("schedule"))
	return scheduler, nil
}
