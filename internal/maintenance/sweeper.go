package maintenance

import (
	"github.com/quillhq/quill-be/internal/services"
	"github.com/quillhq/quill-be/internal/session"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

// Events older than this are pruned from the activity log.
const eventRetentionDays = 90

// Sweeper periodically removes expired sessions and prunes old events.
type Sweeper struct {
	sessions *session.Manager
	events   services.EventServiceProvider
	schedule string
	cron     *cron.Cron
}

// NewSweeper creates a new Sweeper. schedule is a cron spec such as
// "@every 15m".
func NewSweeper(sessions *session.Manager, events services.EventServiceProvider, schedule string) *Sweeper {
	return &Sweeper{
		sessions: sessions,
		events:   events,
		schedule: schedule,
		cron:     cron.New(),
	}
}

// Run starts the sweeper's schedule and performs one sweep immediately.
func (s *Sweeper) Run() {
	log.Info().Str("schedule", s.schedule).Msg("Starting maintenance sweeper")

	s.sweep()

	if _, err := s.cron.AddFunc(s.schedule, s.sweep); err != nil {
		log.Error().Err(err).Str("schedule", s.schedule).Msg("Invalid sweeper schedule, sweeper disabled")
		return
	}
	s.cron.Start()
}

// Stop halts the sweeper.
func (s *Sweeper) Stop() {
	log.Info().Msg("Stopping maintenance sweeper")
	s.cron.Stop()
}

func (s *Sweeper) sweep() {
	removed, err := s.sessions.SweepExpired()
	if err != nil {
		log.Error().Err(err).Msg("Sweeper: failed to remove expired sessions")
	} else if removed > 0 {
		log.Info().Int64("removed", removed).Msg("Sweeper: removed expired sessions")
	}

	pruned, err := s.events.PruneEventsOlderThan(eventRetentionDays)
	if err != nil {
		log.Error().Err(err).Msg("Sweeper: failed to prune old events")
	} else if pruned > 0 {
		log.Info().Int64("pruned", pruned).Msg("Sweeper: pruned old events")
	}
}
