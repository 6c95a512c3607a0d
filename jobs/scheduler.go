// Package jobs runs background maintenance on a cron schedule.
package jobs

import (
	"context"
	"fmt"

	"github.com/robfig/cron/v3"
	log "github.com/sirupsen/logrus"
)

// RoomNameTopUp refills the room-name cache when it runs low
type RoomNameTopUp interface {
	TopUp(ctx context.Context) error
}

// Scheduler runs background jobs
type Scheduler struct {
	cron       *cron.Cron
	roomNames  RoomNameTopUp
	refillSpec string
}

// NewScheduler creates a scheduler that tops up room names on refillSpec
func NewScheduler(roomNames RoomNameTopUp, refillSpec string) *Scheduler {
	return &Scheduler{
		cron:       cron.New(),
		roomNames:  roomNames,
		refillSpec: refillSpec,
	}
}

// Start registers the jobs and starts the cron runner
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.refillSpec, func() { s.topUpRoomNames(ctx) }); err != nil {
		return fmt.Errorf("invalid room name refill schedule %q: %w", s.refillSpec, err)
	}

	s.cron.Start()
	log.WithField("refillSpec", s.refillSpec).Info("Job scheduler started")
	return nil
}

// Stop waits for running jobs to finish
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
	log.Info("Job scheduler stopped")
}

func (s *Scheduler) topUpRoomNames(ctx context.Context) {
	log.Debug("[CRON] Room name top-up")
	if err := s.roomNames.TopUp(ctx); err != nil {
		log.WithError(err).Error("[CRON] Room name top-up failed")
	}
}
