// Package presence rotates the bot's "Watching ..." status through a
// configured list on a fixed interval.
package presence

import (
	"sync"
	"time"

	"github.com/bwmarrin/discordgo"
	"go.uber.org/zap"
)

// Updater is the slice of discordgo.Session the rotator needs.
type Updater interface {
	UpdateStatusComplex(data discordgo.UpdateStatusData) error
}

type Rotator struct {
	mu       sync.Mutex
	statuses []string
	interval time.Duration
	updater  Updater
	logger   *zap.Logger
	index    int
	stop     chan struct{}
}

func New(statuses []string, interval time.Duration, updater Updater, logger *zap.Logger) *Rotator {
	if interval <= 0 {
		interval = time.Minute
	}
	return &Rotator{
		statuses: statuses,
		interval: interval,
		updater:  updater,
		logger:   logger,
	}
}

// Start sets the first status immediately and rotates on the interval
// until Stop is called. A rotator with no statuses is a no-op.
func (r *Rotator) Start() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if len(r.statuses) == 0 || r.stop != nil {
		return
	}

	r.stop = make(chan struct{})
	r.apply(r.statuses[r.index])

	go r.loop(r.stop)
}

func (r *Rotator) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stop != nil {
		close(r.stop)
		r.stop = nil
	}
}

func (r *Rotator) loop(stop <-chan struct{}) {
	ticker := time.NewTicker(r.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			r.mu.Lock()
			status := r.advance()
			r.apply(status)
			r.mu.Unlock()
		case <-stop:
			return
		}
	}
}

// advance steps to the next status and returns it. Callers hold r.mu.
func (r *Rotator) advance() string {
	r.index = (r.index + 1) % len(r.statuses)
	return r.statuses[r.index]
}

func (r *Rotator) apply(status string) {
	err := r.updater.UpdateStatusComplex(discordgo.UpdateStatusData{
		Activities: []*discordgo.Activity{
			{Name: status, Type: discordgo.ActivityTypeWatching},
		},
	})
	if err != nil {
		r.logger.Warn("presence update failed", zap.Error(err))
	}
}
