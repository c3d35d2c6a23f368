package oogway

import (
	"sync"

	"github.com/disgoorg/snowflake/v2"
)

// SeriesRegistry is the process-wide index of active series, keyed by the
// channel hosting the draft. Lifecycle mutations happen at well defined
// points (create, finalize, cancel); the lock only protects the map itself,
// the contained Series stays owned by its single draft session.
type SeriesRegistry struct {
	mu     sync.RWMutex
	series map[snowflake.ID]*Series
}

// NewSeriesRegistry returns an empty registry.
func NewSeriesRegistry() *SeriesRegistry {
	return &SeriesRegistry{
		series: make(map[snowflake.ID]*Series),
	}
}

// Create registers a series under its channel id. At most one series can be
// active per channel.
func (r *SeriesRegistry) Create(s *Series) error {
	if err := s.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.series[s.ChannelID]; ok {
		return Errorf(ECONFLICT, "A draft is already running in this channel.")
	}
	r.series[s.ChannelID] = s
	return nil
}

// Find returns the series hosted by the given channel.
func (r *SeriesRegistry) Find(channelID snowflake.ID) (*Series, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.series[channelID]
	if !ok {
		return nil, Errorf(ENOTFOUND, "No active series in this channel.")
	}
	return s, nil
}

// Contains reports whether a series is still active for the channel. Draft
// sessions consult this before applying effects, so input arriving after a
// cancellation is dropped.
func (r *SeriesRegistry) Contains(channelID snowflake.ID) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.series[channelID]
	return ok
}

// Remove drops the series hosted by the given channel. Removing an unknown
// channel is a no-op.
func (r *SeriesRegistry) Remove(channelID snowflake.ID) {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.series, channelID)
}

// Len returns the number of active series.
func (r *SeriesRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return len(r.series)
}
