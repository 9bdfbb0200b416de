package metrics

import (
	"sort"
	"sync"
	"sync/atomic"
	"time"
)

// Metrics tracks state propagation statistics
type Metrics struct {
	writes           atomic.Int64
	suppressed       atomic.Int64
	persistFailures  atomic.Int64
	callbackFailures atomic.Int64
	dropped          atomic.Int64
	notifications    atomic.Int64

	// Per-topic stats
	mu         sync.RWMutex
	topicStats map[string]*TopicStats
	startTime  time.Time
}

// TopicStats tracks statistics for a specific topic
type TopicStats struct {
	Topic            string    `json:"topic"`
	Writes           int64     `json:"writes"`
	Suppressed       int64     `json:"suppressed"`
	PersistFailures  int64     `json:"persist_failures"`
	CallbackFailures int64     `json:"callback_failures"`
	Dropped          int64     `json:"dropped"`
	Notifications    int64     `json:"notifications"`
	FirstWriteAt     time.Time `json:"first_write_at"`
	LastWriteAt      time.Time `json:"last_write_at"`
}

// NewMetrics creates a new metrics tracker
func NewMetrics() *Metrics {
	return &Metrics{
		topicStats: make(map[string]*TopicStats),
		startTime:  time.Now(),
	}
}

// RecordWrite records a persisted state change
func (m *Metrics) RecordWrite(topic string) {
	m.writes.Add(1)
	now := time.Now()
	m.update(topic, func(s *TopicStats) {
		s.Writes++
		if s.FirstWriteAt.IsZero() {
			s.FirstWriteAt = now
		}
		s.LastWriteAt = now
	})
}

// RecordSuppressed records a redundant write dropped by the guard window
func (m *Metrics) RecordSuppressed(topic string) {
	m.suppressed.Add(1)
	m.update(topic, func(s *TopicStats) { s.Suppressed++ })
}

// RecordPersistFailure records a write the storage rejected
func (m *Metrics) RecordPersistFailure(topic string) {
	m.persistFailures.Add(1)
	m.update(topic, func(s *TopicStats) { s.PersistFailures++ })
}

// RecordCallbackFailure records a subscriber that failed or panicked
func (m *Metrics) RecordCallbackFailure(topic string) {
	m.callbackFailures.Add(1)
	m.update(topic, func(s *TopicStats) { s.CallbackFailures++ })
}

// RecordDropped records a nested write over the depth limit
func (m *Metrics) RecordDropped(topic string) {
	m.dropped.Add(1)
	m.update(topic, func(s *TopicStats) { s.Dropped++ })
}

// RecordNotified records how many subscribers a change reached
func (m *Metrics) RecordNotified(topic string, subscribers int) {
	m.notifications.Add(int64(subscribers))
	m.update(topic, func(s *TopicStats) { s.Notifications += int64(subscribers) })
}

func (m *Metrics) update(topic string, fn func(*TopicStats)) {
	m.mu.Lock()
	defer m.mu.Unlock()

	stats, exists := m.topicStats[topic]
	if !exists {
		stats = &TopicStats{Topic: topic}
		m.topicStats[topic] = stats
	}
	fn(stats)
}

// Topic returns a copy of the stats of one topic
func (m *Metrics) Topic(topic string) (TopicStats, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	stats, ok := m.topicStats[topic]
	if !ok {
		return TopicStats{}, false
	}
	return *stats, true
}

// GetSnapshot returns a snapshot of current metrics
func (m *Metrics) GetSnapshot() *Snapshot {
	m.mu.RLock()
	topTopics := make([]*TopicStats, 0, len(m.topicStats))
	for _, stats := range m.topicStats {
		copied := *stats
		topTopics = append(topTopics, &copied)
	}
	m.mu.RUnlock()

	// Sort by writes (top 10)
	sort.Slice(topTopics, func(i, j int) bool {
		if topTopics[i].Writes != topTopics[j].Writes {
			return topTopics[i].Writes > topTopics[j].Writes
		}
		return topTopics[i].Topic < topTopics[j].Topic
	})
	uniqueTopics := int64(len(topTopics))
	if len(topTopics) > 10 {
		topTopics = topTopics[:10]
	}

	return &Snapshot{
		Writes:           m.writes.Load(),
		Suppressed:       m.suppressed.Load(),
		PersistFailures:  m.persistFailures.Load(),
		CallbackFailures: m.callbackFailures.Load(),
		Dropped:          m.dropped.Load(),
		Notifications:    m.notifications.Load(),
		UniqueTopics:     uniqueTopics,
		TopTopics:        topTopics,
		UptimeSeconds:    int64(time.Since(m.startTime).Seconds()),
		StartTime:        m.startTime,
	}
}

// Snapshot represents a point-in-time view of metrics
type Snapshot struct {
	Writes           int64         `json:"writes"`
	Suppressed       int64         `json:"suppressed"`
	PersistFailures  int64         `json:"persist_failures"`
	CallbackFailures int64         `json:"callback_failures"`
	Dropped          int64         `json:"dropped"`
	Notifications    int64         `json:"notifications"`
	UniqueTopics     int64         `json:"unique_topics"`
	TopTopics        []*TopicStats `json:"top_topics"`
	UptimeSeconds    int64         `json:"uptime_seconds"`
	StartTime        time.Time     `json:"start_time"`
}
