package dashboard

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
)

const (
	statsKey        = "dashboard:stats"
	defaultCacheTTL = 5 * time.Minute
)

// Stats are the aggregate counters shown on the front end's dashboard.
type Stats struct {
	TotalProjects   int `json:"totalProjects"`
	TotalTasks      int `json:"totalTasks"`
	PendingTasks    int `json:"pendingTasks"`
	InProgressTasks int `json:"inProgressTasks"`
	CompletedTasks  int `json:"completedTasks"`
}

// Source computes fresh stats from the primary store.
type Source interface {
	Stats(ctx context.Context) (Stats, error)
}

// Repo computes the aggregates in a single pass over the tasks table.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Stats(ctx context.Context) (Stats, error) {
	const q = `
select
  (select count(*) from projects),
  count(*),
  count(*) filter (where status = 0),
  count(*) filter (where status = 1),
  count(*) filter (where status = 2)
from tasks;
`
	var s Stats
	err := r.db.QueryRow(ctx, q).Scan(
		&s.TotalProjects, &s.TotalTasks,
		&s.PendingTasks, &s.InProgressTasks, &s.CompletedTasks,
	)
	if err != nil {
		return Stats{}, fmt.Errorf("query stats: %w", err)
	}
	return s, nil
}

// Service serves stats cache-aside: reads hit Redis first and fall through to
// the source on a miss. With a nil client every read computes directly.
type Service struct {
	source Source
	client *redis.Client
	ttl    time.Duration
}

func NewService(source Source, client *redis.Client, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = defaultCacheTTL
	}
	return &Service{source: source, client: client, ttl: ttl}
}

func (s *Service) Get(ctx context.Context) (Stats, error) {
	if s.client == nil {
		return s.source.Stats(ctx)
	}

	data, err := s.client.Get(ctx, statsKey).Result()
	if err == nil {
		var stats Stats
		if err := json.Unmarshal([]byte(data), &stats); err == nil {
			return stats, nil
		}
		// poisoned cache entry falls through to a recompute
	} else if err != redis.Nil {
		return Stats{}, fmt.Errorf("get cached stats: %w", err)
	}

	return s.Refresh(ctx)
}

// Refresh recomputes the stats and rewrites the cache entry.
func (s *Service) Refresh(ctx context.Context) (Stats, error) {
	stats, err := s.source.Stats(ctx)
	if err != nil {
		return Stats{}, err
	}

	if s.client != nil {
		data, err := json.Marshal(stats)
		if err != nil {
			return Stats{}, fmt.Errorf("marshal stats: %w", err)
		}
		if err := s.client.Set(ctx, statsKey, data, s.ttl).Err(); err != nil {
			return Stats{}, fmt.Errorf("cache stats: %w", err)
		}
	}

	return stats, nil
}
