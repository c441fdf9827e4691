package dashboard

import (
	"context"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// Warmer refreshes the cached stats on a schedule so the dashboard rarely
// pays the aggregation query on the request path.
type Warmer struct {
	c *cron.Cron
}

func NewWarmer(svc *Service, schedule string) (*Warmer, error) {
	c := cron.New()

	_, err := c.AddFunc(schedule, func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if _, err := svc.Refresh(ctx); err != nil {
			log.Printf("[dashboard] cache refresh failed: %v", err)
		}
	})
	if err != nil {
		return nil, err
	}

	return &Warmer{c: c}, nil
}

func (w *Warmer) Start() {
	log.Println("[dashboard] cache warmer started")
	w.c.Start()
}

func (w *Warmer) Stop() {
	<-w.c.Stop().Done()
}
