package scraper

import (
	"context"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/config"
	"github.com/project-cy033-cyber/Web-cyber-incident-monitor/core/utils"
)

// Worker runs the scraper on a cron schedule and logs what it finds. It stays
// fully decoupled from the incident flow.
type Worker struct {
	cfg     config.ScraperConfig
	scraper *Scraper
	logger  *utils.Logger
	cron    *cron.Cron
}

func NewWorker(cfg config.ScraperConfig, logger *utils.Logger) *Worker {
	return &Worker{
		cfg:     cfg,
		scraper: New(time.Duration(cfg.TimeoutSec) * time.Second),
		logger:  logger,
		cron:    cron.New(),
	}
}

// Start is a no-op unless a scrape URL is configured.
func (w *Worker) Start() error {
	if strings.TrimSpace(w.cfg.URL) == "" {
		return nil
	}
	schedule := w.cfg.Schedule
	if strings.TrimSpace(schedule) == "" {
		schedule = "@hourly"
	}
	if _, err := w.cron.AddFunc(schedule, w.run); err != nil {
		return err
	}
	w.cron.Start()
	w.logger.Printf("SCRAPER scheduled url=%s selector=%q schedule=%s", w.cfg.URL, w.cfg.Selector, schedule)
	return nil
}

func (w *Worker) Stop() {
	ctx := w.cron.Stop()
	<-ctx.Done()
}

func (w *Worker) run() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(w.cfg.TimeoutSec+5)*time.Second)
	defer cancel()
	headlines, err := w.scraper.Headlines(ctx, w.cfg.URL, w.cfg.Selector)
	if err != nil {
		w.logger.Errorf("SCRAPER run failed: %v", err)
		return
	}
	w.logger.Printf("SCRAPER found %d headlines from %s", len(headlines), w.cfg.URL)
	for _, h := range headlines {
		w.logger.Infof("SCRAPER headline: %s", h)
	}
}
