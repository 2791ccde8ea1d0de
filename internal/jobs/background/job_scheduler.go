package background

import (
	"context"
	"log"
	"sync"
	"time"

	"clubops/internal/caching"
	"clubops/internal/jobs"

	"github.com/go-co-op/gocron/v2"
)

// JobScheduler manages the background jobs of the back office
type JobScheduler struct {
	scheduler gocron.Scheduler
	alertSvc  *jobs.ExpiryAlertService
	cacheSvc  caching.CacheService
	jobJobs   map[string]gocron.Job
	mu        sync.RWMutex
}

// NewJobScheduler creates a new job scheduler
func NewJobScheduler(alertSvc *jobs.ExpiryAlertService, cacheSvc caching.CacheService) *JobScheduler {
	scheduler, err := gocron.NewScheduler()
	if err != nil {
		log.Fatalf("Failed to create scheduler: %v", err)
	}

	js := &JobScheduler{
		scheduler: scheduler,
		alertSvc:  alertSvc,
		cacheSvc:  cacheSvc,
		jobJobs:   make(map[string]gocron.Job),
	}

	js.registerJobs()

	return js
}

// Start starts the job scheduler
func (js *JobScheduler) Start() error {
	log.Printf("Starting background job scheduler")
	js.scheduler.Start()
	return nil
}

// Stop stops the job scheduler
func (js *JobScheduler) Stop() error {
	log.Printf("Stopping background job scheduler")
	return js.scheduler.Shutdown()
}

// registerJobs registers all background jobs
func (js *JobScheduler) registerJobs() {
	// Nightly subscription sweep: dashboard status counts + expiry alerts
	sweepJob, err := js.scheduler.NewJob(
		gocron.DailyJob(1, gocron.NewAtTimes(gocron.NewAtTime(2, 0, 0))),
		gocron.NewTask(js.runSubscriptionSweep, context.Background()),
		gocron.WithName("subscription-sweep"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create subscription sweep job: %v", err)
	} else {
		js.jobJobs["subscription-sweep"] = sweepJob
	}

	// Hourly refresh so the dashboard counts stay reasonably fresh
	countsJob, err := js.scheduler.NewJob(
		gocron.DurationJob(1*time.Hour),
		gocron.NewTask(js.refreshStatusCounts, context.Background()),
		gocron.WithName("status-counts-refresh"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		log.Printf("Failed to create status counts job: %v", err)
	} else {
		js.jobJobs["status-counts-refresh"] = countsJob
	}

	log.Printf("Registered %d background jobs", len(js.jobJobs))
}

// runSubscriptionSweep resolves every subscription's status, caches the
// dashboard counts, and logs the subscriptions expiring soon
func (js *JobScheduler) runSubscriptionSweep(ctx context.Context) error {
	log.Printf("Starting subscription sweep")

	counts, alerts, err := js.alertSvc.Sweep(ctx)
	if err != nil {
		log.Printf("Subscription sweep failed: %v", err)
		return err
	}

	if err := js.cacheSvc.SetStatusCounts(ctx, counts, 24*time.Hour); err != nil {
		log.Printf("Failed to cache status counts: %v", err)
	}
	js.alertSvc.LogExpiryAlerts(alerts)

	log.Printf("Completed subscription sweep: %v", counts)
	return nil
}

// refreshStatusCounts recomputes the cached dashboard counts
func (js *JobScheduler) refreshStatusCounts(ctx context.Context) error {
	counts, _, err := js.alertSvc.Sweep(ctx)
	if err != nil {
		log.Printf("Status counts refresh failed: %v", err)
		return err
	}

	if err := js.cacheSvc.SetStatusCounts(ctx, counts, 24*time.Hour); err != nil {
		log.Printf("Failed to cache status counts: %v", err)
		return err
	}
	return nil
}

// AddJob adds a custom job to the scheduler
func (js *JobScheduler) AddJob(name string, interval time.Duration, taskFn interface{}, params ...interface{}) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	job, err := js.scheduler.NewJob(
		gocron.DurationJob(interval),
		gocron.NewTask(taskFn, params...),
		gocron.WithName(name),
	)

	if err != nil {
		return err
	}

	js.jobJobs[name] = job
	log.Printf("Added custom job: %s", name)
	return nil
}

// RemoveJob removes a job from the scheduler
func (js *JobScheduler) RemoveJob(name string) error {
	js.mu.Lock()
	defer js.mu.Unlock()

	if job, exists := js.jobJobs[name]; exists {
		err := js.scheduler.RemoveJob(job.ID())
		delete(js.jobJobs, name)
		return err
	}

	return nil
}

// GetJobStatus returns information about scheduled jobs
func (js *JobScheduler) GetJobStatus() map[string]interface{} {
	js.mu.RLock()
	defer js.mu.RUnlock()

	status := make(map[string]interface{})
	status["total_jobs"] = len(js.jobJobs)
	jobs := make([]string, 0, len(js.jobJobs))

	for name := range js.jobJobs {
		jobs = append(jobs, name)
	}

	status["jobs"] = jobs

	return status
}
