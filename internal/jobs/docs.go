// Package jobs is the background job runtime of the blog platform.
//
// # Components
//
// 1. Catalog - maps a job name to its handler and retry policy
// 2. Scheduler - in-process delay scheduler with a bounded worker pool
// 3. JobManager - cron triggers (github.com/robfig/cron/v3) for recurring jobs
//
// # Usage
//
//	catalog, err := jobs.NewJobCatalog(handlers, logger)
//	scheduler, err := jobs.NewScheduler(catalog, 4, logger, jobs.WithDeadLetter(deadLetter))
//	manager := jobs.NewJobManager(scheduler, []jobs.RecurringJob{
//		{Name: job.CheckLinks, Spec: "0 0 4 * * *"},
//	}, logger)
//
//	if err := manager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer manager.StopAll(ctx)
//
//	// one-off and delayed jobs
//	scheduler.Enqueue(ctx, job.RecordPostVisit, cmd)
//	scheduler.ScheduleAt(ctx, job.PublishPost, cmd, publishAt)
//
// # Scheduling
//
// Cron specs use six fields, seconds first. A recurring job runs in the cron
// goroutine and is skipped while its previous run is still busy. One-off
// jobs wait on a timer until RunAt; a RunAt in the past runs immediately.
//
// # Error Handling
//
// - A failed attempt is retried after RetryDelay while the policy allows it
// - Invalid payloads and arguments are never retried
// - Panics are recovered and count as a failed attempt
// - Exhausted jobs go to the dead letter hook
package jobs
