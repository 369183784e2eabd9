// Package jobs implements background work for the wellness API.
//
// DailyResetJob ends each day: users who completed nothing lose their streak
// and everyone's is_success flag is cleared. It first fires at the next local
// midnight, then on a fixed interval.
//
//	job := jobs.NewDailyResetJob(progressService, jobs.DailyResetConfig{
//		Interval: cfg.Jobs.DailyResetInterval,
//	})
//	job.Start()
//	defer job.Stop()
//
// Failed runs are logged and retried on the next tick.
package jobs
