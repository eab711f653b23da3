/*
Package scheduling groups the components that run lazy pipelines in the
background.

  - refresh: re-runs a pipeline on a cron schedule and hands every result
    to a sink

Refresher:

	r, err := refresh.New(refresh.Config{
		Name:     "hot-sensors",
		Schedule: "@every 30s",
		Pipeline: pipeline,
		Sink:     publish,
	})
	if err != nil {
		return err
	}
	r.Start()
	defer func() { <-r.Stop() }()

Pipelines are not safe for concurrent use, so a Refresher serializes its
runs: overlapping ticks are skipped and RunNow waits for the running one.
*/
package scheduling
