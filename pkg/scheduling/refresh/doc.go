/*
Package refresh re-runs a lazy pipeline on a cron schedule.

A Refresher rewinds its pipeline on every tick, materializes it and passes
the values to a Sink. It is the piece that turns a pull pipeline over a
live source, such as a Redis list, into a periodically published snapshot.

	r, err := refresh.New(refresh.Config{
		Name:     "open-orders",
		Schedule: "@every 30s",
		Pipeline: iterator.On(src).Filter(isOpen).Map(toSummary),
		Sink: func(ctx context.Context, values []any) error {
			return publish(ctx, values)
		},
		Logger:  logger,
		Metrics: metrics.Default(),
	})
	if err != nil {
		return err
	}
	r.Start()
	defer func() { <-r.Stop() }()

Runs are serialized. A scheduled tick that fires while the previous run is
still in progress is skipped, and RunNow blocks until the running one is
done. A run fails when the source reports an error (see iterator.Pipeline.Err),
the context ends or the sink returns an error; the previous LastResult is
kept in that case.
*/
package refresh
