/*
Package redislist provides an iterator.Source over a Redis list.

Elements are fetched with LRANGE one page at a time as the pipeline pulls
them, so large lists are never loaded at once:

	rdb := redis.NewClient(&redis.Options{Addr: "localhost:6379"})

	src, err := redislist.New(ctx, redislist.Config{
		Client:   rdb,
		Key:      "events",
		PageSize: 500,
	})
	if err != nil {
		return err
	}

	p := iterator.On(src).Filter(isError).Map(parse)
	for _, event := range p.All() {
		...
	}
	if err := src.Err(); err != nil {
		return err
	}

Keys are list indexes and items are strings. A Redis error while paging ends
the sequence; check Err once the pipeline is exhausted. Rewind clears the
error and starts again from the head of the list.
*/
package redislist
