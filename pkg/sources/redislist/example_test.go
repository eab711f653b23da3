package redislist_test

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/redis/go-redis/v9"

	"github.com/vnykmshr/lazyflow/pkg/lazy/applicator"
	"github.com/vnykmshr/lazyflow/pkg/lazy/iterator"
	"github.com/vnykmshr/lazyflow/pkg/sources/redislist"
)

// Example_filterLog reads a log list from Redis and keeps the error lines.
func Example_filterLog() {
	rdb := redis.NewClient(&redis.Options{
		Addr: "localhost:6379",
		DB:   1, // Use a test database
	})
	defer func() { _ = rdb.Close() }()

	ctx := context.Background()
	if err := rdb.Ping(ctx).Err(); err != nil {
		fmt.Println("Redis not available, skipping example")
		return
	}

	key := "lazyflow:example:log"
	rdb.Del(ctx, key)
	rdb.RPush(ctx, key, "INFO start", "ERROR disk full", "INFO retry", "ERROR disk still full")
	defer rdb.Del(ctx, key)

	src, err := redislist.New(ctx, redislist.Config{Client: rdb, Key: key, PageSize: 2})
	if err != nil {
		log.Fatalf("Failed to create source: %v", err)
	}

	p := iterator.On(src).
		Filter(applicator.Pred(func(line string) bool { return strings.HasPrefix(line, "ERROR") })).
		Map(applicator.Fn(func(line string) string { return strings.TrimPrefix(line, "ERROR ") }))

	for idx, msg := range p.All() {
		fmt.Printf("line %v: %v\n", idx, msg)
	}
	if err := src.Err(); err != nil {
		log.Fatalf("Read failed: %v", err)
	}
}
