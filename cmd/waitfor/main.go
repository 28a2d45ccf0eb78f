package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	_ "github.com/lib/pq"
	"github.com/redis/go-redis/v9"
)

// waitfor blocks until the storage services used by the integration tests
// answer a ping. TEST_POSTGRES_DSN and TEST_REDIS_ADDR select which ones.
func main() {
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	redisAddr := os.Getenv("TEST_REDIS_ADDR")
	if dsn == "" && redisAddr == "" {
		fmt.Fprintln(os.Stderr, "TEST_POSTGRES_DSN or TEST_REDIS_ADDR is required")
		os.Exit(2)
	}

	timeout := 60 * time.Second
	if raw := os.Getenv("WAIT_FOR_TIMEOUT_SEC"); raw != "" {
		secs, err := strconv.Atoi(raw)
		if err != nil || secs <= 0 {
			fmt.Fprintf(os.Stderr, "invalid WAIT_FOR_TIMEOUT_SEC: %q\n", raw)
			os.Exit(2)
		}
		timeout = time.Duration(secs) * time.Second
	}
	deadline := time.Now().Add(timeout)

	if dsn != "" {
		db, err := sql.Open("postgres", dsn)
		if err != nil {
			fmt.Fprintf(os.Stderr, "open postgres: %v\n", err)
			os.Exit(1)
		}
		defer db.Close()
		wait("postgres", deadline, db.PingContext)
	}
	if redisAddr != "" {
		client := redis.NewClient(&redis.Options{Addr: redisAddr})
		defer client.Close()
		wait("redis", deadline, func(ctx context.Context) error {
			return client.Ping(ctx).Err()
		})
	}
}

func wait(name string, deadline time.Time, ping func(ctx context.Context) error) {
	for {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		err := ping(ctx)
		cancel()
		if err == nil {
			fmt.Printf("%s ready\n", name)
			return
		}
		if time.Now().After(deadline) {
			fmt.Fprintf(os.Stderr, "%s not ready before deadline: %v\n", name, err)
			os.Exit(1)
		}
		time.Sleep(2 * time.Second)
	}
}
