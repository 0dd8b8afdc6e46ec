package testutil

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

func requireRedis() bool { return envBool("TEST_REQUIRE_REDIS") }

// testRedisAddrs lists where a test Redis may be listening, in order of preference.
func testRedisAddrs() []string {
	if addr := os.Getenv("REDIS_ADDR"); addr != "" {
		return []string{addr}
	}
	return []string{"redis:6379", "localhost:6379", "localhost:56379"}
}

func pingRedis(addr string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, err
	}
	return client, nil
}

// reserveRedisDB picks a logical DB for this test. TEST_REDIS_DB wins;
// otherwise a DB in 1..15 is claimed with a lock key held in DB 0 so
// FlushDB on the chosen DB cannot drop the reservation.
func reserveRedisDB(t TestingTB, addr string) int {
	if v := os.Getenv("TEST_REDIS_DB"); v != "" {
		if i, err := strconv.Atoi(v); err == nil && i >= 0 {
			return i
		}
		t.Logf("ignoring invalid TEST_REDIS_DB=%q", v)
	}

	meta := redis.NewClient(&redis.Options{Addr: addr})
	defer closeAndLog(t, "redis meta client", meta)

	for i := 1; i <= 15; i++ {
		key := fmt.Sprintf("folio:testutil:db_lock:%d", i)
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		ok, err := meta.SetNX(ctx, key, strconv.Itoa(os.Getpid()), 30*time.Minute).Result()
		cancel()
		if err != nil || !ok {
			continue
		}
		if tc, isTC := any(t).(interface{ Cleanup(func()) }); isTC {
			tc.Cleanup(func() {
				c := redis.NewClient(&redis.Options{Addr: addr})
				defer closeAndLog(t, "redis cleanup client", c)
				cctx, ccancel := context.WithTimeout(context.Background(), 2*time.Second)
				defer ccancel()
				if delErr := c.Del(cctx, key).Err(); delErr != nil {
					t.Logf("warning: failed to release redis db lock %s: %v", key, delErr)
				}
			})
		}
		return i
	}
	return 1
}

// SetupTestRedis returns a client on a flushed, reserved logical DB.
// The test is skipped when Redis is unreachable unless TEST_REQUIRE_REDIS is set.
func SetupTestRedis(t TestingTB) *redis.Client {
	t.Helper()

	var lastErr error
	for _, addr := range testRedisAddrs() {
		first, err := pingRedis(addr, 0)
		if err != nil {
			lastErr = err
			continue
		}
		closeAndLog(t, "redis ping client", first)

		db := reserveRedisDB(t, addr)
		client, err := pingRedis(addr, db)
		if err != nil {
			lastErr = err
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := client.FlushDB(ctx).Err(); err != nil {
			t.Logf("warning: flush redis db %d: %v", db, err)
		}
		t.Logf("using redis db %d at %s", db, addr)
		return client
	}

	skipOrFail(t, requireRedis(), "Redis not available for testing:", lastErr)
	return nil
}
