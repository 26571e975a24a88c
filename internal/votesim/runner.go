package votesim

import (
	"context"
	"fmt"
	"net/http"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/okian/faceoff/internal/adapters/mq/queue"
	"github.com/okian/faceoff/internal/adapters/mq/worker"
	"github.com/okian/faceoff/pkg/logger"
)

// Runner pacing constants.
const (
	drainPollInterval = 100 * time.Millisecond
	queueSlack        = 16
)

// Run executes the complete vote load test.
func Run(ctx context.Context, config *Config) error {
	stats := &Stats{
		StartTime: time.Now(),
	}

	logger.Get().Info(ctx, "starting faceoff vote test",
		logger.String("baseURL", config.BaseURL),
		logger.Int("votes", config.NumVotes),
		logger.Int("voters", config.Voters),
		logger.Int("workers", config.Workers),
		logger.String("timeout", config.Timeout.String()),
		logger.Float64("bias", config.Bias),
		logger.Int("topN", config.TopN),
		logger.Any("verbose", config.Verbose))

	client := newHTTPClient(config.Timeout)

	// Step 1: Check service health
	if err := checkServiceHealth(ctx, client, config); err != nil {
		return fmt.Errorf("service health check failed: %w", err)
	}

	// Step 2: Snapshot the pool before voting
	before, err := fetchPlayers(ctx, client, config)
	if err != nil {
		return fmt.Errorf("baseline pool fetch failed: %w", err)
	}
	logger.Get().Info(ctx, "fetched baseline pool", logger.Int("players", len(before)))

	// Step 3: Drive votes concurrently
	if err := driveVotes(ctx, client, config, stats); err != nil {
		return fmt.Errorf("vote submission failed: %w", err)
	}

	// Step 4: Snapshot the pool after voting
	after, err := fetchPlayers(ctx, client, config)
	if err != nil {
		return fmt.Errorf("final pool fetch failed: %w", err)
	}

	// Step 5: Get leaderboard
	leaderboard, err := fetchLeaderboard(ctx, client, config, stats)
	if err != nil {
		return fmt.Errorf("leaderboard retrieval failed: %w", err)
	}

	// Step 6: Verify results
	if err := verifyResults(ctx, config, before, after, leaderboard, stats); err != nil {
		return fmt.Errorf("result verification failed: %w", err)
	}

	// Final statistics
	stats.EndTime = time.Now()
	stats.Duration = stats.EndTime.Sub(stats.StartTime)

	displayFinalStats(stats)

	logger.Get().Info(ctx, "test completed successfully")
	return nil
}

// checkServiceHealth verifies the service is running.
func checkServiceHealth(ctx context.Context, client *HTTPClient, config *Config) error {
	logger.Get().Info(ctx, "checking service health")

	resp, err := client.Get(ctx, config.BaseURL+"/healthz")
	if err != nil {
		return fmt.Errorf("failed to connect to service: %w", err)
	}
	if _, err := readResponseBody(resp); err != nil {
		return err
	}

	// Accept any 200 response as healthy (the service returns Prometheus metrics)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("service health check failed with status: %d", resp.StatusCode)
	}

	logger.Get().Info(ctx, "service is healthy")
	return nil
}

// fetchPlayers retrieves the full rated pool.
func fetchPlayers(ctx context.Context, client *HTTPClient, config *Config) ([]player, error) {
	resp, err := client.Get(ctx, config.BaseURL+"/players")
	if err != nil {
		return nil, fmt.Errorf("failed to fetch players: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = readResponseBody(resp)
		return nil, fmt.Errorf("unexpected players status: %d", resp.StatusCode)
	}

	var players []player
	if err := decodeResponse(resp, &players); err != nil {
		return nil, err
	}
	return players, nil
}

// fetchLeaderboard retrieves the all-time user leaderboard.
func fetchLeaderboard(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) ([]leaderboardEntry, error) {
	url := config.BaseURL + "/leaderboard?scope=all&limit=" + strconv.Itoa(config.TopN)
	resp, err := client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch leaderboard: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = readResponseBody(resp)
		return nil, fmt.Errorf("unexpected leaderboard status: %d", resp.StatusCode)
	}

	var entries []leaderboardEntry
	if err := decodeResponse(resp, &entries); err != nil {
		return nil, err
	}

	stats.LeaderboardEntries = len(entries)
	return entries, nil
}

// driveVotes pushes vote jobs through the queue and worker pool.
func driveVotes(ctx context.Context, client *HTTPClient, config *Config, stats *Stats) error {
	logger.Get().Info(ctx, "submitting votes",
		logger.Int("votes", config.NumVotes),
		logger.Int("workers", config.Workers))

	q := queue.NewInMemoryQueue(
		queue.WithCapacity(config.NumVotes+queueSlack),
		queue.WithBufferSize(config.NumVotes+queueSlack),
	)
	driver := NewDriver(client, config.BaseURL, config.Bias, stats)
	pool := worker.NewPool(config.Workers, q, driver)
	pool.Start(ctx)

	for i := 0; i < config.NumVotes; i++ {
		job := queue.Job{
			Username:   "voter_" + strconv.Itoa(i%config.Voters),
			Categories: config.Categories,
		}
		if !q.Enqueue(ctx, job) {
			return fmt.Errorf("failed to enqueue vote job %d", i)
		}
	}

	// Wait for the queue to drain before shutting the pool down.
	ticker := time.NewTicker(drainPollInterval)
	defer ticker.Stop()
	for q.Len(ctx) > 0 {
		select {
		case <-ctx.Done():
			return fmt.Errorf("context cancelled during vote submission: %w", ctx.Err())
		case <-ticker.C:
		}
	}

	if err := pool.Shutdown(ctx); err != nil {
		return fmt.Errorf("worker pool shutdown failed: %w", err)
	}

	logger.Get().Info(ctx, "vote submission completed",
		logger.Int("attempted", int(atomic.LoadInt64(&stats.VotesAttempted))),
		logger.Int("accepted", int(atomic.LoadInt64(&stats.VotesAccepted))),
		logger.Int("rejected", int(atomic.LoadInt64(&stats.VotesRejected))))

	return nil
}

// displayFinalStats prints the final test statistics.
func displayFinalStats(stats *Stats) {
	var successRate, votesPerSecond float64

	attempted := atomic.LoadInt64(&stats.VotesAttempted)
	accepted := atomic.LoadInt64(&stats.VotesAccepted)

	if attempted > 0 {
		successRate = float64(accepted) / float64(attempted) * 100
	}

	if stats.Duration > 0 {
		votesPerSecond = float64(attempted) / stats.Duration.Seconds()
	}

	logger.Get().Info(context.Background(), "final statistics",
		logger.Int("sessionsCreated", int(atomic.LoadInt64(&stats.SessionsCreated))),
		logger.Int("matchupsServed", int(atomic.LoadInt64(&stats.MatchupsServed))),
		logger.Int("votesAttempted", int(attempted)),
		logger.Int("votesAccepted", int(accepted)),
		logger.Int("votesRejected", int(atomic.LoadInt64(&stats.VotesRejected))),
		logger.Int("leaderboardEntries", stats.LeaderboardEntries),
		logger.String("duration", stats.Duration.String()),
		logger.Float64("successRate", successRate),
		logger.Float64("votesPerSecond", votesPerSecond))
}
