package main

import (
	"context"
	"flag"
	"os"
	"runtime"
	"strings"
	"time"

	"github.com/okian/faceoff/internal/votesim"
)

// Default configuration constants.
const (
	defaultNumVotes    = 1000
	defaultVoters      = 25
	defaultTopN        = 10
	defaultWorkers     = 2 // multiplier for runtime.NumCPU()
	defaultBias        = 0.75
	defaultTimeout     = 30 * time.Second
	defaultTestTimeout = 10 * time.Minute
)

func main() {
	var (
		baseURL    = flag.String("url", "http://localhost:9090", "Base URL of the service")
		numVotes   = flag.Int("votes", defaultNumVotes, "Number of votes to drive through the API")
		voters     = flag.Int("voters", defaultVoters, "Number of distinct voter identities")
		topN       = flag.Int("top", defaultTopN, "Number of top entries to fetch from the leaderboard")
		workers    = flag.Int("workers", runtime.NumCPU()*defaultWorkers, "Number of concurrent workers")
		timeout    = flag.Duration("timeout", defaultTimeout, "HTTP request timeout")
		bias       = flag.Float64("bias", defaultBias, "Probability of voting for the higher-rated side")
		categories = flag.String("categories", "", "Comma-separated category filter for matchup requests")
		logFile    = flag.String("log", "", "Log file for test output (default: vote_test_TIMESTAMP.log)")
		verbose    = flag.Bool("verbose", false, "Enable verbose logging")
		help       = flag.Bool("help", false, "Show help")
	)
	flag.Parse()

	if *help {
		votesim.ShowHelp()
		return
	}

	// Setup logging
	if err := votesim.SetupLogging(*logFile); err != nil {
		os.Stderr.WriteString("Failed to setup logging: " + err.Error() + "\n")
		return
	}

	// Create context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), defaultTestTimeout)
	defer cancel()

	var categoryFilter []string
	if *categories != "" {
		categoryFilter = strings.Split(*categories, ",")
	}

	// Create test configuration
	config := &votesim.Config{
		BaseURL:    *baseURL,
		NumVotes:   *numVotes,
		Voters:     *voters,
		TopN:       *topN,
		Workers:    *workers,
		Timeout:    *timeout,
		Categories: categoryFilter,
		Bias:       *bias,
		LogFile:    *logFile,
		Verbose:    *verbose,
	}

	// Run the test
	if err := votesim.Run(ctx, config); err != nil {
		os.Stderr.WriteString("Test failed: " + err.Error() + "\n")
		return
	}
}
