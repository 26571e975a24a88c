package votesim

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"github.com/okian/faceoff/pkg/logger"
)

// File permission constants.
const (
	logFilePermission = 0600
)

// SetupLogging configures logging to both console and file.
// If logFile is empty, a timestamped filename is generated.
func SetupLogging(logFile string) error {
	// Initialize the logger first
	if err := logger.Init(); err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}

	if logFile == "" {
		timestamp := time.Now().Format("20060102_150405")
		logFile = "vote_test_" + timestamp + ".log"
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, logFilePermission)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	multiWriter := io.MultiWriter(os.Stdout, file)
	log.SetOutput(multiWriter)
	log.SetFlags(log.LstdFlags | log.Lmicroseconds)
	logger.Get().Info(context.Background(), "logging to file", logger.String("logFile", logFile))
	return nil
}

// ShowHelp prints usage information for the vote load test tool.
func ShowHelp() {
	os.Stdout.WriteString(`Faceoff Vote Load Test Tool
===========================

A concurrent tool for exercising the faceoff rating service end to end:
sessions, matchups, votes, and leaderboard reads.

Usage:
  go run cmd/loadtest/main.go [options]

Options:
  -url string
        Base URL of the service (default "http://localhost:9090")
  -votes int
        Number of votes to drive through the API (default 1000)
  -voters int
        Number of distinct voter identities (default 25)
  -top int
        Number of top entries to fetch from the leaderboard (default 10)
  -workers int
        Number of concurrent workers (default CPU cores * 2)
  -timeout duration
        HTTP request timeout (default 30s)
  -bias float
        Probability of voting for the higher-rated side (default 0.75)
  -categories string
        Comma-separated category filter for matchup requests
  -log string
        Log file for test output (default: vote_test_TIMESTAMP.log)
  -verbose
        Enable verbose logging
  -help
        Show this help message

Examples:
  # Test with default settings
  go run cmd/loadtest/main.go

  # Test with custom parameters
  go run cmd/loadtest/main.go -votes 5000 -workers 16 -url http://localhost:8080

  # Favor underdog voting with a category filter
  go run cmd/loadtest/main.go -bias 0.25 -categories mid,top
`)
}
