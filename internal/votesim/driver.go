package votesim

import (
	"context"
	crand "crypto/rand"
	"fmt"
	"math/big"
	"net/http"
	"sync"
	"sync/atomic"

	"github.com/okian/faceoff/internal/adapters/mq/queue"
)

// randomFloatDivisor scales crypto/rand integers into [0, 1).
const randomFloatDivisor = 1000000

// getRandomFloat returns a random float64 between 0.0 and 1.0 using crypto/rand.
func getRandomFloat() float64 {
	n, _ := crand.Int(crand.Reader, big.NewInt(randomFloatDivisor))
	return float64(n.Int64()) / float64(randomFloatDivisor)
}

// Driver executes vote jobs against a running service. It keeps one
// session per voter identity and implements the worker Caster contract.
type Driver struct {
	client  *HTTPClient
	baseURL string
	bias    float64
	stats   *Stats

	mu       sync.Mutex
	sessions map[string]string // username -> session id
}

// NewDriver creates a driver bound to the target service.
func NewDriver(client *HTTPClient, baseURL string, bias float64, stats *Stats) *Driver {
	return &Driver{
		client:   client,
		baseURL:  baseURL,
		bias:     bias,
		stats:    stats,
		sessions: make(map[string]string),
	}
}

// Cast drives one full vote: session, matchup, vote, next.
func (d *Driver) Cast(ctx context.Context, job queue.Job) error {
	atomic.AddInt64(&d.stats.VotesAttempted, 1)

	sessionID, err := d.session(ctx, job.Username)
	if err != nil {
		atomic.AddInt64(&d.stats.VotesRejected, 1)
		return err
	}

	view, err := d.matchup(ctx, sessionID, job.Categories)
	if err != nil {
		atomic.AddInt64(&d.stats.VotesRejected, 1)
		return err
	}
	atomic.AddInt64(&d.stats.MatchupsServed, 1)

	chosen := d.choose(view)
	if err := d.vote(ctx, sessionID, job.Username, chosen); err != nil {
		atomic.AddInt64(&d.stats.VotesRejected, 1)
		return err
	}
	atomic.AddInt64(&d.stats.VotesAccepted, 1)

	// Advance so the next job on this session gets a fresh pair.
	return d.next(ctx, sessionID, job.Categories)
}

// session returns the voter's session id, creating one on first use.
func (d *Driver) session(ctx context.Context, username string) (string, error) {
	d.mu.Lock()
	if id, ok := d.sessions[username]; ok {
		d.mu.Unlock()
		return id, nil
	}
	d.mu.Unlock()

	resp, err := d.client.Post(ctx, d.baseURL+"/session", struct{}{})
	if err != nil {
		return "", fmt.Errorf("failed to create session: %w", err)
	}
	if resp.StatusCode != http.StatusCreated {
		_, _ = readResponseBody(resp)
		return "", fmt.Errorf("unexpected session status: %d", resp.StatusCode)
	}

	var created sessionResponse
	if err := decodeResponse(resp, &created); err != nil {
		return "", err
	}

	d.mu.Lock()
	// Another worker may have raced us; keep the first session.
	if id, ok := d.sessions[username]; ok {
		d.mu.Unlock()
		return id, nil
	}
	d.sessions[username] = created.SessionID
	d.mu.Unlock()

	atomic.AddInt64(&d.stats.SessionsCreated, 1)
	return created.SessionID, nil
}

func (d *Driver) matchup(ctx context.Context, sessionID string, categories []string) (matchupView, error) {
	req := map[string]interface{}{"session_id": sessionID}
	if len(categories) > 0 {
		req["categories"] = categories
	}

	resp, err := d.client.Post(ctx, d.baseURL+"/matchup", req)
	if err != nil {
		return matchupView{}, fmt.Errorf("failed to request matchup: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_, _ = readResponseBody(resp)
		return matchupView{}, fmt.Errorf("unexpected matchup status: %d", resp.StatusCode)
	}

	var view matchupView
	if err := decodeResponse(resp, &view); err != nil {
		return matchupView{}, err
	}
	return view, nil
}

// choose picks the higher-rated side with probability bias.
func (d *Driver) choose(view matchupView) string {
	higher, lower := view.First.ID, view.Second.ID
	if view.Second.Rating > view.First.Rating {
		higher, lower = lower, higher
	}
	if getRandomFloat() < d.bias {
		return higher
	}
	return lower
}

func (d *Driver) vote(ctx context.Context, sessionID, username, chosenID string) error {
	req := map[string]string{
		"session_id": sessionID,
		"username":   username,
		"chosen_id":  chosenID,
	}

	resp, err := d.client.Post(ctx, d.baseURL+"/vote", req)
	if err != nil {
		return fmt.Errorf("failed to cast vote: %w", err)
	}
	body, err := readResponseBody(resp)
	if err != nil {
		return err
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected vote status %d: %s", resp.StatusCode, string(body))
	}
	return nil
}

func (d *Driver) next(ctx context.Context, sessionID string, categories []string) error {
	req := map[string]interface{}{"session_id": sessionID}
	if len(categories) > 0 {
		req["categories"] = categories
	}

	resp, err := d.client.Post(ctx, d.baseURL+"/next", req)
	if err != nil {
		return fmt.Errorf("failed to advance session: %w", err)
	}
	_, _ = readResponseBody(resp)
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected next status: %d", resp.StatusCode)
	}
	return nil
}
