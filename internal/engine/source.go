package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"solana-sandwich-engine/internal/domain"
	"solana-sandwich-engine/internal/solana"
)

// EventSource feeds candidate events into the engine.
type EventSource interface {
	// Events opens the stream. The returned channel closes when the
	// context is cancelled.
	Events(ctx context.Context) (<-chan domain.CandidateEvent, error)
}

// WSSource adapts a Solana log subscription into an event source. One
// subscription is opened per monitored program and the notifications are
// fanned into a single channel.
type WSSource struct {
	ws       solana.WSClient
	programs []string
}

// NewWSSource creates a source subscribed to the given program IDs.
func NewWSSource(ws solana.WSClient, programs []string) *WSSource {
	return &WSSource{ws: ws, programs: programs}
}

// Events implements EventSource.
func (s *WSSource) Events(ctx context.Context) (<-chan domain.CandidateEvent, error) {
	if len(s.programs) == 0 {
		return nil, fmt.Errorf("no programs to monitor")
	}

	out := make(chan domain.CandidateEvent, 1000)
	var wg sync.WaitGroup

	for _, program := range s.programs {
		notifications, err := s.ws.SubscribeLogs(ctx, solana.LogsFilter{Mentions: []string{program}})
		if err != nil {
			return nil, fmt.Errorf("subscribe logs for %s: %w", program, err)
		}

		wg.Add(1)
		go func() {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case n, ok := <-notifications:
					if !ok {
						return
					}
					if n.Err != nil {
						// The transaction already failed; nothing to race.
						continue
					}
					if solana.ValidateSignature(n.Signature) != nil {
						// Not a transaction signature; nothing to execute
						// against or deduplicate on.
						continue
					}
					ev := domain.CandidateEvent{
						Signature:  n.Signature,
						Slot:       n.Slot,
						Logs:       n.Logs,
						ObservedAt: time.Now().UnixMilli(),
					}
					select {
					case out <- ev:
					case <-ctx.Done():
						return
					}
				}
			}
		}()
	}

	go func() {
		wg.Wait()
		close(out)
	}()

	return out, nil
}
