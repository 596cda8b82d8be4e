package catalog

import (
	"context"
	"fmt"

	"github.com/globalcontainerexchange/gce-api/internal/obs"
)

// Watch subscribes to catalog broadcasts and reloads whenever another
// replica announces a version this store is not serving. It blocks until ctx
// is cancelled.
func (s *Store) Watch(ctx context.Context) error {
	if s.redis == nil {
		return ErrNoBroadcast
	}
	sub := s.redis.Subscribe(ctx, s.channel)
	defer sub.Close()
	if _, err := sub.Receive(ctx); err != nil {
		return fmt.Errorf("catalog: subscribe %s: %w", s.channel, err)
	}
	s.logger.Info().Str("channel", s.channel).Msg("catalog watch started")

	ch := sub.Channel()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case msg, ok := <-ch:
			if !ok {
				return nil
			}
			if cur := s.Current(); cur != nil && cur.Version == msg.Payload {
				continue
			}
			if _, err := s.reload(ctx, TriggerBroadcast, false); err != nil {
				obs.Logger(ctx, s.logger).Warn().Str("announced_version", msg.Payload).Msg("catalog broadcast ignored")
			}
		}
	}
}
