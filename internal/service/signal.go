package service

import (
	"context"
	"encoding/json"

	"github.com/redis/go-redis/v9"

	"github.com/verses-xyz/interdependence"
	"github.com/verses-xyz/interdependence/internal/usecase"
)

// SignatureEvent is the realtime notification emitted when a co-signature is
// accepted and published.
type SignatureEvent struct {
	DeclarationTxID string                          `json:"txId"`
	Signature       interdependence.SignatureRecord `json:"signature"`
}

// SignalService fans accepted-signature events out to realtime listeners
// over redis pub/sub.
type SignalService struct {
	rdb *redis.Client
}

func NewSignalService(redisClient *redis.Client) *SignalService {
	return &SignalService{
		rdb: redisClient,
	}
}

func channelFor(declarationTxID string) string {
	return "interdependence:sigs:" + declarationTxID
}

func (s *SignalService) PublishSignature(ctx context.Context, declarationTxID string, record interdependence.SignatureRecord) error {
	jsonstr, err := json.Marshal(SignatureEvent{
		DeclarationTxID: declarationTxID,
		Signature:       record,
	})
	if err != nil {
		return err
	}

	return s.rdb.Publish(ctx, channelFor(declarationTxID), jsonstr).Err()
}

// Subscribe streams signature events for one declaration until ctx is
// cancelled or the returned closer is called.
func (s *SignalService) Subscribe(ctx context.Context, declarationTxID string) (<-chan SignatureEvent, func()) {
	pubsub := s.rdb.Subscribe(ctx, channelFor(declarationTxID))
	events := make(chan SignatureEvent)

	go func() {
		defer close(events)
		for msg := range pubsub.Channel() {
			var event SignatureEvent
			if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
				continue
			}
			select {
			case events <- event:
			case <-ctx.Done():
				return
			}
		}
	}()

	return events, func() { pubsub.Close() }
}

var _ usecase.SignalPublisher = (*SignalService)(nil)
