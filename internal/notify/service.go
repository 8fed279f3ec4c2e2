package notify

import (
	"context"
	"encoding/json"
	"fmt"
	"log"

	"github.com/redis/go-redis/v9"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/habuli/go-shop-backend.git/internal/kafka"
	"github.com/habuli/go-shop-backend.git/internal/mail"
	"github.com/habuli/go-shop-backend.git/internal/orders"
	"github.com/habuli/go-shop-backend.git/internal/redisx"
)

// Service turns order events into customer email. It is mounted as the
// consumer handler for both order topics.
type Service struct {
	Mailer      mail.Mailer
	Redis       *redis.Client
	ServiceName string
}

func (s *Service) HandleOrderEvent(ctx context.Context, m kafkago.Message) error {
	var env orders.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		return err
	}

	// dedup on event_id so a redelivered offset never mails twice
	dkey := fmt.Sprintf(redisx.KeyDedup, s.ServiceName, env.EventID)
	if seen, _ := redisx.Exists(ctx, s.Redis, dkey); seen {
		return nil
	}

	var msg mail.Message
	switch env.EventType {
	case orders.EventOrderCreated:
		p, err := kafkax.UnwrapPayload[orders.OrderCreatedPayload](env.Payload)
		if err != nil {
			return err
		}
		if p.UserEmail == "" {
			return nil
		}
		msg = mail.Message{
			To:      p.UserEmail,
			Subject: "Your Habuli order is confirmed",
			Body: fmt.Sprintf("Hi %s,\n\nWe received your order %s (total %.2f). We'll let you know when it ships.",
				p.UserName, p.OrderID, p.TotalPrice),
		}
	case orders.EventOrderStatusChanged:
		p, err := kafkax.UnwrapPayload[orders.OrderStatusChangedPayload](env.Payload)
		if err != nil {
			return err
		}
		if p.UserEmail == "" {
			return nil
		}
		msg = mail.Message{
			To:      p.UserEmail,
			Subject: fmt.Sprintf("Your Habuli order is %s", p.Status),
			Body:    fmt.Sprintf("Hi %s,\n\nOrder %s is now %s.", p.UserName, p.OrderID, p.Status),
		}
	default:
		return nil // ignore
	}

	if err := s.Mailer.Send(ctx, msg); err != nil {
		return err
	}
	if err := s.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err(); err != nil {
		log.Printf("dedup mark: %v", err)
	}
	return nil
}
