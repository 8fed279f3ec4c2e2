package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/habuli/go-shop-backend.git/internal/config"
	kafkax "github.com/habuli/go-shop-backend.git/internal/kafka"
	"github.com/habuli/go-shop-backend.git/internal/mail"
	"github.com/habuli/go-shop-backend.git/internal/notify"
	"github.com/habuli/go-shop-backend.git/internal/orders"
	"github.com/habuli/go-shop-backend.git/internal/redisx"
)

func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notify.Service{
		Mailer:      mail.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom),
		Redis:       rdb,
		ServiceName: cfg.ServiceName + "-mailer",
	}

	group := getenv("MAILER_GROUP", "mailer-svc")
	workers := mustAtoi(os.Getenv("MAILER_WORKERS"), "4")

	topics := []string{orders.TopicOrderCreated, orders.TopicOrderStatusChanged}
	for _, topic := range topics {
		cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, topic, workers)
		go func(topic string) {
			log.Printf("mailer consumer started: group=%s topic=%s workers=%d", group, topic, workers)
			if err := cons.Start(ctx, svc.HandleOrderEvent); err != nil {
				log.Printf("consumer exit (%s): %v", topic, err)
				cancel()
			}
		}(topic)
	}

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down consumers...")
	cancel()
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s, def string) int {
	if s == "" {
		s = def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return 1
	}
	return i
}
