package main

import (
	"context"
	_ "embed"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"

	"github.com/habuli/go-shop-backend.git/internal/auth"
	"github.com/habuli/go-shop-backend.git/internal/catalog"
	"github.com/habuli/go-shop-backend.git/internal/config"
	"github.com/habuli/go-shop-backend.git/internal/httpx"
	kafkax "github.com/habuli/go-shop-backend.git/internal/kafka"
	"github.com/habuli/go-shop-backend.git/internal/mail"
	"github.com/habuli/go-shop-backend.git/internal/media"
	"github.com/habuli/go-shop-backend.git/internal/orders"
	"github.com/habuli/go-shop-backend.git/internal/payment"
	"github.com/habuli/go-shop-backend.git/internal/postgres"
	"github.com/habuli/go-shop-backend.git/internal/redisx"
	"github.com/habuli/go-shop-backend.git/internal/shipping"
	"github.com/habuli/go-shop-backend.git/internal/users"
)

//go:embed schema.sql
var schemaSQL string

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()
	if err := postgres.Migrate(ctx, db, schemaSQL); err != nil {
		log.Fatalf("db migrate: %v", err)
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, one per topic
	createdProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderCreated, 1024)
	createdProd.Start(ctx)
	statusProd := kafkax.NewProducer(cfg.KafkaBrokers, orders.TopicOrderStatusChanged, 1024)
	statusProd.Start(ctx)

	// Process-lifetime collaborators
	mailer := mail.NewSMTP(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUsername, cfg.SMTPPassword, cfg.SMTPFrom)
	gateway := payment.NewRazorpay(cfg.RazorpayKeyID, cfg.RazorpaySecret)
	uploader, err := media.NewCloudinary(cfg.CloudinaryURL)
	if err != nil {
		log.Fatalf("cloudinary: %v", err)
	}
	tokens := &auth.Tokens{Secret: []byte(cfg.JWTSecret), Expire: cfg.JWTExpire}

	// Repos
	userRepo := &users.Repo{DB: db}
	productRepo := &catalog.Repo{DB: db}
	orderRepo := &orders.Repo{DB: db}
	shippingRepo := &shipping.Repo{DB: db}

	authn := &httpx.Authenticator{Tokens: tokens, Users: userRepo}

	uh := &httpx.UsersHandler{
		Repo:         userRepo,
		Tokens:       tokens,
		Reset:        &users.ResetTokens{Redis: rdb},
		Mailer:       mailer,
		CookieExpire: cfg.CookieExpire,
		FrontendURL:  cfg.FrontendURL,
	}
	ph := &httpx.ProductsHandler{
		Repo:          productRepo,
		Uploader:      uploader,
		ResultPerPage: cfg.ResultPerPage,
	}
	oh := &httpx.OrdersHandler{
		Repo:          orderRepo,
		Products:      productRepo,
		Users:         userRepo,
		Created:       createdProd,
		StatusChanged: statusProd,
		Redis:         rdb,
		Service:       cfg.ServiceName,
	}
	sh := &httpx.ShippingHandler{Repo: shippingRepo}
	payh := &httpx.PaymentsHandler{Gateway: gateway, KeyID: cfg.RazorpayKeyID}

	router := httpx.NewRouter()
	router.Route("/api/v1", func(r chi.Router) {
		uh.Register(r, authn)
		ph.Register(r, authn)
		oh.Register(r, authn)
		sh.Register(r, authn)
		payh.Register(r, authn)
	})

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	createdProd.Close()
	statusProd.Close()
	cancel()
	createdProd.WaitClosed()
	statusProd.WaitClosed()
}
