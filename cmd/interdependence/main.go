package main

import (
	"context"
	"flag"
	"log/slog"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/exporters/otlp/otlptrace/otlptracehttp"
	sdkresource "go.opentelemetry.io/otel/sdk/resource"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	semconv "go.opentelemetry.io/otel/semconv/v1.26.0"

	"github.com/verses-xyz/interdependence/client"
	"github.com/verses-xyz/interdependence/internal/config"
	"github.com/verses-xyz/interdependence/internal/infra/database"
	"github.com/verses-xyz/interdependence/internal/infra/gateway"
	"github.com/verses-xyz/interdependence/internal/infra/repository"
	"github.com/verses-xyz/interdependence/internal/present/rest"
	"github.com/verses-xyz/interdependence/internal/service"
	"github.com/verses-xyz/interdependence/internal/usecase"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config file")
	flag.Parse()

	conf, err := config.Load(*configPath)
	if err != nil {
		panic("failed to load config: " + err.Error())
	}

	if conf.Server.EnableTrace {
		shutdown, err := setupTracer(conf.Server.TraceEndpoint)
		if err != nil {
			panic("failed to set up tracing: " + err.Error())
		}
		defer shutdown(context.Background())
	}

	db, err := database.NewPostgres(conf.Server.PostgresDsn)
	if err != nil {
		panic("failed to connect database")
	}
	if err := database.MigratePostgres(db); err != nil {
		panic("failed to migrate database")
	}

	rdb := database.NewRedis(conf.Server.RedisAddr, "", conf.Server.RedisDB)

	ledgerClient := client.New(conf.Ledger.GatewayURL)
	ledgerGateway := gateway.NewLedgerGateway(ledgerClient, conf.Ledger.TrustedPublisher)
	publisher := gateway.NewBundlerPublisher(conf.Ledger.BundlerURL)
	proofChecker := gateway.NewSocialProofGateway(conf.Server.ProofServiceURL)

	submissionRepo := repository.NewSubmissionRepository(db)
	verificationRepo := repository.NewVerificationRepository(db)

	signal := service.NewSignalService(rdb)
	limiter := service.NewRateLimiter(rdb, conf.Server.RateLimit, time.Duration(conf.Server.RateLimitWindow)*time.Second)
	verification := service.NewVerificationService(proofChecker, verificationRepo)

	signatures := usecase.NewSignatureUsecase(ledgerGateway)
	declarations := usecase.NewDeclarationUsecase(ledgerGateway, signatures)
	submissions := usecase.NewSubmissionUsecase(declarations, submissionRepo, publisher, signal, verification)

	e := echo.New()
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	if conf.Server.EnableTrace {
		e.Use(otelecho.Middleware("interdependence"))
	}

	handler := rest.NewHandler(declarations, submissions, verification, signal, limiter)
	handler.RegisterRoutes(e)

	slog.Info("starting relay", slog.String("addr", conf.Server.ListenAddr))
	e.Logger.Fatal(e.Start(conf.Server.ListenAddr))
}

func setupTracer(endpoint string) (func(context.Context) error, error) {
	exporter, err := otlptracehttp.New(
		context.Background(),
		otlptracehttp.WithEndpoint(endpoint),
		otlptracehttp.WithInsecure(),
	)
	if err != nil {
		return nil, err
	}

	tp := sdktrace.NewTracerProvider(
		sdktrace.WithBatcher(exporter),
		sdktrace.WithResource(sdkresource.NewWithAttributes(
			semconv.SchemaURL,
			semconv.ServiceName("interdependence"),
		)),
	)
	otel.SetTracerProvider(tp)

	return tp.Shutdown, nil
}
