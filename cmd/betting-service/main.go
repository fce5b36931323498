package main

import (
	"context"
	"database/sql"
	"fmt"
	"net/http"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/sgbet/f1-betting-service/internal/betting-service/bets"
	"github.com/sgbet/f1-betting-service/internal/betting-service/events"
	bhttp "github.com/sgbet/f1-betting-service/internal/betting-service/http"
	"github.com/sgbet/f1-betting-service/internal/betting-service/ledger"
	kpub "github.com/sgbet/f1-betting-service/internal/betting-service/producer"
	"github.com/sgbet/f1-betting-service/internal/betting-service/repo/memory"
	pgrepo "github.com/sgbet/f1-betting-service/internal/betting-service/repo/postgres"
	"github.com/sgbet/f1-betting-service/internal/betting-service/settlement"
	"github.com/sgbet/f1-betting-service/internal/f1data"
	"github.com/sgbet/f1-betting-service/internal/f1data/openf1"
	"github.com/sgbet/f1-betting-service/internal/shared/cache"
	"github.com/sgbet/f1-betting-service/internal/shared/config"
	"github.com/sgbet/f1-betting-service/internal/shared/db"
	skafka "github.com/sgbet/f1-betting-service/internal/shared/kafka"
	"github.com/sgbet/f1-betting-service/internal/shared/logger"
	"github.com/sgbet/f1-betting-service/internal/shared/metrics"
)

func main() {
	cfg := config.Load()
	log, _ := logger.New(cfg.ServiceName, cfg.Env)
	defer log.Sync()

	initialBalance, err := decimal.NewFromString(cfg.InitialBalance)
	if err != nil {
		log.Fatal("INITIAL_BALANCE inválido", zap.String("value", cfg.InitialBalance), zap.Error(err))
	}

	// Provedor OpenF1, com cache Redis quando disponível
	var provider f1data.Provider = openf1.New(cfg.OpenF1BaseURL, log)

	rdb, err := cache.ConnectRedis(cfg.RedisAddr)
	if err != nil {
		log.Warn("redis indisponível, seguindo sem cache do provedor", zap.Error(err))
		rdb = nil
	} else {
		provider = f1data.NewCached(provider, rdb, cfg.OpenF1CacheTTL)
	}

	// Repositórios conforme o driver de armazenamento
	var (
		users    ledger.UserRepo
		betRepo  bets.BetRepo
		outcomes settlement.OutcomeRepo
		pg       *sql.DB
	)
	switch cfg.StorageDriver {
	case "postgres":
		pg, err = db.ConnectPostgres(cfg.PostgresDSN)
		if err != nil {
			log.Fatal("pg", zap.Error(err))
		}
		defer pg.Close()
		users = pgrepo.NewUsers(pg)
		betRepo = pgrepo.NewBets(pg)
		outcomes = pgrepo.NewOutcomes(pg)
	default:
		users = memory.NewUserStore()
		betRepo = memory.NewBetStore()
		outcomes = memory.NewOutcomeStore()
	}

	// Kafka writers (tópicos bet_placed e event_settled)
	placedWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicBetPlaced)
	defer placedWriter.Close()
	settledWriter := skafka.NewWriter(cfg.KafkaBrokers, cfg.TopicEventSettled)
	defer settledWriter.Close()
	publ := kpub.NewKafkaPublisher(placedWriter, settledWriter)

	// Serviços de domínio
	wallet := ledger.New(log, users, initialBalance)
	eventBook := events.New(provider)
	betSvc := bets.New(log, eventBook, wallet, betRepo, publ)
	settleSvc := settlement.New(log, eventBook, betSvc, wallet, outcomes, publ)

	// metrics/health
	metrics.StartServer(cfg.MetricsPort, func(ctx context.Context) error {
		if pg != nil {
			if err := pg.PingContext(ctx); err != nil {
				return fmt.Errorf("pg: %w", err)
			}
		}
		if rdb != nil {
			if err := rdb.Ping(ctx).Err(); err != nil {
				return fmt.Errorf("redis: %w", err)
			}
		}
		return nil
	})
	log.Info("metrics/health", zap.String("addr", ":"+cfg.MetricsPort))

	// HTTP público
	api := bhttp.NewServer(log, eventBook, betSvc, wallet, settleSvc)
	apiSrv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: api.Router(),
	}

	log.Info("betting-service listening",
		zap.String("addr", apiSrv.Addr),
		zap.String("storage", cfg.StorageDriver))
	if err := apiSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal("api", zap.Error(err))
	}
}
