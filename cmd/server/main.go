package main

import (
	"database/sql"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	_ "github.com/lib/pq"

	"github.com/andreycr/sinpe-ledger/internal/balancecache"
	"github.com/andreycr/sinpe-ledger/internal/balancerepo"
	eventskafka "github.com/andreycr/sinpe-ledger/internal/events/kafka"
	"github.com/andreycr/sinpe-ledger/internal/ledgerdelivery"
	"github.com/andreycr/sinpe-ledger/internal/ledgerservice"
	"github.com/andreycr/sinpe-ledger/internal/middleware"
	"github.com/andreycr/sinpe-ledger/internal/transactionrepo"
	"github.com/andreycr/sinpe-ledger/pkg/clockpkg"
	"github.com/andreycr/sinpe-ledger/pkg/configpkg"
	"github.com/andreycr/sinpe-ledger/pkg/dbpkg"
)

func main() {
	config, err := configpkg.Load("./configs")
	if err != nil {
		log.Fatal().Err(err).Msg("cannot load config")
	}

	logger := middleware.GetLogger(config)

	conn, err := dbpkg.Setup(config.DBDriver, config.DBSource)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot connect to db")
	}
	defer conn.Close()

	server, cleanup, err := createServer(conn, logger, config)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot create server")
	}
	defer cleanup()

	err = server.Run(config.ServerAddress)
	if err != nil {
		logger.Fatal().Err(err).Msg("cannot start server")
	}
}

func createServer(conn *sql.DB, logger zerolog.Logger, config configpkg.Config) (*gin.Engine, func(), error) {
	cleanup := func() {}

	clock, err := clockpkg.NewInLocation(config.TimeLocation)
	if err != nil {
		return nil, cleanup, err
	}

	balanceRepo := balancerepo.NewRepoPGS(conn)
	transactionRepo := transactionrepo.NewRepoPGS(conn)

	var cache ledgerservice.BalanceCache
	if config.RedisAddress != "" {
		client := redis.NewClient(&redis.Options{Addr: config.RedisAddress})
		cache = balancecache.New(client, config.BalanceCacheTTL)

		logger.Info().Str("addr", config.RedisAddress).Msg("balance cache enabled")
	}

	var publisher ledgerservice.EventPublisher

	if brokers := config.BrokerList(); len(brokers) > 0 {
		kafkaPublisher := eventskafka.NewPublisher(brokers, config.KafkaTopic)
		publisher = kafkaPublisher
		cleanup = func() {
			if err := kafkaPublisher.Close(); err != nil {
				logger.Error().Err(err).Msg("cannot close event publisher")
			}
		}

		logger.Info().Strs("brokers", brokers).Str("topic", config.KafkaTopic).Msg("event publishing enabled")
	}

	ledgerService := ledgerservice.New(balanceRepo, transactionRepo, cache, publisher, clock)
	ledgerHandler := ledgerdelivery.NewHandler(ledgerService)

	gin.SetMode(gin.ReleaseMode)
	server := gin.New()

	server.Use(middleware.RequestLogger(logger))
	server.Use(gin.Recovery())

	server.POST("/accounts", ledgerHandler.CreateAccount)
	server.GET("/accounts/:id/balance", ledgerHandler.GetBalance)
	server.POST("/accounts/:id/debits", ledgerHandler.Debit)
	server.POST("/accounts/:id/transactions", ledgerHandler.RecordTransaction)
	server.GET("/accounts/:id/transactions", ledgerHandler.History)

	return server, cleanup, nil
}
