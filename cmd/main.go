package main

import (
	"context"
	"log"
	"net/http"

	"github.com/saeidalz13/seabattle-backend/api"
	"github.com/saeidalz13/seabattle-backend/db"
	"github.com/saeidalz13/seabattle-backend/db/sqlc"
	"github.com/saeidalz13/seabattle-backend/internal/config"
	mb "github.com/saeidalz13/seabattle-backend/models/battleship"
	mc "github.com/saeidalz13/seabattle-backend/models/connection"
)

func main() {
	cfg, err := config.Load(".env")
	if err != nil {
		panic(err)
	}

	var (
		store     mb.WaitingStore = mb.NewMemoryWaitingStore()
		analytics api.Analytics
	)
	if cfg.DatabaseUrl != "" {
		psql := db.MustConnectToDb(cfg.DatabaseUrl, cfg.MigrationDir)
		defer psql.Close()

		dbManager := sqlc.NewDbManager(sqlc.New(psql))
		store = dbManager.WaitingGames
		analytics = dbManager.Analytics
	} else {
		log.Println("DATABASE_URL not set; waiting games are kept in memory")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bgm := mb.NewBattleshipGameManager(
		store,
		mb.WithCleanupInterval(cfg.CleanupInterval),
		mb.WithWaitingGameTTL(cfg.WaitingGameTTL),
	)
	go bgm.CleanupPeriodically(ctx)

	bsm := mc.NewBattleshipSessionManager(cfg.SessionIdleTTL)
	go bsm.CleanupPeriodically(ctx)

	server := api.NewServer(
		api.NewRequestProcessor(bsm, bgm, analytics),
		api.WithPort(cfg.Port),
		api.WithStage(cfg.Stage),
	)

	log.Printf("Listening on %s (stage: %s)\n", server.Addr(), server.Stage())
	log.Fatalln(http.ListenAndServe(server.Addr(), server.Handler()))
}
