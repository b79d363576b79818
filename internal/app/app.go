package app

import (
	"context"
	"fmt"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/ThevergeOn/reservation-app/internal/config"
	"github.com/ThevergeOn/reservation-app/internal/events"
	"github.com/ThevergeOn/reservation-app/internal/handler"
	"github.com/ThevergeOn/reservation-app/internal/repository"
	"github.com/ThevergeOn/reservation-app/internal/schedule"
	"github.com/ThevergeOn/reservation-app/internal/server"
	"github.com/ThevergeOn/reservation-app/internal/service"
	"github.com/ThevergeOn/reservation-app/migrations"
	"github.com/ThevergeOn/reservation-app/pkg/clock"
	"github.com/ThevergeOn/reservation-app/pkg/kafka"
	"github.com/ThevergeOn/reservation-app/pkg/logger"
	"github.com/ThevergeOn/reservation-app/pkg/postgres"
	"github.com/jmoiron/sqlx"
	"go.uber.org/zap"
)

func Run(cfg *config.Config) error {
	log := logger.NewLogger(cfg.Log, "reservation")
	clk := clock.Real{}
	calendar := schedule.NewCalendar(cfg.Calendar, clk)
	detector := schedule.NewDetector(cfg.Calendar)

	var (
		repo repository.Repository
		db   *sqlx.DB
	)
	switch cfg.Store {
	case config.StorePostgres:
		var err error
		db, err = postgres.NewPostgresDB(context.Background(), &cfg.Database, migrations.MigrationFiles)
		if err != nil {
			return fmt.Errorf("db init %v", err)
		}
		repo = repository.NewPostgresRepository(db, detector, log)
	default:
		repo = repository.NewMemoryRepository(detector, log)
	}

	pub := events.NewNoopPublisher()
	if len(cfg.Kafka.Addrs) > 0 {
		producer, err := kafka.NewProducer(cfg.Kafka)
		if err != nil {
			return fmt.Errorf("kafka producer %v", err)
		}
		defer producer.Close() //nolint:errcheck
		pub = events.NewPublisher(producer, clk, log)
	}

	svc := service.NewService(repo, calendar, pub, log)
	h := handler.New(svc, log)

	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err := srv.Stop(closeCtx); err != nil {
		log.Error("srv.Stop", zap.Error(err))
	}
	if db != nil {
		db.Close()
	}
	log.Info("Graceful shutdown finished")
	return nil
}
