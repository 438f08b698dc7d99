package app

import (
	"context"
	"errors"

	"pickup-service/internal/config"
	"pickup-service/internal/db"
	"pickup-service/internal/events"
	"pickup-service/internal/logger"
	"pickup-service/internal/redis"
)

// Infra holds external connections. Redis and AMQP are optional and stay
// nil when not configured.
type Infra struct {
	DB        *db.DB
	Redis     *redis.Client
	Publisher *events.AMQPPublisher
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	database, err := db.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	logger.Info("database ready", nil)

	infra := &Infra{DB: database}

	if cfg.RedisAddr != "" {
		infra.Redis, err = redis.New(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			infra.Close()
			return nil, err
		}
		logger.Info("redis ready", map[string]any{"addr": cfg.RedisAddr})
	}

	if cfg.AMQPURL != "" {
		infra.Publisher, err = events.NewAMQPPublisher(cfg.AMQPURL)
		if err != nil {
			infra.Close()
			return nil, err
		}
		logger.Info("amqp ready", map[string]any{"exchange": cfg.AMQPExchange})
	}

	return infra, nil
}

func (i *Infra) Close() error {
	var errs []error
	if i.Publisher != nil {
		errs = append(errs, i.Publisher.Close())
	}
	if i.Redis != nil {
		errs = append(errs, i.Redis.Close())
	}
	if i.DB != nil {
		errs = append(errs, i.DB.Close())
	}
	return errors.Join(errs...)
}
