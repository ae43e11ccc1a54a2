package main

import (
	"context"

	"gorm.io/gorm"

	"github.com/HariKrishnaKumar/bitewise-backend/internal/app"
	"github.com/HariKrishnaKumar/bitewise-backend/internal/platform/logger"
)

func withDB(parent context.Context, fn func(ctx context.Context, log *logger.Logger, conn *gorm.DB) error) error {
	log, err := newLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	ctx, stop := signalContext(parent)
	defer stop()

	conn, _, err := app.OpenDB(log)
	if err != nil {
		return err
	}
	if sqlDB, err := conn.DB(); err == nil {
		defer sqlDB.Close()
	}
	return fn(ctx, log, conn)
}
