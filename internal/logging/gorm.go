package logging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const defaultSlowThreshold = 200 * time.Millisecond

// gormLogger implements gorm's logger.Interface on top of zap.
type gormLogger struct {
	log           *zap.Logger
	SlowThreshold time.Duration
}

// NewGormLogger returns a gorm logger that writes through log.
func NewGormLogger(log *zap.Logger) gormlogger.Interface {
	return &gormLogger{
		log:           log.Named("gorm"),
		SlowThreshold: defaultSlowThreshold,
	}
}

// LogMode is a no-op; levels come from the zap logger.
func (l *gormLogger) LogMode(_ gormlogger.LogLevel) gormlogger.Interface {
	return l
}

func (l *gormLogger) Info(_ context.Context, msg string, data ...interface{}) {
	l.log.Info(msg, zap.String("data", fmt.Sprint(data...)))
}

func (l *gormLogger) Warn(_ context.Context, msg string, data ...interface{}) {
	l.log.Warn(msg, zap.String("data", fmt.Sprint(data...)))
}

func (l *gormLogger) Error(_ context.Context, msg string, data ...interface{}) {
	l.log.Error(msg, zap.String("data", fmt.Sprint(data...)))
}

func (l *gormLogger) Trace(_ context.Context, begin time.Time, fc func() (sql string, rowsAffected int64), err error) {
	elapsed := time.Since(begin)
	sql, rows := fc()

	fields := []zap.Field{
		zap.Duration("elapsed", elapsed),
		zap.Int64("rows", rows),
		zap.String("sql", sql),
	}

	switch {
	case err != nil && errors.Is(err, gorm.ErrRecordNotFound):
		l.log.Debug("database query - no records found", fields...)
	case err != nil:
		l.log.Error("database query failed", append(fields, zap.Error(err))...)
	case elapsed > l.SlowThreshold:
		l.log.Warn("slow query detected", append(fields,
			zap.Duration("threshold", l.SlowThreshold),
			zap.Duration("exceeded_by", elapsed-l.SlowThreshold),
		)...)
	default:
		l.log.Debug("database query completed", fields...)
	}
}
