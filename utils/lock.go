package utils

import (
	"context"
	"errors"
	"time"

	"github.com/bsm/redislock"
	"github.com/mmdatafocus/coffee_export_backend/config"
	"github.com/sirupsen/logrus"
)

// ObtainBestEffortLock tries to take a redis lock for key. The returned release
// func is always safe to call. When redis is not connected or the lock is held
// elsewhere, the caller proceeds without a lock and a warning is logged.
func ObtainBestEffortLock(ctx context.Context, key string, ttl time.Duration, moduleName string, funcName string) func() {
	logger := config.GetLogger()
	locker := config.GetRedisLock()
	if locker == nil {
		logger.WithFields(logrus.Fields{
			"module":   moduleName,
			"funcName": funcName,
			"lock_key": key,
		}).Warn("redis lock not ready; proceeding without redis lock")
		return func() {}
	}

	lock, err := locker.Obtain(ctx, key, ttl, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(100*time.Millisecond), 20),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		logger.WithFields(logrus.Fields{
			"module":   moduleName,
			"funcName": funcName,
			"lock_key": key,
		}).Warn("could not obtain redis lock; proceeding without redis lock")
		return func() {}
	} else if err != nil {
		config.LogError(logger, moduleName, funcName, "Error obtaining redis lock", key, err)
		return func() {}
	}

	return func() {
		if releaseErr := lock.Release(context.Background()); releaseErr != nil && !errors.Is(releaseErr, redislock.ErrLockNotHeld) {
			config.LogError(logger, moduleName, funcName, "Error releasing redis lock", key, releaseErr)
		}
	}
}
