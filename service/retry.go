package service

import (
	"context"
	"errors"

	log "github.com/sirupsen/logrus"
)

// retryOnce runs fn and, if it failed with a transient store error before
// committing, runs it one more time
func retryOnce(ctx context.Context, op string, fn func() error) error {
	err := fn()
	if err == nil || !errors.Is(err, ErrTransientStore) || errors.Is(err, ErrCommitUncertain) {
		return err
	}
	if ctx.Err() != nil {
		return err
	}

	log.WithFields(log.Fields{
		"operation": op,
		"error":     err,
	}).Warn("Transient store error, retrying once")

	return fn()
}
