// Package service implements the application's use cases on top of the
// repository contracts.
package service

import (
	"context"

	"agora/internal/models"
	"agora/internal/observability"
)

// internal logs err against the request logger and wraps it as an internal error.
func internal(ctx context.Context, op string, err error) error {
	observability.Ctx(ctx).Error().Err(err).Str("op", op).Msg("service failure")
	return models.NewInternalError(err)
}
