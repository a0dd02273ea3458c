package cli

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/depot/pkg/depot"
	"github.com/mesh-intelligence/depot/pkg/types"
)

// openStore resolves settings and opens the store. A non-empty mode
// overrides the configured one.
func openStore(cmd *cobra.Command, mode string) (*depot.Store, *zap.Logger, error) {
	s, err := resolveSettings(cmd)
	if err != nil {
		return nil, nil, err
	}
	cfg := s.config
	if mode != "" {
		cfg.Mode = mode
	}
	store, err := depot.Open(cmd.Context(), cfg, depot.WithLogger(s.logger))
	if err != nil {
		return nil, nil, err
	}
	return store, s.logger, nil
}

// withStore opens the store, runs fn, and closes the store. In disconnected
// mode the store is saved once after fn succeeds.
func withStore(cmd *cobra.Command, fn func(ctx context.Context, store *depot.Store) error) error {
	store, logger, err := openStore(cmd, "")
	if err != nil {
		return err
	}
	defer store.Close()

	ctx := cmd.Context()
	if err := fn(ctx, store); err != nil {
		return err
	}

	if store.Mode() != types.ModeDisconnected {
		return nil
	}
	results, err := store.Save(ctx)
	if err != nil {
		return err
	}
	for _, r := range results {
		if r.Operations() > 0 {
			logger.Info("saved", zap.String("kind", r.Kind),
				zap.Int("inserted", r.Inserted), zap.Int("updated", r.Updated), zap.Int("deleted", r.Deleted))
		}
	}
	return nil
}

// storedID saves pending changes in disconnected mode and returns the store
// identity for a record of kind created under id. In connected mode id is
// already durable.
func storedID(ctx context.Context, store *depot.Store, kind string, id int64) (int64, error) {
	if store.Mode() != types.ModeDisconnected {
		return id, nil
	}
	results, err := store.Save(ctx)
	if err != nil {
		return 0, err
	}
	for _, r := range results {
		if r.Kind == kind {
			return r.Resolve(id), nil
		}
	}
	return id, nil
}
