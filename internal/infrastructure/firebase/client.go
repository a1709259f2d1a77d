// Package firebase establishes the optional Firestore backend handle used
// for persisting trading and training records. Connection failures come
// back as typed BackendErrors so the caller decides whether a missing
// backend is fatal; the default bootstrap treats it as a soft failure and
// continues in local-only mode.
package firebase

import (
	"context"

	"cloud.google.com/go/firestore"
	fb "firebase.google.com/go/v4"
	"google.golang.org/api/option"

	apperrors "github.com/arlet-trading/arlet_service/internal/domain/errors"
	"github.com/arlet-trading/arlet_service/internal/infrastructure/config"
	"github.com/arlet-trading/arlet_service/pkg/logger"
)

// Client wraps the Firebase app and its Firestore handle
type Client struct {
	app   *fb.App
	store *firestore.Client
}

// Connect assembles credentials from the environment and opens the Firestore
// client. The call blocks with no internal timeout; bound it with ctx if
// startup latency matters. Every failure is returned as a BackendError
// wrapping ErrBackendUnavailable.
func Connect(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Client, error) {
	if cfg.Firebase.ProjectID == "" {
		return nil, apperrors.BackendUnavailable("firebase project id not configured", nil)
	}

	creds, err := Credentials(cfg.Firebase.ProjectID)
	if err != nil {
		return nil, err
	}

	app, err := fb.NewApp(ctx, &fb.Config{ProjectID: cfg.Firebase.ProjectID}, option.WithCredentialsJSON(creds))
	if err != nil {
		return nil, apperrors.BackendUnavailable("failed to initialize firebase app", err)
	}

	store, err := app.Firestore(ctx)
	if err != nil {
		return nil, apperrors.BackendUnavailable("failed to open firestore client", err)
	}

	log.Info("firestore initialized", "project_id", cfg.Firebase.ProjectID, "collection", cfg.Firebase.Collection)

	return &Client{app: app, store: store}, nil
}

// Firestore exposes the underlying Firestore client
func (c *Client) Firestore() *firestore.Client {
	return c.store
}

// Close releases the Firestore connection
func (c *Client) Close() error {
	return c.store.Close()
}
