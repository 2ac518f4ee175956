package googlecloud

import (
	"context"
	"fmt"
	"os"

	"cloud.google.com/go/datastore"
	"github.com/locvowork/transtool/internal/logger"
)

// Client wraps the Datastore client with check-history operations.
type Client struct {
	ds *datastore.Client
}

// NewClient creates a Datastore client. DATASTORE_EMULATOR_HOST is honoured by
// the underlying library.
func NewClient(ctx context.Context, projectID string) (*Client, error) {
	if emulatorHost := os.Getenv("DATASTORE_EMULATOR_HOST"); emulatorHost != "" {
		logger.InfoLog(ctx, "Initializing Datastore client against emulator at %s", emulatorHost)
	}

	ds, err := datastore.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("failed to create datastore client: %w", err)
	}

	return &Client{ds: ds}, nil
}

func (c *Client) Close() error {
	return c.ds.Close()
}
