// Package userlist loads the ordered list of usernames to query, from a
// local file or a Cloud Storage object.
package userlist

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/codeGROOVE-dev/retry"
	"google.golang.org/api/option"
)

const gsPrefix = "gs://"

// Load reads newline-delimited usernames from source, which is either a
// local path or a gs://bucket/object URL. Blank lines are dropped; input
// order is preserved and defines output order downstream.
func Load(ctx context.Context, source string, logger *slog.Logger) ([]string, error) {
	var data []byte
	var err error

	if strings.HasPrefix(source, gsPrefix) {
		data, err = readObject(ctx, source, logger)
	} else {
		data, err = os.ReadFile(source)
	}
	if err != nil {
		return nil, fmt.Errorf("read user list %s: %w", source, err)
	}

	return parse(data), nil
}

func parse(data []byte) []string {
	var users []string
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		users = append(users, line)
	}
	return users
}

// readObject fetches a Cloud Storage object with retry logic for
// reliability.
func readObject(ctx context.Context, source string, logger *slog.Logger) ([]byte, error) {
	bucket, object, ok := strings.Cut(strings.TrimPrefix(source, gsPrefix), "/")
	if !ok || bucket == "" || object == "" {
		return nil, fmt.Errorf("invalid object URL: %s", source)
	}

	client, err := newClient(ctx)
	if err != nil {
		return nil, fmt.Errorf("create storage client: %w", err)
	}
	defer func() {
		if closeErr := client.Close(); closeErr != nil {
			logger.Warn("Failed to close storage client", "error", closeErr)
		}
	}()

	var data []byte
	err = retry.Do(
		func() error {
			r, openErr := client.Bucket(bucket).Object(object).NewReader(ctx)
			if openErr != nil {
				// Don't retry on "not found" errors
				if errors.Is(openErr, storage.ErrObjectNotExist) {
					return retry.Unrecoverable(fmt.Errorf("open storage reader: %w", openErr))
				}
				return fmt.Errorf("open storage reader: %w", openErr)
			}
			defer func() {
				if closeErr := r.Close(); closeErr != nil {
					logger.Warn("Failed to close storage reader", "error", closeErr)
				}
			}()

			var readErr error
			data, readErr = io.ReadAll(r)
			if readErr != nil {
				return fmt.Errorf("read from storage: %w", readErr)
			}
			return nil
		},
		retry.Attempts(3),
		retry.Delay(time.Second),
		retry.MaxDelay(2*time.Minute),
		retry.MaxJitter(10*time.Second),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, retryErr error) {
			logger.Info("Retrying user list read after error", "attempt", n, "bucket", bucket, "object", object, "error", retryErr)
		}),
	)
	if err != nil {
		return nil, fmt.Errorf("load after retries: %w", err)
	}

	logger.Info("User list loaded from Cloud Storage", "bucket", bucket, "object", object, "bytes", len(data))
	return data, nil
}

// newClient builds a storage client, using explicit credentials when
// provided and Application Default Credentials otherwise.
func newClient(ctx context.Context) (*storage.Client, error) {
	if credsJSON := os.Getenv("GOOGLE_CREDENTIALS_JSON"); credsJSON != "" {
		return storage.NewClient(ctx, option.WithCredentialsJSON([]byte(credsJSON)))
	}
	return storage.NewClient(ctx)
}
