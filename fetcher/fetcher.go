// Package fetcher retrieves per-day contribution activity from the GitHub
// GraphQL API.
package fetcher

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/codeGROOVE-dev/retry"

	"contribgrid/pkg/contrib"
)

// DefaultEndpoint is the GitHub GraphQL API endpoint.
const DefaultEndpoint = "https://api.github.com/graphql"

const (
	// DefaultAttempts is the per-user request attempt limit.
	DefaultAttempts = 3
	// DefaultBackoff is the base of the linear retry backoff: the wait
	// before attempt n is n times this duration.
	DefaultBackoff = 2 * time.Second
)

// calendarQuery requests the full contribution calendar for one user.
const calendarQuery = `query ($userName: String!) {
  user(login: $userName) {
    contributionsCollection {
      contributionCalendar {
        totalContributions
        weeks {
          contributionDays {
            contributionCount
            date
          }
        }
      }
    }
  }
}`

// FetchError indicates that every attempt for a single user failed. It
// carries the last underlying cause; the caller is expected to contain it
// and render an all-absent row.
type FetchError struct {
	User string
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("fetch contributions for %s: %v", e.User, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }

// IsFetchError checks if an error is a per-user fetch failure.
func IsFetchError(err error) bool {
	var fe *FetchError
	return errors.As(err, &fe)
}

// Fetcher issues contribution calendar queries with bounded retry.
type Fetcher struct {
	client   *http.Client
	logger   *slog.Logger
	endpoint string
	token    string
	attempts int
	backoff  time.Duration
}

// New creates a fetcher. Non-positive attempts or backoff fall back to the
// defaults.
func New(client *http.Client, endpoint, token string, attempts int, backoff time.Duration, logger *slog.Logger) *Fetcher {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	if attempts <= 0 {
		attempts = DefaultAttempts
	}
	if backoff <= 0 {
		backoff = DefaultBackoff
	}
	return &Fetcher{
		client:   client,
		logger:   logger,
		endpoint: endpoint,
		token:    token,
		attempts: attempts,
		backoff:  backoff,
	}
}

// graphQLResponse mirrors the nested calendar shape of the API reply. User
// is a pointer so a null user (unknown login) is distinguishable from an
// empty calendar.
type graphQLResponse struct {
	Data struct {
		User *struct {
			ContributionsCollection struct {
				ContributionCalendar struct {
					TotalContributions int `json:"totalContributions"`
					Weeks              []struct {
						ContributionDays []contrib.Day `json:"contributionDays"`
					} `json:"weeks"`
				} `json:"contributionCalendar"`
			} `json:"contributionsCollection"`
		} `json:"user"`
	} `json:"data"`
}

// Fetch returns the flat, ordered contribution days for one user. A reply
// missing the expected user shape counts as zero contributions, not an
// error. Exhausting all attempts returns a *FetchError wrapping the last
// cause.
func (f *Fetcher) Fetch(ctx context.Context, user string) ([]contrib.Day, error) {
	var days []contrib.Day

	err := retry.Do(
		func() error {
			body, err := json.Marshal(map[string]any{
				"query":     calendarQuery,
				"variables": map[string]string{"userName": user},
			})
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("marshal query: %w", err))
			}

			req, err := http.NewRequestWithContext(ctx, http.MethodPost, f.endpoint, bytes.NewReader(body))
			if err != nil {
				return retry.Unrecoverable(fmt.Errorf("create request: %w", err))
			}
			req.Header.Set("Authorization", "Bearer "+f.token)
			req.Header.Set("Content-Type", "application/json")

			startTime := time.Now()
			resp, err := f.client.Do(req)
			duration := time.Since(startTime)

			if err != nil {
				f.logger.Warn("GraphQL request failed, will retry",
					"user", user,
					"duration_ms", duration.Milliseconds(),
					"error", err)
				return err
			}
			defer func() {
				if closeErr := resp.Body.Close(); closeErr != nil {
					f.logger.Warn("Failed to close response body", "error", closeErr)
				}
			}()

			if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
				f.logger.Warn("GraphQL request returned non-2xx status, will retry",
					"user", user,
					"status_code", resp.StatusCode)
				return fmt.Errorf("HTTP %d", resp.StatusCode)
			}

			data, err := io.ReadAll(resp.Body)
			if err != nil {
				return fmt.Errorf("read response: %w", err)
			}

			parsed, total, err := parseCalendar(data)
			if err != nil {
				f.logger.Error("Failed to parse GraphQL response", "user", user, "error", err)
				return retry.Unrecoverable(err)
			}

			f.logger.Info("Contribution calendar fetched",
				"user", user,
				"total_contributions", total,
				"day_count", len(parsed),
				"duration_ms", duration.Milliseconds())

			days = parsed
			return nil
		},
		retry.Attempts(uint(f.attempts)),
		retry.DelayType(func(n uint, _ error, _ *retry.Config) time.Duration {
			// Linear backoff: attempt number times the base delay.
			return time.Duration(n+1) * f.backoff
		}),
		retry.Context(ctx),
		retry.LastErrorOnly(true),
		retry.OnRetry(func(n uint, err error) {
			f.logger.Info("Retrying contribution fetch after error", "user", user, "attempt", n, "error", err)
		}),
	)
	if err != nil {
		return nil, &FetchError{User: user, Err: err}
	}

	return days, nil
}

// parseCalendar flattens the nested weeks[].contributionDays[] arrays into
// one ordered sequence. A null user yields zero days so the caller can
// still render an all-absent row.
func parseCalendar(data []byte) ([]contrib.Day, int, error) {
	var reply graphQLResponse
	if err := json.Unmarshal(data, &reply); err != nil {
		return nil, 0, fmt.Errorf("unmarshal response: %w", err)
	}

	if reply.Data.User == nil {
		return nil, 0, nil
	}

	calendar := reply.Data.User.ContributionsCollection.ContributionCalendar
	var days []contrib.Day
	for _, week := range calendar.Weeks {
		days = append(days, week.ContributionDays...)
	}
	return days, calendar.TotalContributions, nil
}
