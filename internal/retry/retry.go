package retry

import (
	"context"
	"errors"
	"regexp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/avisri/jobscout/internal/utils"
)

const (
	defaultMaxAttempts = 3
	defaultBaseDelay   = 2 * time.Second
)

// Config controls the backoff behavior of Do.
type Config struct {
	// MaxAttempts is the number of retries performed after the initial call.
	MaxAttempts int
	// BaseDelay seeds the exponential backoff when the provider does not
	// supply its own retry delay.
	BaseDelay time.Duration
	Logger    *zap.Logger
}

// DefaultConfig matches the free-tier quota behavior of the completion backend.
var DefaultConfig = Config{
	MaxAttempts: defaultMaxAttempts,
	BaseDelay:   defaultBaseDelay,
}

// RateLimitError marks an error as a rate-limit signal. RetryAfter carries the
// provider-supplied delay when the response included one.
type RateLimitError struct {
	Err        error
	RetryAfter time.Duration
}

func (e *RateLimitError) Error() string {
	if e.Err == nil {
		return "rate limited"
	}
	return e.Err.Error()
}

func (e *RateLimitError) Unwrap() error { return e.Err }

var rateLimitMarkers = []string{
	"429",
	"quota",
	"rate limit",
	"resource has been exhausted",
	"resource_exhausted",
}

// retryDelayPattern matches RetryInfo-style delays embedded in error payloads,
// e.g. `"retryDelay": "17s"` or `retryDelay: 17.5s`.
var retryDelayPattern = regexp.MustCompile(`(?i)retry[-_ ]?(?:delay|after)"?\s*[:=]?\s*"?(\d+(?:\.\d+)?)s?`)

// IsRateLimit reports whether the error looks like a rate-limit or quota
// signal worth backing off for.
func IsRateLimit(err error) bool {
	if err == nil {
		return false
	}

	var rle *RateLimitError
	if errors.As(err, &rle) {
		return true
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range rateLimitMarkers {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// ProviderDelay extracts the retry delay the provider embedded in the error,
// or zero when none is present.
func ProviderDelay(err error) time.Duration {
	if err == nil {
		return 0
	}

	var rle *RateLimitError
	if errors.As(err, &rle) && rle.RetryAfter > 0 {
		return rle.RetryAfter
	}

	match := retryDelayPattern.FindStringSubmatch(err.Error())
	if len(match) == 2 {
		if seconds, parseErr := strconv.ParseFloat(match[1], 64); parseErr == nil && seconds > 0 {
			return time.Duration(seconds * float64(time.Second))
		}
	}
	return 0
}

var wait = utils.WaitFor

// Do executes op, retrying on rate-limit signals with exponential backoff. The
// provider-supplied delay wins over the computed one when present. Errors
// without a rate-limit signal propagate immediately, as does context
// cancellation while waiting.
func Do[T any](ctx context.Context, cfg Config, op func(context.Context) (T, error)) (T, error) {
	var zero T

	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = defaultMaxAttempts
	}
	if cfg.BaseDelay <= 0 {
		cfg.BaseDelay = defaultBaseDelay
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var lastErr error
	for attempt := 0; attempt <= cfg.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, err
		}

		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if !IsRateLimit(err) {
			return zero, err
		}

		if attempt == cfg.MaxAttempts {
			break
		}

		delay := ProviderDelay(err)
		if delay <= 0 {
			delay = cfg.BaseDelay << attempt
		}

		logger.Debug("backing off after rate limit",
			zap.Int("attempt", attempt+1),
			zap.Int("max_attempts", cfg.MaxAttempts),
			zap.Duration("delay", delay),
			zap.Error(err),
		)

		if err := wait(ctx, delay); err != nil {
			return zero, err
		}
	}

	return zero, lastErr
}
