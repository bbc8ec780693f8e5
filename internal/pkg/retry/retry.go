package retry

import (
	"time"

	"github.com/avast/retry-go/v4"
)

// A single attempt: hosted model calls are not retried unless configured.
const defaultAttempts = 1

// RetryConfig is the env-loaded retry policy of one outbound service.
// Delays grow exponentially from Delay up to MaxDelay, plus up to Jitter of noise.
type RetryConfig struct {
	Attempts uint          `env:"ATTEMPTS" envDefault:"1"`
	Delay    time.Duration `env:"DELAY" envDefault:"200ms"`
	MaxDelay time.Duration `env:"MAX_DELAY" envDefault:"2s"`
	Jitter   time.Duration `env:"JITTER" envDefault:"100ms"`
}

func (rc *RetryConfig) ToRetryOptions() []retry.Option {
	attempts := rc.Attempts
	// retry-go treats zero attempts as "retry forever"
	if attempts == 0 {
		attempts = defaultAttempts
	}

	opts := []retry.Option{
		retry.Attempts(attempts),
		retry.Delay(rc.Delay),
		retry.MaxDelay(rc.MaxDelay),
	}

	if rc.Jitter > 0 {
		opts = append(opts,
			retry.MaxJitter(rc.Jitter),
			retry.DelayType(retry.CombineDelay(retry.BackOffDelay, retry.RandomDelay)),
		)
	} else {
		opts = append(opts, retry.DelayType(retry.BackOffDelay))
	}

	return opts
}
