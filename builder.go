package authgate

import (
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/kardia-labs/authgate/internal/rate"
	"github.com/kardia-labs/authgate/provider"
)

// Builder assembles an Engine. Zero or more With* calls, then Build once.
type Builder struct {
	config    Config
	provider  provider.Identity
	redis     redis.UniversalClient
	logger    Logger
	auditSink AuditSink

	built bool
}

// New returns a Builder seeded with DefaultConfig.
func New() *Builder {
	return &Builder{config: DefaultConfig()}
}

// WithConfig replaces the builder's configuration.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cfg
	return b
}

// WithProvider sets the identity provider the engine orchestrates.
// Required.
func (b *Builder) WithProvider(p provider.Identity) *Builder {
	b.provider = p
	return b
}

// WithRedis backs the rate limiter with Redis so replicas share one budget
// per identifier. Without it the limiter uses an in-process store.
func (b *Builder) WithRedis(client redis.UniversalClient) *Builder {
	b.redis = client
	return b
}

// WithLogger sets the structured log sink. Defaults to a JSON logger on
// stderr.
func (b *Builder) WithLogger(l Logger) *Builder {
	b.logger = l
	return b
}

// WithAuditSink sets the audit event sink, used only when auditing is
// enabled in the configuration.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// Build validates the configuration and assembles the Engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, ErrBuilderReused
	}
	b.built = true

	if err := b.config.Validate(); err != nil {
		return nil, err
	}
	if b.provider == nil {
		return nil, ErrProviderRequired
	}

	var store rate.Store
	if b.redis != nil {
		store = rate.NewRedisStore(b.redis)
	} else {
		store = rate.NewMemoryStore()
	}

	logger := b.logger
	if logger == nil {
		logger = NewJSONLogger(os.Stderr)
	}

	e := &Engine{
		config:   b.config,
		limiter:  rate.NewLimiter(store),
		provider: b.provider,
		logger:   logger,
		audit:    newAuditDispatcher(b.config.Audit, b.auditSink),
		now:      time.Now,
	}
	e.buildStatics()

	return e, nil
}
