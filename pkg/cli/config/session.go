package config

import (
	"context"
	"log/slog"
	"time"

	"github.com/cenate-lab/citabot/pkg/domain/interfaces"
	"github.com/cenate-lab/citabot/pkg/repository/memory"
	redisrepo "github.com/cenate-lab/citabot/pkg/repository/redis"
	"github.com/cenate-lab/citabot/pkg/utils/logging"
	"github.com/cenate-lab/citabot/pkg/utils/safe"
	"github.com/m-mizutani/goerr/v2"
	goredis "github.com/redis/go-redis/v9"
	"github.com/urfave/cli/v3"
)

// SessionStore holds CLI flags for the conversational memory backend
type SessionStore struct {
	backend       string
	redisAddr     string
	redisPassword string
	redisDB       int
	ttl           time.Duration
}

// Flags returns CLI flags for session store configuration
func (s *SessionStore) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "session-backend",
			Usage:       "Session store backend (memory or redis)",
			Value:       "memory",
			Sources:     cli.EnvVars("CITABOT_SESSION_BACKEND"),
			Destination: &s.backend,
		},
		&cli.StringFlag{
			Name:        "redis-addr",
			Usage:       "Redis address (required when using redis backend)",
			Sources:     cli.EnvVars("CITABOT_REDIS_ADDR"),
			Destination: &s.redisAddr,
		},
		&cli.StringFlag{
			Name:        "redis-password",
			Usage:       "Redis password",
			Sources:     cli.EnvVars("CITABOT_REDIS_PASSWORD"),
			Destination: &s.redisPassword,
		},
		&cli.IntFlag{
			Name:        "redis-db",
			Usage:       "Redis database number",
			Sources:     cli.EnvVars("CITABOT_REDIS_DB"),
			Destination: &s.redisDB,
		},
		&cli.DurationFlag{
			Name:        "session-ttl",
			Usage:       "Idle session lifetime",
			Value:       30 * time.Minute,
			Sources:     cli.EnvVars("CITABOT_SESSION_TTL"),
			Destination: &s.ttl,
		},
	}
}

// TTL returns the configured idle session lifetime
func (s *SessionStore) TTL() time.Duration {
	return s.ttl
}

// LogAttrs returns log attributes for the session store configuration
func (s *SessionStore) LogAttrs() []slog.Attr {
	return []slog.Attr{
		slog.String("backend", s.backend),
		slog.String("redis_addr", s.redisAddr),
		slog.Duration("ttl", s.ttl),
	}
}

// Configure initializes the session store. The returned closer releases
// the Redis connection when that backend is selected.
func (s *SessionStore) Configure(ctx context.Context) (interfaces.SessionStore, func(), error) {
	switch s.backend {
	case "redis":
		if s.redisAddr == "" {
			return nil, nil, goerr.New("redis-addr is required when using redis backend")
		}
		client := goredis.NewClient(&goredis.Options{
			Addr:     s.redisAddr,
			Password: s.redisPassword,
			DB:       s.redisDB,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, nil, goerr.Wrap(err, "failed to connect to redis",
				goerr.V("addr", s.redisAddr),
			)
		}
		logging.Default().Info("Using Redis session store", "addr", s.redisAddr)
		closer := func() {
			safe.Close(ctx, client)
		}
		return redisrepo.NewSessionStore(client), closer, nil

	case "memory", "":
		logging.Default().Info("Using in-memory session store")
		return memory.NewSessionStore(s.ttl), func() {}, nil

	default:
		return nil, nil, goerr.New("invalid session backend", goerr.V("backend", s.backend))
	}
}
