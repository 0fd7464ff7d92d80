package session

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/repository"
)

// Backend opens the record stores of a new workspace.
type Backend struct {
	Name          string
	NGOs          repository.Factory[domain.NGO]
	AdminProjects repository.Factory[domain.AdminProject]
	NGOProjects   repository.Factory[domain.NGOProject]
}

// MemoryBackend keeps every workspace in process memory.
func MemoryBackend() Backend {
	return Backend{
		Name:          "memory",
		NGOs:          repository.MemoryFactory[domain.NGO](),
		AdminProjects: repository.MemoryFactory[domain.AdminProject](),
		NGOProjects:   repository.MemoryFactory[domain.NGOProject](),
	}
}

// keySlack keeps Redis keys alive a little past the idle TTL, so a
// workspace is always evicted before its records expire.
const keySlack = time.Minute

// RedisBackend keeps workspace records in Redis. Keys expire keySlack after
// the idle TTL measured from the last access.
func RedisBackend(client *redis.Client, idleTTL time.Duration) Backend {
	ttl := idleTTL + keySlack
	return Backend{
		Name:          "redis",
		NGOs:          repository.RedisFactory[domain.NGO](client, ttl),
		AdminProjects: repository.RedisFactory[domain.AdminProject](client, ttl),
		NGOProjects:   repository.RedisFactory[domain.NGOProject](client, ttl),
	}
}

// dropper is implemented by stores that hold external resources.
type dropper interface {
	Drop(ctx context.Context) error
}

// toucher is implemented by stores whose contents expire when unused.
type toucher interface {
	Touch(ctx context.Context) error
}
