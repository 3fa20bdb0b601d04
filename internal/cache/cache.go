package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// ===============================
// Cache de catálogo (Redis)
// ===============================

// Catalog guarda respostas de catálogo público por tenant. Toda operação é
// nil-safe: sem REDIS_URL o cache vira no-op e a API segue direto no banco.
type Catalog struct {
	client *redis.Client
	ttl    time.Duration
}

const DefaultTTL = 5 * time.Minute

// New conecta no Redis; url vazia retorna um cache desabilitado (não nil,
// mas inerte).
func New(url string) *Catalog {
	if url == "" {
		return &Catalog{}
	}

	opt, err := redis.ParseURL(url)
	if err != nil {
		log.Println("cache: REDIS_URL inválida, cache desabilitado:", err)
		return &Catalog{}
	}

	return &Catalog{
		client: redis.NewClient(opt),
		ttl:    DefaultTTL,
	}
}

func (c *Catalog) Enabled() bool {
	return c != nil && c.client != nil
}

func catalogKey(businessID uint) string {
	return fmt.Sprintf("catalog:%d", businessID)
}

// GetCatalog desserializa em dest; retorna false em miss ou erro
// (erro de cache nunca derruba a requisição).
func (c *Catalog) GetCatalog(ctx context.Context, businessID uint, dest any) bool {
	if !c.Enabled() {
		return false
	}

	raw, err := c.client.Get(ctx, catalogKey(businessID)).Result()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			log.Println("cache: get:", err)
		}
		return false
	}

	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		log.Println("cache: unmarshal:", err)
		return false
	}
	return true
}

func (c *Catalog) SetCatalog(ctx context.Context, businessID uint, value any) {
	if !c.Enabled() {
		return
	}

	raw, err := json.Marshal(value)
	if err != nil {
		return
	}

	if err := c.client.Set(ctx, catalogKey(businessID), raw, c.ttl).Err(); err != nil {
		log.Println("cache: set:", err)
	}
}

// Invalidate derruba o catálogo do tenant (chamado em escritas de
// serviço/tier/categoria).
func (c *Catalog) Invalidate(ctx context.Context, businessID uint) {
	if !c.Enabled() {
		return
	}

	if err := c.client.Del(ctx, catalogKey(businessID)).Err(); err != nil {
		log.Println("cache: del:", err)
	}
}
