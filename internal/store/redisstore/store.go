package redisstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"
)

const vectorTTL = 24 * time.Hour

// Store caches embedding vectors so repeated questions do not burn embedding
// calls. Lookups are best effort: any redis failure is logged and treated as
// a miss.
type Store struct {
	rdb *redis.Client
}

func New(addr, password string, db int) *Store {
	return &Store{
		rdb: redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: password,
			DB:       db,
		}),
	}
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func (s *Store) GetVector(ctx context.Context, text string) ([]float32, bool) {
	val, err := s.rdb.Get(ctx, vectorKey(text)).Result()
	if err != nil {
		if err != redis.Nil {
			log.Printf("redisstore: get vector failed: %v", err)
		}
		return nil, false
	}

	var vec []float32
	if err := json.Unmarshal([]byte(val), &vec); err != nil {
		log.Printf("redisstore: cached vector unreadable, dropping: %v", err)
		_ = s.rdb.Del(ctx, vectorKey(text)).Err()
		return nil, false
	}
	return vec, true
}

func (s *Store) SetVector(ctx context.Context, text string, vector []float32) {
	b, err := json.Marshal(vector)
	if err != nil {
		return
	}
	if err := s.rdb.Set(ctx, vectorKey(text), b, vectorTTL).Err(); err != nil {
		log.Printf("redisstore: set vector failed: %v", err)
	}
}

func vectorKey(text string) string {
	sum := sha256.Sum256([]byte(text))
	return "emb:" + hex.EncodeToString(sum[:])
}
