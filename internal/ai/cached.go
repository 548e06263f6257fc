package ai

import "context"

// VectorCache caches embedding vectors keyed by input text.
// Implemented by store/redisstore; lookups are best effort.
type VectorCache interface {
	GetVector(ctx context.Context, text string) ([]float32, bool)
	SetVector(ctx context.Context, text string, vector []float32)
}

// CachedEmbedder wraps an Embedder with a cache-aside vector cache.
// A nil cache makes it a pass-through.
type CachedEmbedder struct {
	Inner Embedder
	Cache VectorCache
}

func (c *CachedEmbedder) Embed(ctx context.Context, text string) ([]float32, error) {
	if c.Cache != nil {
		if v, ok := c.Cache.GetVector(ctx, text); ok {
			return v, nil
		}
	}
	v, err := c.Inner.Embed(ctx, text)
	if err != nil {
		return nil, err
	}
	if c.Cache != nil {
		c.Cache.SetVector(ctx, text, v)
	}
	return v, nil
}
