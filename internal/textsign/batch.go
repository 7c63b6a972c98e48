package textsign

import (
	"context"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/mrz1836/rcli/internal/crypto"
)

// LoadFunc returns the payload for a source identifier.
type LoadFunc func(ctx context.Context, source string) ([]byte, error)

// SignedSource pairs a source with its text signature.
type SignedSource struct {
	Source    string `json:"source"`
	Signature string `json:"signature"`
}

// SignSources loads and signs every source with at most concurrency calls in
// flight. Results are returned in source order. The key length is checked
// once before any source is read; the first failure cancels the rest.
func SignSources(ctx context.Context, alg crypto.Algorithm, key []byte, sources []string, load LoadFunc, concurrency int) ([]SignedSource, error) {
	scheme, err := SchemeFor(alg)
	if err != nil {
		return nil, err
	}
	if err := crypto.CheckKeyLength(alg, signRole(alg), key, alg.SigningKeySize()); err != nil {
		return nil, err
	}
	if concurrency < 1 {
		concurrency = 1
	}

	logger := zerolog.Ctx(ctx)
	results := make([]SignedSource, len(sources))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i, source := range sources {
		g.Go(func() error {
			payload, err := load(gctx, source)
			if err != nil {
				return err
			}
			sig, err := scheme.Sign(key, payload)
			if err != nil {
				return err
			}
			results[i] = SignedSource{Source: source, Signature: crypto.EncodeSignature(sig)}
			logger.Debug().
				Str("source", source).
				Str("algorithm", alg.String()).
				Int("payload_bytes", len(payload)).
				Msg("source signed")
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
