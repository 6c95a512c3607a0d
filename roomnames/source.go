package roomnames

import (
	"context"
	"strings"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"
)

// Fallback is returned when no word can be produced
const Fallback = "RoomX"

// WordLength is the length of every room name
const WordLength = 5

// DefaultLowWater is the cache size below which TopUp refills
const DefaultLowWater = 20

// Source hands out capitalized five letter room names, each at most once
type Source struct {
	cache    Cache
	fetcher  Fetcher
	lowWater int64
	group    singleflight.Group
}

// NewSource creates a new room-name source
func NewSource(cache Cache, fetcher Fetcher) *Source {
	return &Source{
		cache:    cache,
		fetcher:  fetcher,
		lowWater: DefaultLowWater,
	}
}

// UniqueWord returns an unused room name, refilling the cache if it is empty.
// It returns Fallback when the cache stays empty.
func (s *Source) UniqueWord(ctx context.Context) string {
	word, ok, err := s.cache.Pop(ctx)
	if err != nil {
		log.WithError(err).Warn("Failed to read room name cache")
	}
	if !ok {
		if err := s.Refill(ctx); err != nil {
			log.WithError(err).Warn("Failed to refill room names")
		}
		word, ok, err = s.cache.Pop(ctx)
		if err != nil || !ok {
			return Fallback
		}
	}

	if err := s.cache.MarkUsed(ctx, word); err != nil {
		log.WithError(err).WithField("word", word).Warn("Failed to mark room name used")
	}
	return capitalize(word)
}

// Refill fetches words and caches the usable ones. Concurrent callers share
// one fetch.
func (s *Source) Refill(ctx context.Context) error {
	_, err, shared := s.group.Do("refill", func() (interface{}, error) {
		raw, err := s.fetcher.Fetch(ctx)
		if err != nil {
			return nil, err
		}
		words := Filter(raw)
		if err := s.cache.Add(ctx, words...); err != nil {
			return nil, err
		}
		log.WithFields(log.Fields{
			"fetched": len(raw),
			"usable":  len(words),
		}).Info("Refilled room names")
		return nil, nil
	})
	if shared {
		log.Debug("Joined in-flight room name refill")
	}
	return err
}

// TopUp refills when the cache has fallen below the low-water mark
func (s *Source) TopUp(ctx context.Context) error {
	n, err := s.cache.Len(ctx)
	if err != nil {
		return err
	}
	if n >= s.lowWater {
		return nil
	}
	return s.Refill(ctx)
}

// Filter keeps lower-cased five letter alphabetic words
func Filter(words []string) []string {
	out := make([]string, 0, len(words))
	for _, w := range words {
		w = strings.ToLower(strings.TrimSpace(w))
		if len(w) != WordLength || !isAlpha(w) {
			continue
		}
		out = append(out, w)
	}
	return out
}

func isAlpha(s string) bool {
	for _, r := range s {
		if r < 'a' || r > 'z' {
			return false
		}
	}
	return true
}

func capitalize(w string) string {
	if w == "" {
		return w
	}
	return strings.ToUpper(w[:1]) + strings.ToLower(w[1:])
}
