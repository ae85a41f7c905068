package gig

import (
	"strings"

	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
)

// OpenGigsCache хранит выдачу открытых заказов по поисковому запросу.
// Get отдаёт поколение кэша; Set с поколением, устаревшим после Invalidate, ничего не пишет.
type OpenGigsCache interface {
	Get(key string) ([]*entity.Gig, uint64, bool)
	Set(key string, generation uint64, gigs []*entity.Gig) bool
	Invalidate()
}

type noopCache struct{}

func (noopCache) Get(string) ([]*entity.Gig, uint64, bool) { return nil, 0, false }
func (noopCache) Set(string, uint64, []*entity.Gig) bool   { return false }
func (noopCache) Invalidate()                              {}

func cacheOrNoop(cache OpenGigsCache) OpenGigsCache {
	if cache == nil {
		return noopCache{}
	}
	return cache
}

func cacheKey(terms []string) string {
	return strings.Join(terms, " ")
}
