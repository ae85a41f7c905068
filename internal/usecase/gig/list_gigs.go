package gig

import (
	"context"

	"github.com/google/uuid"
	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/gig-marketplace/internal/validation"
)

type ListOpenGigsUseCase struct {
	gigRepo repository.GigRepository
	cache   OpenGigsCache
}

func NewListOpenGigsUseCase(gigRepo repository.GigRepository, cache OpenGigsCache) *ListOpenGigsUseCase {
	return &ListOpenGigsUseCase{gigRepo: gigRepo, cache: cacheOrNoop(cache)}
}

// Execute возвращает открытые заказы, новые первыми.
// Поиск совпадает, если любое слово запроса встречается в названии или описании.
func (uc *ListOpenGigsUseCase) Execute(ctx context.Context, search string) ([]*entity.Gig, error) {
	terms := validation.SearchTerms(search)
	key := cacheKey(terms)

	gigs, generation, ok := uc.cache.Get(key)
	if ok {
		return gigs, nil
	}

	gigs, err := uc.gigRepo.ListOpen(ctx, repository.GigFilter{Terms: terms})
	if err != nil {
		return nil, err
	}
	uc.cache.Set(key, generation, gigs)

	return gigs, nil
}

type ListMyGigsUseCase struct {
	gigRepo repository.GigRepository
}

func NewListMyGigsUseCase(gigRepo repository.GigRepository) *ListMyGigsUseCase {
	return &ListMyGigsUseCase{gigRepo: gigRepo}
}

func (uc *ListMyGigsUseCase) Execute(ctx context.Context, identity entity.Identity) ([]*entity.Gig, error) {
	if identity.UserID == uuid.Nil {
		return nil, apperror.ErrUnauthorized
	}
	return uc.gigRepo.FindByOwnerID(ctx, identity.UserID)
}
