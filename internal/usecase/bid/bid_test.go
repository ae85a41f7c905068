package bid_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/infrastructure/memory"
	"github.com/ignatzorin/gig-marketplace/internal/logger"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/bid"
	"github.com/ignatzorin/gig-marketplace/internal/usecase/hire"
)

func init() {
	logger.Discard()
}

func newUser(t *testing.T, store *memory.Store, email string, role valueobject.Role) entity.Identity {
	t.Helper()
	u, err := entity.NewUser("Пользователь", email, "hash", role)
	require.NoError(t, err)
	require.NoError(t, store.Users().Create(context.Background(), u))
	return u.Identity()
}

func newGig(t *testing.T, store *memory.Store, owner entity.Identity) *entity.Gig {
	t.Helper()
	g, err := entity.NewGig(owner.UserID, "Лендинг", "Нужен лендинг", 500)
	require.NoError(t, err)
	require.NoError(t, store.Gigs().Create(context.Background(), g))
	return g
}

func TestSubmitBid_Success(t *testing.T) {
	store := memory.New()
	client := newUser(t, store, "client@example.com", valueobject.RoleClient)
	freelancer := newUser(t, store, "f1@example.com", valueobject.RoleFreelancer)
	g := newGig(t, store, client)

	b, err := bid.NewSubmitBidUseCase(store).Execute(context.Background(), freelancer, bid.SubmitBidInput{
		GigID:     g.ID,
		Message:   "  Сделаю быстро  ",
		BidAmount: 400,
	})

	require.NoError(t, err)
	assert.Equal(t, valueobject.BidStatusPending, b.Status)
	assert.Equal(t, "Сделаю быстро", b.Message)
	assert.Equal(t, freelancer.UserID, b.FreelancerID)
}

func TestSubmitBid_Errors(t *testing.T) {
	store := memory.New()
	client := newUser(t, store, "client@example.com", valueobject.RoleClient)
	freelancer := newUser(t, store, "f1@example.com", valueobject.RoleFreelancer)
	g := newGig(t, store, client)
	uc := bid.NewSubmitBidUseCase(store)

	tests := []struct {
		name     string
		identity entity.Identity
		input    bid.SubmitBidInput
		code     apperror.ErrorCode
	}{
		{
			name:     "заказчик не может откликаться",
			identity: client,
			input:    bid.SubmitBidInput{GigID: g.ID, Message: "хочу", BidAmount: 1},
			code:     apperror.ErrCodeForbidden,
		},
		{
			name:     "пустое сообщение",
			identity: freelancer,
			input:    bid.SubmitBidInput{GigID: g.ID, Message: "   ", BidAmount: 1},
			code:     apperror.ErrCodeValidation,
		},
		{
			name:     "отрицательная сумма",
			identity: freelancer,
			input:    bid.SubmitBidInput{GigID: g.ID, Message: "хочу", BidAmount: -1},
			code:     apperror.ErrCodeValidation,
		},
		{
			name:     "заказ не найден",
			identity: freelancer,
			input:    bid.SubmitBidInput{GigID: uuid.New(), Message: "хочу", BidAmount: 1},
			code:     apperror.ErrCodeNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.identity, tt.input)
			assert.Equal(t, tt.code, apperror.CodeOf(err))
		})
	}
}

func TestSubmitBid_OwnGigIsForbidden(t *testing.T) {
	store := memory.New()
	freelancer := newUser(t, store, "f1@example.com", valueobject.RoleFreelancer)
	// заказ, созданный напрямую через хранилище от имени фрилансера
	g := newGig(t, store, freelancer)

	_, err := bid.NewSubmitBidUseCase(store).Execute(context.Background(), freelancer, bid.SubmitBidInput{
		GigID: g.ID, Message: "сам себе", BidAmount: 1,
	})

	assert.ErrorIs(t, err, apperror.ErrOwnGig)
}

func TestSubmitBid_DuplicateIsConflictRegardlessOfContent(t *testing.T) {
	store := memory.New()
	client := newUser(t, store, "client@example.com", valueobject.RoleClient)
	freelancer := newUser(t, store, "f1@example.com", valueobject.RoleFreelancer)
	g := newGig(t, store, client)
	uc := bid.NewSubmitBidUseCase(store)

	_, err := uc.Execute(context.Background(), freelancer, bid.SubmitBidInput{GigID: g.ID, Message: "первый", BidAmount: 100})
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), freelancer, bid.SubmitBidInput{GigID: g.ID, Message: "второй", BidAmount: 999})
	assert.True(t, apperror.IsConflict(err))

	bids, err := store.Bids().FindByGigID(context.Background(), g.ID)
	require.NoError(t, err)
	assert.Len(t, bids, 1)
}

func TestSubmitBid_AssignedGigIsClosed(t *testing.T) {
	store := memory.New()
	client := newUser(t, store, "client@example.com", valueobject.RoleClient)
	f1 := newUser(t, store, "f1@example.com", valueobject.RoleFreelancer)
	f2 := newUser(t, store, "f2@example.com", valueobject.RoleFreelancer)
	g := newGig(t, store, client)
	uc := bid.NewSubmitBidUseCase(store)

	b1, err := uc.Execute(context.Background(), f1, bid.SubmitBidInput{GigID: g.ID, Message: "первый", BidAmount: 100})
	require.NoError(t, err)
	_, err = hire.NewHireUseCase(store, 0, nil).Execute(context.Background(), client, b1.ID)
	require.NoError(t, err)

	_, err = uc.Execute(context.Background(), f2, bid.SubmitBidInput{GigID: g.ID, Message: "поздно", BidAmount: 100})
	assert.ErrorIs(t, err, apperror.ErrGigClosedForBids)
}

func TestListBidsForGig(t *testing.T) {
	store := memory.New()
	client := newUser(t, store, "client@example.com", valueobject.RoleClient)
	f1 := newUser(t, store, "f1@example.com", valueobject.RoleFreelancer)
	f2 := newUser(t, store, "f2@example.com", valueobject.RoleFreelancer)
	g := newGig(t, store, client)
	submit := bid.NewSubmitBidUseCase(store)

	first, err := submit.Execute(context.Background(), f1, bid.SubmitBidInput{GigID: g.ID, Message: "первый", BidAmount: 100})
	require.NoError(t, err)
	second, err := submit.Execute(context.Background(), f2, bid.SubmitBidInput{GigID: g.ID, Message: "второй", BidAmount: 200})
	require.NoError(t, err)

	uc := bid.NewListBidsForGigUseCase(store.Gigs(), store.Bids())

	bids, err := uc.Execute(context.Background(), client, g.ID)
	require.NoError(t, err)
	require.Len(t, bids, 2)
	assert.Equal(t, second.ID, bids[0].ID)
	assert.Equal(t, first.ID, bids[1].ID)
	require.NotNil(t, bids[0].Freelancer)
	assert.Equal(t, "f2@example.com", bids[0].Freelancer.Email)

	_, err = uc.Execute(context.Background(), f1, g.ID)
	assert.True(t, apperror.IsForbidden(err))

	_, err = uc.Execute(context.Background(), client, uuid.New())
	assert.True(t, apperror.IsNotFound(err))
}

func TestListBidsForFreelancer(t *testing.T) {
	store := memory.New()
	client := newUser(t, store, "client@example.com", valueobject.RoleClient)
	f1 := newUser(t, store, "f1@example.com", valueobject.RoleFreelancer)
	g1 := newGig(t, store, client)
	g2 := newGig(t, store, client)
	submit := bid.NewSubmitBidUseCase(store)

	_, err := submit.Execute(context.Background(), f1, bid.SubmitBidInput{GigID: g1.ID, Message: "первый", BidAmount: 100})
	require.NoError(t, err)
	_, err = submit.Execute(context.Background(), f1, bid.SubmitBidInput{GigID: g2.ID, Message: "второй", BidAmount: 100})
	require.NoError(t, err)

	bids, err := bid.NewListBidsForFreelancerUseCase(store.Bids()).Execute(context.Background(), f1)
	require.NoError(t, err)
	require.Len(t, bids, 2)
	assert.Equal(t, g2.ID, bids[0].GigID)
	require.NotNil(t, bids[0].Gig)
	assert.Equal(t, valueobject.GigStatusOpen, bids[0].Gig.Status)
}
