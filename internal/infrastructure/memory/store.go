package memory

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
)

// Store хранит данные в памяти процесса.
// Пишущие операции и транзакции выполняются строго по одной; транзакция работает с копией
// данных, которая подменяет основную только при успешном коммите.
type Store struct {
	sem  chan struct{}
	mu   sync.RWMutex
	data *dataset
	seq  int64
}

type bidKey struct {
	gigID        uuid.UUID
	freelancerID uuid.UUID
}

type gigRecord struct {
	gig entity.Gig
	seq int64
}

type bidRecord struct {
	bid entity.Bid
	seq int64
}

type dataset struct {
	users    map[uuid.UUID]entity.User
	emails   map[string]uuid.UUID
	gigs     map[uuid.UUID]gigRecord
	bids     map[uuid.UUID]bidRecord
	bidPairs map[bidKey]uuid.UUID
}

// New создаёт пустое хранилище.
func New() *Store {
	return &Store{
		sem: make(chan struct{}, 1),
		data: &dataset{
			users:    make(map[uuid.UUID]entity.User),
			emails:   make(map[string]uuid.UUID),
			gigs:     make(map[uuid.UUID]gigRecord),
			bids:     make(map[uuid.UUID]bidRecord),
			bidPairs: make(map[bidKey]uuid.UUID),
		},
	}
}

var _ repository.Store = (*Store)(nil)

func (s *Store) Gigs() repository.GigRepository   { return gigReader{s} }
func (s *Store) Bids() repository.BidRepository   { return bidReader{s} }
func (s *Store) Users() repository.UserRepository { return userRepo{s} }

// Ping всегда успешен.
func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

// WithinTransaction выполняет fn над копией данных и публикует её при успехе.
func (s *Store) WithinTransaction(ctx context.Context, fn func(ctx context.Context, repos repository.TxRepositories) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	s.mu.RLock()
	work := s.data.clone()
	s.mu.RUnlock()

	if err := fn(ctx, &txRepos{store: s, data: work}); err != nil {
		return err
	}

	if err := ctx.Err(); err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "транзакция отменена")
	}

	s.mu.Lock()
	s.data = work
	s.mu.Unlock()
	return nil
}

func (s *Store) acquire(ctx context.Context) error {
	select {
	case s.sem <- struct{}{}:
		return nil
	case <-ctx.Done():
		return apperror.Wrap(ctx.Err(), apperror.ErrCodeDatabaseError, "не удалось начать транзакцию")
	}
}

func (s *Store) release() {
	<-s.sem
}

// write выполняет одиночную запись вне транзакции.
func (s *Store) write(ctx context.Context, fn func(d *dataset) error) error {
	if err := s.acquire(ctx); err != nil {
		return err
	}
	defer s.release()

	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.data)
}

func (s *Store) read(fn func(d *dataset)) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	fn(s.data)
}

// nextSeq упорядочивает записи с одинаковым created_at.
func (s *Store) nextSeq() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return s.seq
}

func (d *dataset) clone() *dataset {
	c := &dataset{
		users:    make(map[uuid.UUID]entity.User, len(d.users)),
		emails:   make(map[string]uuid.UUID, len(d.emails)),
		gigs:     make(map[uuid.UUID]gigRecord, len(d.gigs)),
		bids:     make(map[uuid.UUID]bidRecord, len(d.bids)),
		bidPairs: make(map[bidKey]uuid.UUID, len(d.bidPairs)),
	}
	for k, v := range d.users {
		c.users[k] = v
	}
	for k, v := range d.emails {
		c.emails[k] = v
	}
	for k, v := range d.gigs {
		c.gigs[k] = v
	}
	for k, v := range d.bids {
		c.bids[k] = v
	}
	for k, v := range d.bidPairs {
		c.bidPairs[k] = v
	}
	return c
}

func (d *dataset) userSummary(id uuid.UUID) *entity.UserSummary {
	u, ok := d.users[id]
	if !ok {
		return nil
	}
	summary := u.Summary()
	return &summary
}

func (d *dataset) gigWithOwner(rec gigRecord) *entity.Gig {
	gig := rec.gig
	gig.Owner = d.userSummary(gig.OwnerID)
	return &gig
}

func (d *dataset) bidWithFreelancer(rec bidRecord) *entity.Bid {
	bid := rec.bid
	bid.Freelancer = d.userSummary(bid.FreelancerID)
	return &bid
}

func (d *dataset) bidWithGig(rec bidRecord) *entity.Bid {
	bid := rec.bid
	if g, ok := d.gigs[bid.GigID]; ok {
		summary := g.gig.Summary()
		bid.Gig = &summary
	}
	return &bid
}

func sortGigs(recs []gigRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].gig.CreatedAt.Equal(recs[j].gig.CreatedAt) {
			return recs[i].gig.CreatedAt.After(recs[j].gig.CreatedAt)
		}
		return recs[i].seq > recs[j].seq
	})
}

func sortBids(recs []bidRecord) {
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].bid.CreatedAt.Equal(recs[j].bid.CreatedAt) {
			return recs[i].bid.CreatedAt.After(recs[j].bid.CreatedAt)
		}
		return recs[i].seq > recs[j].seq
	})
}

func matchesAny(gig entity.Gig, terms []string) bool {
	if len(terms) == 0 {
		return true
	}
	text := strings.ToLower(gig.Title + " " + gig.Description)
	for _, term := range terms {
		if strings.Contains(text, strings.ToLower(term)) {
			return true
		}
	}
	return false
}

type gigReader struct{ s *Store }

func (r gigReader) Create(ctx context.Context, gig *entity.Gig) error {
	seq := r.s.nextSeq()
	return r.s.write(ctx, func(d *dataset) error {
		if _, ok := d.users[gig.OwnerID]; !ok {
			return apperror.ErrUserNotFound
		}
		stored := *gig
		stored.Owner = nil
		d.gigs[gig.ID] = gigRecord{gig: stored, seq: seq}
		return nil
	})
}

func (r gigReader) FindByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	var (
		gig *entity.Gig
		err error = apperror.ErrGigNotFound
	)
	r.s.read(func(d *dataset) {
		if rec, ok := d.gigs[id]; ok {
			gig, err = d.gigWithOwner(rec), nil
		}
	})
	return gig, err
}

func (r gigReader) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entity.Gig, error) {
	return r.list(func(g entity.Gig) bool { return g.OwnerID == ownerID }), nil
}

func (r gigReader) ListOpen(ctx context.Context, filter repository.GigFilter) ([]*entity.Gig, error) {
	return r.list(func(g entity.Gig) bool {
		return g.Status == valueobject.GigStatusOpen && matchesAny(g, filter.Terms)
	}), nil
}

func (r gigReader) list(keep func(entity.Gig) bool) []*entity.Gig {
	result := make([]*entity.Gig, 0)
	r.s.read(func(d *dataset) {
		recs := make([]gigRecord, 0, len(d.gigs))
		for _, rec := range d.gigs {
			if keep(rec.gig) {
				recs = append(recs, rec)
			}
		}
		sortGigs(recs)
		for _, rec := range recs {
			result = append(result, d.gigWithOwner(rec))
		}
	})
	return result
}

type bidReader struct{ s *Store }

func (r bidReader) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	var (
		bid *entity.Bid
		err error = apperror.ErrBidNotFound
	)
	r.s.read(func(d *dataset) {
		if rec, ok := d.bids[id]; ok {
			bid, err = d.bidWithFreelancer(rec), nil
		}
	})
	return bid, err
}

func (r bidReader) FindByGigID(ctx context.Context, gigID uuid.UUID) ([]*entity.Bid, error) {
	result := make([]*entity.Bid, 0)
	r.s.read(func(d *dataset) {
		for _, rec := range collectBids(d, func(b entity.Bid) bool { return b.GigID == gigID }) {
			result = append(result, d.bidWithFreelancer(rec))
		}
	})
	return result, nil
}

func (r bidReader) FindByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*entity.Bid, error) {
	result := make([]*entity.Bid, 0)
	r.s.read(func(d *dataset) {
		for _, rec := range collectBids(d, func(b entity.Bid) bool { return b.FreelancerID == freelancerID }) {
			result = append(result, d.bidWithGig(rec))
		}
	})
	return result, nil
}

func collectBids(d *dataset, keep func(entity.Bid) bool) []bidRecord {
	recs := make([]bidRecord, 0)
	for _, rec := range d.bids {
		if keep(rec.bid) {
			recs = append(recs, rec)
		}
	}
	sortBids(recs)
	return recs
}

type userRepo struct{ s *Store }

func (r userRepo) Create(ctx context.Context, user *entity.User) error {
	return r.s.write(ctx, func(d *dataset) error {
		email := strings.ToLower(user.Email)
		if _, taken := d.emails[email]; taken {
			return apperror.ErrEmailTaken
		}
		d.users[user.ID] = *user
		d.emails[email] = user.ID
		return nil
	})
}

func (r userRepo) FindByID(ctx context.Context, id uuid.UUID) (*entity.User, error) {
	var (
		user *entity.User
		err  error = apperror.ErrUserNotFound
	)
	r.s.read(func(d *dataset) {
		if u, ok := d.users[id]; ok {
			user, err = &u, nil
		}
	})
	return user, err
}

func (r userRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	var (
		user *entity.User
		err  error = apperror.ErrUserNotFound
	)
	r.s.read(func(d *dataset) {
		if id, ok := d.emails[strings.ToLower(strings.TrimSpace(email))]; ok {
			u := d.users[id]
			user, err = &u, nil
		}
	})
	return user, err
}

// txRepos работают с рабочей копией данных; блокировки не нужны, транзакция одна.
type txRepos struct {
	store *Store
	data  *dataset
}

func (t *txRepos) Gigs() repository.GigTxRepository { return gigTx{t} }
func (t *txRepos) Bids() repository.BidTxRepository { return bidTx{t} }

type gigTx struct{ t *txRepos }

func (g gigTx) Lock(ctx context.Context, id uuid.UUID, mode repository.LockMode) (*entity.Gig, error) {
	rec, ok := g.t.data.gigs[id]
	if !ok {
		return nil, apperror.ErrGigNotFound
	}
	gig := rec.gig
	return &gig, nil
}

func (g gigTx) UpdateStatus(ctx context.Context, gig *entity.Gig, from valueobject.GigStatus) error {
	rec, ok := g.t.data.gigs[gig.ID]
	if !ok {
		return apperror.ErrGigNotFound
	}
	if rec.gig.Status != from {
		return apperror.ErrGigNotOpen
	}
	rec.gig.Status = gig.Status
	rec.gig.UpdatedAt = gig.UpdatedAt
	g.t.data.gigs[gig.ID] = rec
	return nil
}

type bidTx struct{ t *txRepos }

func (b bidTx) Create(ctx context.Context, bid *entity.Bid) error {
	d := b.t.data
	if _, ok := d.gigs[bid.GigID]; !ok {
		return apperror.ErrGigNotFound
	}
	key := bidKey{gigID: bid.GigID, freelancerID: bid.FreelancerID}
	if _, exists := d.bidPairs[key]; exists {
		return apperror.ErrDuplicateBid
	}

	stored := *bid
	stored.Freelancer = nil
	stored.Gig = nil
	d.bids[bid.ID] = bidRecord{bid: stored, seq: b.t.store.nextSeq()}
	d.bidPairs[key] = bid.ID
	return nil
}

func (b bidTx) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	rec, ok := b.t.data.bids[id]
	if !ok {
		return nil, apperror.ErrBidNotFound
	}
	return b.t.data.bidWithFreelancer(rec), nil
}

func (b bidTx) UpdateStatus(ctx context.Context, bid *entity.Bid) error {
	rec, ok := b.t.data.bids[bid.ID]
	if !ok {
		return apperror.ErrBidNotFound
	}
	rec.bid.Status = bid.Status
	rec.bid.UpdatedAt = bid.UpdatedAt
	b.t.data.bids[bid.ID] = rec
	return nil
}

func (b bidTx) RejectPendingExcept(ctx context.Context, gigID, exceptID uuid.UUID) (int64, error) {
	var rejected int64
	for id, rec := range b.t.data.bids {
		if rec.bid.GigID != gigID || id == exceptID || !rec.bid.IsPending() {
			continue
		}
		if err := rec.bid.Reject(); err != nil {
			return rejected, err
		}
		b.t.data.bids[id] = rec
		rejected++
	}
	return rejected, nil
}
