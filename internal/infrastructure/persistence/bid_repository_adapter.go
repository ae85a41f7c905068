package persistence

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
)

type bidRow struct {
	ID              uuid.UUID       `db:"id"`
	GigID           uuid.UUID       `db:"gig_id"`
	FreelancerID    uuid.UUID       `db:"freelancer_id"`
	Message         string          `db:"message"`
	BidAmount       float64         `db:"bid_amount"`
	Status          string          `db:"status"`
	CreatedAt       time.Time       `db:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at"`
	FreelancerName  sql.NullString  `db:"freelancer_name"`
	FreelancerEmail sql.NullString  `db:"freelancer_email"`
	GigTitle        sql.NullString  `db:"gig_title"`
	GigBudget       sql.NullFloat64 `db:"gig_budget"`
	GigStatus       sql.NullString  `db:"gig_status"`
}

func (r bidRow) toEntity() (*entity.Bid, error) {
	status, err := valueobject.NewBidStatus(r.Status)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "в базе отклик с некорректным статусом")
	}

	bid := &entity.Bid{
		ID:           r.ID,
		GigID:        r.GigID,
		FreelancerID: r.FreelancerID,
		Message:      r.Message,
		BidAmount:    r.BidAmount,
		Status:       status,
		CreatedAt:    r.CreatedAt,
		UpdatedAt:    r.UpdatedAt,
	}
	if r.FreelancerName.Valid {
		bid.Freelancer = &entity.UserSummary{
			ID:    r.FreelancerID,
			Name:  r.FreelancerName.String,
			Email: r.FreelancerEmail.String,
		}
	}
	if r.GigTitle.Valid {
		bid.Gig = &entity.GigSummary{
			ID:     r.GigID,
			Title:  r.GigTitle.String,
			Budget: r.GigBudget.Float64,
			Status: valueobject.GigStatus(r.GigStatus.String),
		}
	}
	return bid, nil
}

const bidSelectWithFreelancer = `
	SELECT b.id, b.gig_id, b.freelancer_id, b.message, b.bid_amount, b.status, b.created_at, b.updated_at,
	       u.name AS freelancer_name, u.email AS freelancer_email
	FROM bids b
	JOIN users u ON u.id = b.freelancer_id
`

const bidSelectWithGig = `
	SELECT b.id, b.gig_id, b.freelancer_id, b.message, b.bid_amount, b.status, b.created_at, b.updated_at,
	       g.title AS gig_title, g.budget AS gig_budget, g.status AS gig_status
	FROM bids b
	JOIN gigs g ON g.id = b.gig_id
`

type BidRepositoryAdapter struct {
	db dbtx
}

func NewBidRepositoryAdapter(db dbtx) *BidRepositoryAdapter {
	return &BidRepositoryAdapter{db: db}
}

// Create вставляет отклик. Уникальность пары (gig_id, freelancer_id) гарантирует ограничение в БД.
func (r *BidRepositoryAdapter) Create(ctx context.Context, bid *entity.Bid) error {
	query := `
		INSERT INTO bids (id, gig_id, freelancer_id, message, bid_amount, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		bid.ID,
		bid.GigID,
		bid.FreelancerID,
		bid.Message,
		bid.BidAmount,
		string(bid.Status),
		bid.CreatedAt,
		bid.UpdatedAt,
	)
	switch {
	case err == nil:
		return nil
	case isUniqueViolation(err):
		return apperror.ErrDuplicateBid
	case isForeignKeyViolation(err):
		return apperror.ErrGigNotFound
	default:
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать отклик")
	}
}

func (r *BidRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Bid, error) {
	var row bidRow
	if err := r.db.GetContext(ctx, &row, bidSelectWithFreelancer+` WHERE b.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrBidNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить отклик")
	}
	return row.toEntity()
}

func (r *BidRepositoryAdapter) FindByGigID(ctx context.Context, gigID uuid.UUID) ([]*entity.Bid, error) {
	query := bidSelectWithFreelancer + ` WHERE b.gig_id = $1 ORDER BY b.created_at DESC, b.id DESC`
	return r.selectBids(ctx, query, gigID)
}

func (r *BidRepositoryAdapter) FindByFreelancerID(ctx context.Context, freelancerID uuid.UUID) ([]*entity.Bid, error) {
	query := bidSelectWithGig + ` WHERE b.freelancer_id = $1 ORDER BY b.created_at DESC, b.id DESC`
	return r.selectBids(ctx, query, freelancerID)
}

func (r *BidRepositoryAdapter) selectBids(ctx context.Context, query string, args ...interface{}) ([]*entity.Bid, error) {
	var rows []bidRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить список откликов")
	}

	bids := make([]*entity.Bid, 0, len(rows))
	for _, row := range rows {
		bid, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		bids = append(bids, bid)
	}
	return bids, nil
}

func (r *BidRepositoryAdapter) UpdateStatus(ctx context.Context, bid *entity.Bid) error {
	query := `UPDATE bids SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, bid.ID, string(bid.Status), bid.UpdatedAt)
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить статус отклика")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить результат обновления")
	}
	if rows == 0 {
		return apperror.ErrBidNotFound
	}
	return nil
}

func (r *BidRepositoryAdapter) RejectPendingExcept(ctx context.Context, gigID, exceptID uuid.UUID) (int64, error) {
	query := `
		UPDATE bids
		SET status = $1, updated_at = $2
		WHERE gig_id = $3 AND id <> $4 AND status = $5
	`

	result, err := r.db.ExecContext(ctx, query,
		string(valueobject.BidStatusRejected),
		time.Now().UTC(),
		gigID,
		exceptID,
		string(valueobject.BidStatusPending),
	)
	if err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось отклонить остальные отклики")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return 0, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить результат обновления")
	}
	return rows, nil
}
