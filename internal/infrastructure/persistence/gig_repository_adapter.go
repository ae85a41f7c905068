package persistence

import (
	"context"
	"database/sql"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/ignatzorin/gig-marketplace/internal/domain/entity"
	"github.com/ignatzorin/gig-marketplace/internal/domain/repository"
	"github.com/ignatzorin/gig-marketplace/internal/domain/valueobject"
	"github.com/ignatzorin/gig-marketplace/internal/pkg/apperror"
)

type gigRow struct {
	ID          uuid.UUID      `db:"id"`
	OwnerID     uuid.UUID      `db:"owner_id"`
	Title       string         `db:"title"`
	Description string         `db:"description"`
	Budget      float64        `db:"budget"`
	Status      string         `db:"status"`
	CreatedAt   time.Time      `db:"created_at"`
	UpdatedAt   time.Time      `db:"updated_at"`
	OwnerName   sql.NullString `db:"owner_name"`
	OwnerEmail  sql.NullString `db:"owner_email"`
}

// toEntity отвергает строку с неизвестным статусом.
func (r gigRow) toEntity() (*entity.Gig, error) {
	status, err := valueobject.NewGigStatus(r.Status)
	if err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "в базе заказ с некорректным статусом")
	}

	gig := &entity.Gig{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		Title:       r.Title,
		Description: r.Description,
		Budget:      r.Budget,
		Status:      status,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
	if r.OwnerName.Valid {
		gig.Owner = &entity.UserSummary{ID: r.OwnerID, Name: r.OwnerName.String, Email: r.OwnerEmail.String}
	}
	return gig, nil
}

const gigSelectWithOwner = `
	SELECT g.id, g.owner_id, g.title, g.description, g.budget, g.status, g.created_at, g.updated_at,
	       u.name AS owner_name, u.email AS owner_email
	FROM gigs g
	JOIN users u ON u.id = g.owner_id
`

type GigRepositoryAdapter struct {
	db dbtx
}

func NewGigRepositoryAdapter(db dbtx) *GigRepositoryAdapter {
	return &GigRepositoryAdapter{db: db}
}

func (r *GigRepositoryAdapter) Create(ctx context.Context, gig *entity.Gig) error {
	query := `
		INSERT INTO gigs (id, owner_id, title, description, budget, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.db.ExecContext(ctx, query,
		gig.ID,
		gig.OwnerID,
		gig.Title,
		gig.Description,
		gig.Budget,
		string(gig.Status),
		gig.CreatedAt,
		gig.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return apperror.ErrUserNotFound
		}
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось создать заказ")
	}
	return nil
}

func (r *GigRepositoryAdapter) FindByID(ctx context.Context, id uuid.UUID) (*entity.Gig, error) {
	var row gigRow
	if err := r.db.GetContext(ctx, &row, gigSelectWithOwner+` WHERE g.id = $1`, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить заказ")
	}
	return row.toEntity()
}

func (r *GigRepositoryAdapter) FindByOwnerID(ctx context.Context, ownerID uuid.UUID) ([]*entity.Gig, error) {
	query := gigSelectWithOwner + ` WHERE g.owner_id = $1 ORDER BY g.created_at DESC, g.id DESC`
	return r.selectGigs(ctx, query, ownerID)
}

// ListOpen возвращает открытые заказы, новые первыми.
// Слова поиска сравниваются через ILIKE ANY, спецсимволы шаблона экранируются.
func (r *GigRepositoryAdapter) ListOpen(ctx context.Context, filter repository.GigFilter) ([]*entity.Gig, error) {
	query := gigSelectWithOwner + ` WHERE g.status = $1`
	args := []interface{}{string(valueobject.GigStatusOpen)}

	if len(filter.Terms) > 0 {
		query += ` AND (g.title ILIKE ANY($2) OR g.description ILIKE ANY($2))`
		args = append(args, pq.Array(likePatterns(filter.Terms)))
	}
	query += ` ORDER BY g.created_at DESC, g.id DESC`

	return r.selectGigs(ctx, query, args...)
}

func (r *GigRepositoryAdapter) selectGigs(ctx context.Context, query string, args ...interface{}) ([]*entity.Gig, error) {
	var rows []gigRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось получить список заказов")
	}

	gigs := make([]*entity.Gig, 0, len(rows))
	for _, row := range rows {
		gig, err := row.toEntity()
		if err != nil {
			return nil, err
		}
		gigs = append(gigs, gig)
	}
	return gigs, nil
}

func (r *GigRepositoryAdapter) Lock(ctx context.Context, id uuid.UUID, mode repository.LockMode) (*entity.Gig, error) {
	clause := "FOR SHARE"
	if mode == repository.LockUpdate {
		clause = "FOR UPDATE"
	}

	query := `
		SELECT id, owner_id, title, description, budget, status, created_at, updated_at
		FROM gigs
		WHERE id = $1
	` + clause

	var row gigRow
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, apperror.ErrGigNotFound
		}
		return nil, apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось заблокировать заказ")
	}
	return row.toEntity()
}

func (r *GigRepositoryAdapter) UpdateStatus(ctx context.Context, gig *entity.Gig, from valueobject.GigStatus) error {
	query := `UPDATE gigs SET status = $2, updated_at = $3 WHERE id = $1 AND status = $4`

	result, err := r.db.ExecContext(ctx, query, gig.ID, string(gig.Status), gig.UpdatedAt, string(from))
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось обновить статус заказа")
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperror.Wrap(err, apperror.ErrCodeDatabaseError, "не удалось проверить результат обновления")
	}
	if rows == 0 {
		return apperror.ErrGigNotOpen
	}
	return nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func likePatterns(terms []string) []string {
	patterns := make([]string, 0, len(terms))
	for _, term := range terms {
		patterns = append(patterns, "%"+likeEscaper.Replace(term)+"%")
	}
	return patterns
}
