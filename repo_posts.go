package gatekit

import (
	"context"
	"time"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Posts interface {
	repository.Repository[*Post]

	FindByID(ctx context.Context, id uuid.UUID) (*Post, error)
	ListAll(ctx context.Context) ([]*Post, error)

	Create(ctx context.Context, record *Post, criteria ...repository.InsertCriteria) (*Post, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Post, criteria ...repository.InsertCriteria) (*Post, error)

	UpdateFields(ctx context.Context, record *Post) (*Post, error)

	Remove(ctx context.Context, id uuid.UUID) error
	RemoveTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type posts struct {
	repository.Repository[*Post]
	db *bun.DB
}

var _ Posts = (*posts)(nil)

func NewPostsRepository(db *bun.DB) Posts {
	repo := repository.NewRepository[*Post](db, repository.ModelHandlers[*Post]{
		NewRecord: func() *Post { return &Post{} },
		GetID: func(p *Post) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Post, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
	})

	return &posts{
		Repository: repo,
		db:         db,
	}
}

func (a *posts) FindByID(ctx context.Context, id uuid.UUID) (*Post, error) {
	record := &Post{}
	err := a.db.NewSelect().
		Model(record).
		Where("?TableAlias.id = ?", id.String()).
		Limit(1).
		Scan(ctx)

	if err != nil {
		if repository.IsRecordNotFound(err) {
			return nil, repository.NewRecordNotFound().
				WithMetadata(map[string]any{"id": id.String()})
		}
		return nil, err
	}

	return record, nil
}

func (a *posts) ListAll(ctx context.Context) ([]*Post, error) {
	var records []*Post
	err := a.db.NewSelect().
		Model(&records).
		Order("created_at DESC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (a *posts) Create(ctx context.Context, record *Post, criteria ...repository.InsertCriteria) (*Post, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *posts) CreateTx(ctx context.Context, tx bun.IDB, record *Post, criteria ...repository.InsertCriteria) (*Post, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

// UpdateFields persists the mutable columns only; the owner reference is
// immutable after creation.
func (a *posts) UpdateFields(ctx context.Context, record *Post) (*Post, error) {
	now := time.Now()
	record.UpdatedAt = &now

	_, err := a.db.NewUpdate().
		Model(record).
		Column("title", "body", "is_published", "updated_at").
		Where("?TableAlias.id = ?", record.ID.String()).
		Exec(ctx)

	if err != nil {
		return nil, err
	}

	return a.FindByID(ctx, record.ID)
}

func (a *posts) Remove(ctx context.Context, id uuid.UUID) error {
	return a.RemoveTx(ctx, a.db, id)
}

func (a *posts) RemoveTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	res, err := tx.NewDelete().
		Model((*Post)(nil)).
		Where("?TableAlias.id = ?", id.String()).
		Exec(ctx)

	if err != nil {
		return err
	}

	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{"id": id.String()})
	}

	return nil
}
