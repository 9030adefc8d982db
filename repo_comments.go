package gatekit

import (
	"context"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type Comments interface {
	repository.Repository[*Comment]

	FindByID(ctx context.Context, id uuid.UUID) (*Comment, error)
	ListAll(ctx context.Context) ([]*Comment, error)
	ListByPost(ctx context.Context, postID uuid.UUID) ([]*Comment, error)

	Create(ctx context.Context, record *Comment, criteria ...repository.InsertCriteria) (*Comment, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Comment, criteria ...repository.InsertCriteria) (*Comment, error)

	UpdateBody(ctx context.Context, id uuid.UUID, body string) (*Comment, error)

	Remove(ctx context.Context, id uuid.UUID) error
	RemoveTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type comments struct {
	repository.Repository[*Comment]
	db *bun.DB
}

var _ Comments = (*comments)(nil)

func NewCommentsRepository(db *bun.DB) Comments {
	repo := repository.NewRepository[*Comment](db, repository.ModelHandlers[*Comment]{
		NewRecord: func() *Comment { return &Comment{} },
		GetID: func(c *Comment) uuid.UUID {
			if c == nil {
				return uuid.Nil
			}
			return c.ID
		},
		SetID: func(c *Comment, id uuid.UUID) {
			if c != nil {
				c.ID = id
			}
		},
	})

	return &comments{
		Repository: repo,
		db:         db,
	}
}

func (a *comments) FindByID(ctx context.Context, id uuid.UUID) (*Comment, error) {
	record := &Comment{}
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

func (a *comments) ListAll(ctx context.Context) ([]*Comment, error) {
	var records []*Comment
	err := a.db.NewSelect().
		Model(&records).
		Order("created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (a *comments) ListByPost(ctx context.Context, postID uuid.UUID) ([]*Comment, error) {
	var records []*Comment
	err := a.db.NewSelect().
		Model(&records).
		Where("?TableAlias.post_id = ?", postID.String()).
		Order("created_at ASC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

func (a *comments) Create(ctx context.Context, record *Comment, criteria ...repository.InsertCriteria) (*Comment, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *comments) CreateTx(ctx context.Context, tx bun.IDB, record *Comment, criteria ...repository.InsertCriteria) (*Comment, error) {
	if record != nil && record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

// UpdateBody is the only authorized mutation on a comment; owner and parent
// post references never change.
func (a *comments) UpdateBody(ctx context.Context, id uuid.UUID, body string) (*Comment, error) {
	_, err := a.db.NewUpdate().
		Model((*Comment)(nil)).
		Set("body = ?", body).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("?TableAlias.id = ?", id.String()).
		Exec(ctx)

	if err != nil {
		return nil, err
	}

	return a.FindByID(ctx, id)
}

func (a *comments) Remove(ctx context.Context, id uuid.UUID) error {
	return a.RemoveTx(ctx, a.db, id)
}

func (a *comments) RemoveTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	res, err := tx.NewDelete().
		Model((*Comment)(nil)).
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
