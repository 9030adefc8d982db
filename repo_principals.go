package gatekit

import (
	"context"
	"fmt"
	"net/mail"
	"strings"

	"github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

var ChangePasswordSQL = `UPDATE "principals" AS "prn"
SET
	"password_hash" = ?,
	"updated_at" = CURRENT_TIMESTAMP
WHERE
	"prn"."deleted_at" IS NULL
AND (
	"prn"."id" = ?
) RETURNING *;`

type Principals interface {
	repository.Repository[*Principal]

	GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*Principal, error)
	GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*Principal, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Principal, error)

	Register(ctx context.Context, record *Principal) (*Principal, error)
	RegisterTx(ctx context.Context, tx bun.IDB, record *Principal) (*Principal, error)
	Create(ctx context.Context, record *Principal, criteria ...repository.InsertCriteria) (*Principal, error)
	CreateTx(ctx context.Context, tx bun.IDB, record *Principal, criteria ...repository.InsertCriteria) (*Principal, error)

	ListNames(ctx context.Context) ([]*Principal, error)

	UpdateProfile(ctx context.Context, id uuid.UUID, email, name string) (*Principal, error)

	ChangePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	ChangePasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error

	Remove(ctx context.Context, id uuid.UUID) error
	RemoveTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error
}

type principals struct {
	repository.Repository[*Principal]
	db *bun.DB
}

var _ Principals = (*principals)(nil)

func NewPrincipalsRepository(db *bun.DB) Principals {
	repo := repository.NewRepository[*Principal](db, repository.ModelHandlers[*Principal]{
		NewRecord: func() *Principal { return &Principal{} },
		GetID: func(p *Principal) uuid.UUID {
			if p == nil {
				return uuid.Nil
			}
			return p.ID
		},
		SetID: func(p *Principal, id uuid.UUID) {
			if p != nil {
				p.ID = id
			}
		},
		GetIdentifier: func() string {
			return "email"
		},
	})

	return &principals{
		Repository: repo,
		db:         db,
	}
}

func (a *principals) Register(ctx context.Context, record *Principal) (*Principal, error) {
	return a.RegisterTx(ctx, a.db, record)
}

func (a *principals) RegisterTx(ctx context.Context, tx bun.IDB, record *Principal) (*Principal, error) {
	return a.CreateTx(ctx, tx, record)
}

func (a *principals) GetByIdentifier(ctx context.Context, identifier string, criteria ...repository.SelectCriteria) (*Principal, error) {
	return a.GetByIdentifierTx(ctx, a.db, identifier, criteria...)
}

func (a *principals) GetByIdentifierTx(ctx context.Context, tx bun.IDB, identifier string, criteria ...repository.SelectCriteria) (*Principal, error) {
	options := resolvePrincipalIdentifier(identifier)
	if len(options) == 0 {
		options = []identifierOption{
			{
				column: "id",
				value:  strings.TrimSpace(identifier),
			},
		}
	}

	for _, opt := range options {
		record := &Principal{}
		q := tx.NewSelect().Model(record)

		for _, c := range criteria {
			q.Apply(c)
		}

		err := q.
			Where(fmt.Sprintf("?TableAlias.%s = ?", opt.column), opt.value).
			Limit(1).
			Scan(ctx)

		if err != nil {
			if repository.IsRecordNotFound(err) {
				continue
			}
			return nil, err
		}

		return record, nil
	}

	return nil, repository.NewRecordNotFound().
		WithMetadata(map[string]any{
			"identifier": identifier,
		})
}

func (a *principals) FindByID(ctx context.Context, id uuid.UUID) (*Principal, error) {
	record := &Principal{}
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

func (a *principals) Create(ctx context.Context, record *Principal, criteria ...repository.InsertCriteria) (*Principal, error) {
	return a.CreateTx(ctx, a.db, record, criteria...)
}

func (a *principals) CreateTx(ctx context.Context, tx bun.IDB, record *Principal, criteria ...repository.InsertCriteria) (*Principal, error) {
	preparePrincipalDefaults(record)
	return a.Repository.CreateTx(ctx, tx, record, criteria...)
}

// ListNames returns every principal with only the public columns, as the
// listing endpoint exposes names, never emails or hashes.
func (a *principals) ListNames(ctx context.Context) ([]*Principal, error) {
	var records []*Principal
	err := a.db.NewSelect().
		Model(&records).
		Column("id", "name").
		Order("name ASC").
		Scan(ctx)

	if err != nil {
		return nil, err
	}

	return records, nil
}

// UpdateProfile persists the mutable public fields; admin flag and
// credential hash have their own explicit paths.
func (a *principals) UpdateProfile(ctx context.Context, id uuid.UUID, email, name string) (*Principal, error) {
	_, err := a.db.NewUpdate().
		Model((*Principal)(nil)).
		Set("email = ?", email).
		Set("name = ?", name).
		Set("updated_at = CURRENT_TIMESTAMP").
		Where("?TableAlias.id = ?", id.String()).
		Where("?TableAlias.deleted_at IS NULL").
		Exec(ctx)

	if err != nil {
		return nil, err
	}

	return a.FindByID(ctx, id)
}

func (a *principals) ChangePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return a.ChangePasswordTx(ctx, a.db, id, passwordHash)
}

func (a *principals) ChangePasswordTx(ctx context.Context, tx bun.IDB, id uuid.UUID, passwordHash string) error {
	res, err := a.Repository.RawTx(ctx, tx, ChangePasswordSQL, passwordHash, id.String())
	if err != nil {
		return err
	}

	if len(res) == 0 {
		return repository.NewRecordNotFound().
			WithMetadata(map[string]any{
				"id": id.String(),
			})
	}

	return nil
}

func (a *principals) Remove(ctx context.Context, id uuid.UUID) error {
	return a.RemoveTx(ctx, a.db, id)
}

func (a *principals) RemoveTx(ctx context.Context, tx bun.IDB, id uuid.UUID) error {
	res, err := tx.NewDelete().
		Model((*Principal)(nil)).
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

func preparePrincipalDefaults(record *Principal) {
	if record == nil {
		return
	}

	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
}

type identifierOption struct {
	column string
	value  string
}

func resolvePrincipalIdentifier(identifier string) []identifierOption {
	trimmed := strings.TrimSpace(identifier)
	if trimmed == "" {
		return nil
	}

	options := make([]identifierOption, 0, 2)

	if isUUID(trimmed) {
		options = append(options, identifierOption{
			column: "id",
			value:  trimmed,
		})
	}

	if isEmail(trimmed) {
		options = append(options, identifierOption{
			column: "email",
			value:  trimmed,
		})
	}

	return options
}

func isEmail(email string) bool {
	_, err := mail.ParseAddress(email)
	return err == nil
}

func isUUID(identifier string) bool {
	_, err := uuid.Parse(identifier)
	return err == nil
}

// RepositoryPrincipalStore adapts the Principals repository to the narrow
// PrincipalStore surface the authentication stages consume.
type RepositoryPrincipalStore struct {
	repo Principals
}

func NewPrincipalStore(repo Principals) *RepositoryPrincipalStore {
	return &RepositoryPrincipalStore{repo: repo}
}

func (s *RepositoryPrincipalStore) GetByIdentifier(ctx context.Context, identifier string) (*Principal, error) {
	return s.repo.GetByIdentifier(ctx, identifier)
}

func (s *RepositoryPrincipalStore) GetByID(ctx context.Context, id uuid.UUID) (*Principal, error) {
	return s.repo.FindByID(ctx, id)
}

var _ PrincipalStore = (*RepositoryPrincipalStore)(nil)
