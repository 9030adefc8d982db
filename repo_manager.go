package gatekit

import (
	"context"
	"database/sql"
	"errors"
	"log"

	"github.com/uptrace/bun"
)

// RepositoryManager exposes all repositories
type RepositoryManager interface {
	Validate() error
	MustValidate()
	RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error
	Principals() Principals
	Posts() Posts
	Comments() Comments
}

type mngr struct {
	db         *bun.DB
	principals Principals
	posts      Posts
	comments   Comments
}

func NewRepositoryManager(db *bun.DB) RepositoryManager {
	return &mngr{
		db:         db,
		principals: NewPrincipalsRepository(db),
		posts:      NewPostsRepository(db),
		comments:   NewCommentsRepository(db),
	}
}

func (m mngr) Validate() error {
	if m.principals == nil {
		return errors.New("repository principals should be initialized")
	}

	if m.posts == nil {
		return errors.New("repository posts should be initialized")
	}

	if m.comments == nil {
		return errors.New("repository comments should be initialized")
	}

	return nil
}

func (m mngr) MustValidate() {
	if err := m.Validate(); err != nil {
		log.Panic(err)
	}
}

func (m mngr) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return m.db.RunInTx(ctx, opts, f)
	}
}

func (m mngr) Principals() Principals {
	return m.principals
}

func (m mngr) Posts() Posts {
	return m.posts
}

func (m mngr) Comments() Comments {
	return m.comments
}
