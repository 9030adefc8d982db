package httpapi_test

import (
	"context"
	"database/sql"

	gatekit "github.com/goliatone/go-gatekit"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// stubPosts answers the read path only. The embedded interface covers the
// rest; calling an unstubbed method panics.
type stubPosts struct {
	gatekit.Posts

	records []*gatekit.Post
	err     error
}

func (s *stubPosts) ListAll(ctx context.Context) ([]*gatekit.Post, error) {
	return s.records, s.err
}

type stubComments struct {
	gatekit.Comments

	records []*gatekit.Comment
	byPost  map[uuid.UUID][]*gatekit.Comment
}

func (s *stubComments) ListAll(ctx context.Context) ([]*gatekit.Comment, error) {
	return s.records, nil
}

func (s *stubComments) ListByPost(ctx context.Context, postID uuid.UUID) ([]*gatekit.Comment, error) {
	return s.byPost[postID], nil
}

type stubPrincipals struct {
	gatekit.Principals

	registered []*gatekit.Principal
}

func (s *stubPrincipals) RegisterTx(ctx context.Context, tx bun.IDB, record *gatekit.Principal) (*gatekit.Principal, error) {
	if record.ID == uuid.Nil {
		record.ID = uuid.New()
	}
	s.registered = append(s.registered, record)
	return record, nil
}

type stubRepoManager struct {
	gatekit.RepositoryManager

	posts      *stubPosts
	comments   *stubComments
	principals *stubPrincipals
}

func (s *stubRepoManager) RunInTx(ctx context.Context, opts *sql.TxOptions, f func(ctx context.Context, tx bun.Tx) error) error {
	return f(ctx, bun.Tx{})
}

func (s *stubRepoManager) Principals() gatekit.Principals { return s.principals }
func (s *stubRepoManager) Posts() gatekit.Posts           { return s.posts }
func (s *stubRepoManager) Comments() gatekit.Comments     { return s.comments }
