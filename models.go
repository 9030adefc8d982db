package gatekit

import (
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// Principal is a registered account capable of owning resources. The
// password hash is write-only: it never serializes and is only mutated by
// the password-change operation.
type Principal struct {
	bun.BaseModel `bun:"table:principals,alias:prn"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	Email         string     `bun:"email,notnull,unique" json:"email,omitempty"`
	Name          string     `bun:"name,notnull" json:"name,omitempty"`
	PasswordHash  string     `bun:"password_hash,notnull" json:"-"`
	Admin         bool       `bun:"is_admin" json:"is_admin,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
	DeletedAt     *time.Time `bun:"deleted_at,soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// Post is a top-level resource owned by exactly one principal.
type Post struct {
	bun.BaseModel `bun:"table:posts,alias:pst"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	OwnerID       uuid.UUID  `bun:"owner_id,notnull,type:uuid" json:"owner_id,omitempty"`
	Title         string     `bun:"title,notnull" json:"title,omitempty"`
	Body          string     `bun:"body,notnull" json:"body,omitempty"`
	Published     bool       `bun:"is_published" json:"is_published,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// Comment is a resource attached to a parent post.
type Comment struct {
	bun.BaseModel `bun:"table:comments,alias:cmt"`
	ID            uuid.UUID  `bun:"id,pk,nullzero,type:uuid" json:"id,omitempty"`
	OwnerID       uuid.UUID  `bun:"owner_id,notnull,type:uuid" json:"owner_id,omitempty"`
	PostID        uuid.UUID  `bun:"post_id,notnull,type:uuid" json:"post_id,omitempty"`
	Body          string     `bun:"body,notnull" json:"body,omitempty"`
	CreatedAt     *time.Time `bun:"created_at,nullzero,default:current_timestamp" json:"created_at,omitempty"`
	UpdatedAt     *time.Time `bun:"updated_at,nullzero,default:current_timestamp" json:"updated_at,omitempty"`
}

// AccessTarget is anything the permission evaluator can decide over. A
// resource answers with its owner; a principal answers with its own id,
// which makes self-edit fall out of the same ownership test.
type AccessTarget interface {
	TargetOwner() uuid.UUID
}

func (p *Principal) TargetOwner() uuid.UUID { return p.ID }
func (p *Post) TargetOwner() uuid.UUID     { return p.OwnerID }
func (c *Comment) TargetOwner() uuid.UUID  { return c.OwnerID }

var (
	_ AccessTarget = (*Principal)(nil)
	_ AccessTarget = (*Post)(nil)
	_ AccessTarget = (*Comment)(nil)
)
