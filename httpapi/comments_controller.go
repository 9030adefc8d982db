package httpapi

import (
	"github.com/goliatone/go-errors"
	gatekit "github.com/goliatone/go-gatekit"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

// CommentIndex lists comments, optionally scoped to one post via the
// post_id query parameter. Public.
func (a *API) CommentIndex(ctx router.Context) error {
	filter := ctx.Query("post_id")
	if filter == "" {
		records, err := a.repo.Comments().ListAll(ctx.Context())
		if err != nil {
			return a.RenderError(ctx, err)
		}
		return ctx.JSON(router.StatusOK, records)
	}

	postID, err := uuid.Parse(filter)
	if err != nil {
		return a.RenderError(ctx, errors.New("post_id filter is not a valid id", errors.CategoryBadInput).
			WithCode(errors.CodeBadRequest).
			WithMetadata(map[string]any{"post_id": filter}))
	}

	records, err := a.repo.Comments().ListByPost(ctx.Context(), postID)
	if err != nil {
		return a.RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, records)
}

// CommentShow returns a single comment. Public.
func (a *API) CommentShow(ctx router.Context) error {
	pipe := gatekit.NewPipeline(
		gatekit.Load(a.comments, ctx.Param("id")),
	)

	ex, err := pipe.Run(ctx.Context(), gatekit.Exchange{})
	if err != nil {
		return a.RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, ex.Target)
}

// CommentCreate adds a comment under an existing post. The parent post is
// loaded as the pipeline target so a dangling post id fails with 404 before
// any write; no permission stage runs because commenting on another
// principal's post is the point.
func (a *API) CommentCreate(ctx router.Context) error {
	payload := &gatekit.CommentCreatePayload{}
	if err := ctx.Bind(payload); err != nil {
		return a.renderParseError(ctx, err)
	}

	pipe := gatekit.NewPipeline(
		a.tokenAuth(ctx),
		gatekit.ValidateInput(payload),
		gatekit.Load(a.posts, payload.PostID),
	)

	ex, err := pipe.Run(ctx.Context(), gatekit.Exchange{})
	if err != nil {
		return a.RenderError(ctx, err)
	}

	parent := ex.Target.(*gatekit.Post)

	record, err := a.repo.Comments().Create(ctx.Context(), &gatekit.Comment{
		OwnerID: ex.Principal.ID,
		PostID:  parent.ID,
		Body:    payload.Body,
	})
	if err != nil {
		return a.RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, record)
}

// CommentUpdate edits a comment body. Owner or admin only.
func (a *API) CommentUpdate(ctx router.Context) error {
	payload := &gatekit.CommentUpdatePayload{}
	if err := ctx.Bind(payload); err != nil {
		return a.renderParseError(ctx, err)
	}

	pipe := gatekit.NewPipeline(
		a.tokenAuth(ctx),
		gatekit.ValidateInput(payload),
		gatekit.Load(a.comments, ctx.Param("id")),
		gatekit.Authorize(),
	)

	ex, err := pipe.Run(ctx.Context(), gatekit.Exchange{})
	if err != nil {
		return a.RenderError(ctx, err)
	}

	target := ex.Target.(*gatekit.Comment)

	updated, err := a.repo.Comments().UpdateBody(ctx.Context(), target.ID, payload.Body)
	if err != nil {
		return a.RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, updated)
}

// CommentDelete removes a comment. Owner or admin only.
func (a *API) CommentDelete(ctx router.Context) error {
	pipe := gatekit.NewPipeline(
		a.tokenAuth(ctx),
		gatekit.Load(a.comments, ctx.Param("id")),
		gatekit.Authorize(),
	)

	ex, err := pipe.Run(ctx.Context(), gatekit.Exchange{})
	if err != nil {
		return a.RenderError(ctx, err)
	}

	target := ex.Target.(*gatekit.Comment)

	if err := a.repo.Comments().Remove(ctx.Context(), target.ID); err != nil {
		return a.RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
	})
}
