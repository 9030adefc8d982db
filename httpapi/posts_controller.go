package httpapi

import (
	gatekit "github.com/goliatone/go-gatekit"
	"github.com/goliatone/go-router"
)

// PostIndex lists every post. Public.
func (a *API) PostIndex(ctx router.Context) error {
	records, err := a.repo.Posts().ListAll(ctx.Context())
	if err != nil {
		return a.RenderError(ctx, err)
	}
	return ctx.JSON(router.StatusOK, records)
}

// PostShow returns a single post. Public.
func (a *API) PostShow(ctx router.Context) error {
	pipe := gatekit.NewPipeline(
		gatekit.Load(a.posts, ctx.Param("id")),
	)

	ex, err := pipe.Run(ctx.Context(), gatekit.Exchange{})
	if err != nil {
		return a.RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, ex.Target)
}

// PostCreate makes the authenticated principal the owner of a new post.
func (a *API) PostCreate(ctx router.Context) error {
	payload := &gatekit.PostPayload{}
	if err := ctx.Bind(payload); err != nil {
		return a.renderParseError(ctx, err)
	}

	pipe := gatekit.NewPipeline(
		a.tokenAuth(ctx),
		gatekit.ValidateInput(payload),
	)

	ex, err := pipe.Run(ctx.Context(), gatekit.Exchange{})
	if err != nil {
		return a.RenderError(ctx, err)
	}

	record, err := a.repo.Posts().Create(ctx.Context(), &gatekit.Post{
		OwnerID:   ex.Principal.ID,
		Title:     payload.Title,
		Body:      payload.Body,
		Published: payload.Published,
	})
	if err != nil {
		return a.RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusCreated, record)
}

// PostUpdate edits title, body and publication state. Ownership never
// changes on update.
func (a *API) PostUpdate(ctx router.Context) error {
	payload := &gatekit.PostPayload{}
	if err := ctx.Bind(payload); err != nil {
		return a.renderParseError(ctx, err)
	}

	pipe := gatekit.NewPipeline(
		a.tokenAuth(ctx),
		gatekit.ValidateInput(payload),
		gatekit.Load(a.posts, ctx.Param("id")),
		gatekit.Authorize(),
	)

	ex, err := pipe.Run(ctx.Context(), gatekit.Exchange{})
	if err != nil {
		return a.RenderError(ctx, err)
	}

	target := ex.Target.(*gatekit.Post)
	target.Title = payload.Title
	target.Body = payload.Body
	target.Published = payload.Published

	updated, err := a.repo.Posts().UpdateFields(ctx.Context(), target)
	if err != nil {
		return a.RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, updated)
}

// PostDelete removes a post. Owner or admin only.
func (a *API) PostDelete(ctx router.Context) error {
	pipe := gatekit.NewPipeline(
		a.tokenAuth(ctx),
		gatekit.Load(a.posts, ctx.Param("id")),
		gatekit.Authorize(),
	)

	ex, err := pipe.Run(ctx.Context(), gatekit.Exchange{})
	if err != nil {
		return a.RenderError(ctx, err)
	}

	target := ex.Target.(*gatekit.Post)

	if err := a.repo.Posts().Remove(ctx.Context(), target.ID); err != nil {
		return a.RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
	})
}
