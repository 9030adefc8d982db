package httpapi

import (
	gatekit "github.com/goliatone/go-gatekit"
	"github.com/goliatone/go-router"
	"github.com/google/uuid"
)

type principalName struct {
	ID   uuid.UUID `json:"id"`
	Name string    `json:"name"`
}

// UserIndex lists every registered name. The listing is public and carries
// no email or credential material.
func (a *API) UserIndex(ctx router.Context) error {
	records, err := a.repo.Principals().ListNames(ctx.Context())
	if err != nil {
		return a.RenderError(ctx, err)
	}

	names := make([]principalName, 0, len(records))
	for _, record := range records {
		names = append(names, principalName{ID: record.ID, Name: record.Name})
	}

	return ctx.JSON(router.StatusOK, names)
}

// UserCreate registers a new principal. Open to anonymous callers.
func (a *API) UserCreate(ctx router.Context) error {
	payload := &gatekit.RegisterPayload{}
	if err := ctx.Bind(payload); err != nil {
		return a.renderParseError(ctx, err)
	}

	pipe := gatekit.NewPipeline(
		gatekit.ValidateInput(payload),
	)

	if _, err := pipe.Run(ctx.Context(), gatekit.Exchange{}); err != nil {
		return a.RenderError(ctx, err)
	}

	principal, err := a.register.Execute(ctx.Context(), gatekit.RegisterPrincipalMessage{
		Email:    payload.Email,
		Name:     payload.Name,
		Password: payload.Password,
	})
	if err != nil {
		return a.RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, principal)
}

// UserProfile returns the principal behind the bearer token.
func (a *API) UserProfile(ctx router.Context) error {
	pipe := gatekit.NewPipeline(
		a.tokenAuth(ctx),
	)

	ex, err := pipe.Run(ctx.Context(), gatekit.Exchange{})
	if err != nil {
		return a.RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, ex.Principal)
}

// UserShow returns a single principal record. The credential hash never
// serializes.
func (a *API) UserShow(ctx router.Context) error {
	pipe := gatekit.NewPipeline(
		gatekit.Load(a.principals, ctx.Param("id")),
	)

	ex, err := pipe.Run(ctx.Context(), gatekit.Exchange{})
	if err != nil {
		return a.RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, ex.Target)
}

// UserUpdate edits a profile. Only the principal themselves or an admin may
// do it.
func (a *API) UserUpdate(ctx router.Context) error {
	payload := &gatekit.PrincipalUpdatePayload{}
	if err := ctx.Bind(payload); err != nil {
		return a.renderParseError(ctx, err)
	}

	pipe := gatekit.NewPipeline(
		a.tokenAuth(ctx),
		gatekit.ValidateInput(payload),
		gatekit.Load(a.principals, ctx.Param("id")),
		gatekit.Authorize(),
	)

	ex, err := pipe.Run(ctx.Context(), gatekit.Exchange{})
	if err != nil {
		return a.RenderError(ctx, err)
	}

	target := ex.Target.(*gatekit.Principal)

	updated, err := a.repo.Principals().UpdateProfile(ctx.Context(), target.ID, payload.Email, payload.Name)
	if err != nil {
		return a.RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, updated)
}

// UserPasswordChange replaces the stored credential hash. It is the only
// operation that touches it after registration.
func (a *API) UserPasswordChange(ctx router.Context) error {
	payload := &gatekit.PasswordChangePayload{}
	if err := ctx.Bind(payload); err != nil {
		return a.renderParseError(ctx, err)
	}

	pipe := gatekit.NewPipeline(
		a.tokenAuth(ctx),
		gatekit.ValidateInput(payload),
		gatekit.Load(a.principals, ctx.Param("id")),
		gatekit.Authorize(),
	)

	ex, err := pipe.Run(ctx.Context(), gatekit.Exchange{})
	if err != nil {
		return a.RenderError(ctx, err)
	}

	target := ex.Target.(*gatekit.Principal)

	if err := a.password.Execute(ctx.Context(), gatekit.ChangePasswordMessage{
		PrincipalID: target.ID,
		Password:    payload.Password,
	}); err != nil {
		return a.RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
	})
}

// UserDelete soft-deletes a principal. Their tokens stop resolving at the
// authentication stage from that point on.
func (a *API) UserDelete(ctx router.Context) error {
	pipe := gatekit.NewPipeline(
		a.tokenAuth(ctx),
		gatekit.Load(a.principals, ctx.Param("id")),
		gatekit.Authorize(),
	)

	ex, err := pipe.Run(ctx.Context(), gatekit.Exchange{})
	if err != nil {
		return a.RenderError(ctx, err)
	}

	target := ex.Target.(*gatekit.Principal)

	if err := a.repo.Principals().Remove(ctx.Context(), target.ID); err != nil {
		return a.RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]any{
		"success": true,
	})
}
