package httpapi

import (
	gatekit "github.com/goliatone/go-gatekit"
	"github.com/goliatone/go-router"
)

// Login exchanges an email/password pair for a bearer token. Validation runs
// before the credential check so malformed bodies never hit the store.
func (a *API) Login(ctx router.Context) error {
	payload := &gatekit.LoginPayload{}
	if err := ctx.Bind(payload); err != nil {
		return a.renderParseError(ctx, err)
	}

	pipe := gatekit.NewPipeline(
		gatekit.ValidateInput(payload),
		gatekit.CredentialAuth(a.verifier, payload.Email, payload.Password),
	)

	ex, err := pipe.Run(ctx.Context(), gatekit.Exchange{})
	if err != nil {
		return a.RenderError(ctx, err)
	}

	token, err := a.tokens.Generate(ex.Principal.ID)
	if err != nil {
		return a.RenderError(ctx, err)
	}

	return ctx.JSON(router.StatusOK, map[string]string{
		"token": token,
	})
}
