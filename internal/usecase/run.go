package usecase

import (
	"context"
	"fmt"

	"envelopes/internal/core"
)

// run is the template every use-case executes: validate, normalize,
// delegate, unwrap. A panic anywhere inside becomes a single
// UnexpectedError tagged with the operation name, so callers only ever see
// a Result.
func run[Req, Res any](
	ctx context.Context,
	operation string,
	req *Req,
	validate func(*Req) core.Result[bool],
	normalize func(*Req) Req,
	call func(context.Context, Req) core.Result[Res],
) (result core.Result[Res]) {
	defer func() {
		if recovered := recover(); recovered != nil {
			result = core.Fail[Res](core.NewUnexpectedError(operation, fmt.Errorf("%v", recovered)))
		}
	}()

	if validated := validate(req); validated.HasError() {
		return core.Relay[Res](validated)
	}

	normalized := normalize(req)

	delegated := call(ctx, normalized)
	if delegated.HasError() {
		return core.Failures[Res](delegated.Errors())
	}
	return core.Ok(delegated.Data())
}
