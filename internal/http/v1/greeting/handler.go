package greeting

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	applog "github.com/janisto/greeting-service/internal/platform/logging"
	greetingsvc "github.com/janisto/greeting-service/internal/service/greeting"
)

// Register wires the greeting routes into the provided API.
func Register(api huma.API, svc greetingsvc.Service) {
	huma.Register(api, huma.Operation{
		OperationID: "get-greeting",
		Method:      http.MethodGet,
		Path:        "/",
		Summary:     "Get the current greeting",
		Tags:        []string{"Greeting"},
	}, func(ctx context.Context, _ *struct{}) (*GetOutput, error) {
		msg := svc.Get(ctx)
		applog.LogDebug(ctx, "greeting read", zap.Int("length", len(msg)))
		return &GetOutput{Body: Data{Msg: msg}}, nil
	})

	huma.Register(api, huma.Operation{
		OperationID: "set-greeting",
		Method:      http.MethodPost,
		Path:        "/set",
		Summary:     "Replace the greeting",
		Description: "Stores the posted message as the greeting returned by subsequent reads and echoes it back.",
		Tags:        []string{"Greeting"},
		Errors:      []int{http.StatusBadRequest},
	}, func(ctx context.Context, input *SetInput) (*SetOutput, error) {
		svc.Set(ctx, input.Body.Msg)
		applog.LogDebug(ctx, "greeting set request handled")
		return &SetOutput{Body: Data{Msg: input.Body.Msg}}, nil
	})
}
