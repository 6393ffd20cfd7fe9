package main

// Build the Lambda handler binary:
//   GOOS=linux GOARCH=arm64 CGO_ENABLED=0 go build -o bootstrap ./cmd/lambda-http

import (
	"context"
	"encoding/json"
	"net/http"
	"sync"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"

	"cargo-backend/internal/bootstrap"
	"cargo-backend/internal/shared/config"
	"cargo-backend/internal/shared/server/respond"
	"cargo-backend/internal/shared/telemetry"
)

var (
	initOnce  sync.Once
	initErr   error
	ginLambda *ginadapter.GinLambdaV2
)

func initApp() {
	cfg := config.Load()
	telemetry.Configure(cfg.LogLevel)
	app, err := bootstrap.Build(cfg)
	if err != nil {
		initErr = err
		return
	}
	ginLambda = ginadapter.NewV2(app.Router)
}

func handler(ctx context.Context, req events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	initOnce.Do(initApp)
	if initErr != nil {
		telemetry.Error("bootstrap.failed", map[string]any{
			"error":      initErr,
			"request_id": req.RequestContext.RequestID,
			"path":       req.RawPath,
		})
		return bootstrapFailure(), nil
	}
	return ginLambda.ProxyWithContext(ctx, req)
}

// bootstrapFailure answers 503 in the router's error shape.
func bootstrapFailure() events.APIGatewayV2HTTPResponse {
	body, _ := json.Marshal(respond.ErrorBody{
		Code:    "bootstrap_failed",
		Message: "Service is not available",
	})
	return events.APIGatewayV2HTTPResponse{
		StatusCode: http.StatusServiceUnavailable,
		Body:       string(body),
		Headers:    map[string]string{"Content-Type": "application/json"},
	}
}

func main() {
	lambda.Start(handler)
}
