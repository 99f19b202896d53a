//go:build lambda
// +build lambda

package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	awsclient "github.com/cyphera/custody-vault/internal/client/aws"
	"github.com/cyphera/custody-vault/internal/logger"
	"github.com/cyphera/custody-vault/internal/server"
	"github.com/davecgh/go-spew/spew"
	"go.uber.org/zap"
)

var ginLambda *ginadapter.GinLambda

func init() {
	logger.InitLogger(os.Getenv("STAGE"))
	ctx := context.Background()

	secrets, err := awsclient.NewSecretsManagerClient(ctx)
	if err != nil {
		logger.Fatal("Unable to create Secrets Manager client", zap.Error(err))
	}

	cfg, err := server.LoadConfig(ctx, os.Getenv, secrets)
	if err != nil {
		logger.Fatal("Invalid configuration", zap.Error(err))
	}

	srv, err := server.New(ctx, cfg)
	if err != nil {
		logger.Fatal("Unable to initialize server", zap.Error(err))
	}

	ginLambda = ginadapter.New(srv.Router())
}

func Handler(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	logger.Debug("Received Lambda request",
		zap.String("path", req.Path),
		zap.String("request", spew.Sdump(req)),
	)

	return ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	defer logger.Sync()
	lambda.Start(Handler)
}
