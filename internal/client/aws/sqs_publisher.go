package aws

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/cyphera/custody-vault/internal/interfaces"
	"github.com/cyphera/custody-vault/internal/logger"
	"github.com/cyphera/custody-vault/internal/types/business"
	"go.uber.org/zap"
)

// sqsAPI is the subset of the SQS client used here.
type sqsAPI interface {
	SendMessage(ctx context.Context, params *sqs.SendMessageInput, optFns ...func(*sqs.Options)) (*sqs.SendMessageOutput, error)
}

// SQSEventPublisher sends committed vault events to an SQS queue as JSON.
type SQSEventPublisher struct {
	client   sqsAPI
	queueURL string
	logger   *zap.Logger
}

var _ interfaces.EventPublisher = (*SQSEventPublisher)(nil)

// NewSQSEventPublisher creates a publisher using the default AWS configuration chain.
func NewSQSEventPublisher(ctx context.Context, queueURL string) (*SQSEventPublisher, error) {
	if queueURL == "" {
		return nil, fmt.Errorf("queue url is required")
	}
	cfg, err := config.LoadDefaultConfig(ctx)
	if err != nil {
		return nil, fmt.Errorf("unable to load AWS SDK config: %w", err)
	}
	return newSQSEventPublisher(sqs.NewFromConfig(cfg), queueURL), nil
}

func newSQSEventPublisher(client sqsAPI, queueURL string) *SQSEventPublisher {
	return &SQSEventPublisher{
		client:   client,
		queueURL: queueURL,
		logger:   logger.OrNop(nil),
	}
}

func (p *SQSEventPublisher) Publish(ctx context.Context, event business.VaultEvent) error {
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal vault event: %w", err)
	}

	out, err := p.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(p.queueURL),
		MessageBody: aws.String(string(body)),
		MessageAttributes: map[string]types.MessageAttributeValue{
			"EventType": {
				StringValue: aws.String(string(event.Type)),
				DataType:    aws.String("String"),
			},
			"Owner": {
				StringValue: aws.String(event.Owner.String()),
				DataType:    aws.String("String"),
			},
			"Record": {
				StringValue: aws.String(event.Record.String()),
				DataType:    aws.String("String"),
			},
		},
	})
	if err != nil {
		return fmt.Errorf("failed to send message to SQS: %w", err)
	}

	p.logger.Debug("Vault event queued",
		zap.String("event_id", event.ID.String()),
		zap.String("type", string(event.Type)),
		zap.String("message_id", aws.ToString(out.MessageId)))
	return nil
}
