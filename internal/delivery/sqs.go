package delivery

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
)

// SQSQueue hands delivery jobs to AWS SQS for a separate worker process to
// pick up. Used when the API and the delivery worker are deployed apart.
type SQSQueue struct {
	client   *sqs.Client
	queueURL string
}

// NewSQSQueue constructs an SQS-backed delivery queue.
func NewSQSQueue(ctx context.Context, queueURL, region string) (*SQSQueue, error) {
	if queueURL == "" {
		return nil, fmt.Errorf("delivery: sqs queue url is required")
	}
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("delivery: load aws config: %w", err)
	}
	return &SQSQueue{
		client:   sqs.NewFromConfig(cfg),
		queueURL: queueURL,
	}, nil
}

// Dispatch publishes a delivery job.
func (q *SQSQueue) Dispatch(ctx context.Context, identity string) error {
	body, err := EncodeMessage(identity)
	if err != nil {
		return err
	}
	_, err = q.client.SendMessage(ctx, &sqs.SendMessageInput{
		QueueUrl:    aws.String(q.queueURL),
		MessageBody: aws.String(body),
	})
	if err != nil {
		return fmt.Errorf("delivery: sqs send message: %w", err)
	}
	return nil
}
