package sns

import (
	"context"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	awssns "github.com/aws/aws-sdk-go-v2/service/sns"
	"github.com/liquidsuites/launch-api/internal/config"
	"github.com/liquidsuites/launch-api/internal/infrastructure/sms"
)

// Sender sends SMS messages via AWS SNS. It implements sms.Gateway as an
// alternative to the Twilio client; SNS reports no per-message delivery
// status or error codes, so a successful publish is surfaced as "sent".
type Sender struct {
	client *awssns.Client
}

func NewSender(cfg *config.Config) (*Sender, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(),
		awsconfig.WithRegion(cfg.SNSRegion),
	)
	if err != nil {
		return nil, err
	}
	return &Sender{client: awssns.NewFromConfig(awsCfg)}, nil
}

func (s *Sender) Send(ctx context.Context, to, body string) (*sms.Result, error) {
	out, err := s.client.Publish(ctx, &awssns.PublishInput{
		PhoneNumber: &to,
		Message:     &body,
	})
	if err != nil {
		return nil, &sms.SendError{Kind: sms.FailureOther, Message: err.Error()}
	}
	return &sms.Result{
		MessageID: aws.ToString(out.MessageId),
		Status:    sms.StatusSent,
	}, nil
}
