package services

import (
	"context"

	"github.com/aws/aws-sdk-go/aws"         //nolint:staticcheck // TODO: Migrate to aws-sdk-go-v2
	"github.com/aws/aws-sdk-go/aws/session" //nolint:staticcheck
	"github.com/aws/aws-sdk-go/service/sns" //nolint:staticcheck
	"github.com/chatty-ai/chatty-api/internal/config"
)

// SNSSender delivers verification codes as transactional SMS via AWS SNS.
type SNSSender struct {
	client *sns.SNS
}

func NewSNSSender(cfg *config.Config) *SNSSender {
	sess := session.Must(session.NewSession(&aws.Config{
		Region: aws.String(cfg.AWSRegion),
	}))

	return &SNSSender{client: sns.New(sess)}
}

func (s *SNSSender) SendSMS(ctx context.Context, phone, message string) error {
	_, err := s.client.PublishWithContext(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
		MessageAttributes: map[string]*sns.MessageAttributeValue{
			"AWS.SNS.SMS.SMSType": {
				DataType:    aws.String("String"),
				StringValue: aws.String("Transactional"),
			},
		},
	})
	return err
}
