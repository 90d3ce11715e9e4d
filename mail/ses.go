package mail

import (
	"context"
	"fmt"
	"log"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	sestypes "github.com/aws/aws-sdk-go-v2/service/sesv2/types"
)

// SESMailer sends through Amazon SES using the default credential chain.
type SESMailer struct {
	client    *sesv2.Client
	fromEmail string
	fromName  string
}

func NewSESMailer(ctx context.Context, region, fromEmail, fromName string) (*SESMailer, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	log.Printf("Email service enabled: from=%s, region=%s", fromEmail, region)
	return &SESMailer{
		client:    sesv2.NewFromConfig(cfg),
		fromEmail: fromEmail,
		fromName:  fromName,
	}, nil
}

func (m *SESMailer) fromAddress() string {
	if m.fromName == "" {
		return m.fromEmail
	}
	return fmt.Sprintf("%s <%s>", m.fromName, m.fromEmail)
}

func (m *SESMailer) Send(ctx context.Context, recipient, subject, body string) error {
	input := &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.fromAddress()),
		Destination: &sestypes.Destination{
			ToAddresses: []string{recipient},
		},
		Content: &sestypes.EmailContent{
			Simple: &sestypes.Message{
				Subject: &sestypes.Content{
					Data:    aws.String(subject),
					Charset: aws.String("UTF-8"),
				},
				Body: &sestypes.Body{
					Text: &sestypes.Content{
						Data:    aws.String(body),
						Charset: aws.String("UTF-8"),
					},
				},
			},
		},
	}

	result, err := m.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	log.Printf("Email sent to %s (%s), message id %s", recipient, subject, aws.ToString(result.MessageId))
	return nil
}
