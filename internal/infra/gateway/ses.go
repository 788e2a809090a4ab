package gateway

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sesv2"
	"github.com/aws/aws-sdk-go-v2/service/sesv2/types"
	pkgerrors "github.com/pkg/errors"

	"github.com/uclaacm/bruinbot/internal/usecase"
)

const verificationBody = `<p>Hi %s,</p><br/><p>Your verification code for %s is %s.</p><br/><p>This code expires in 24 hours. If you did not request it, you can ignore this email.</p><br/><p>Best,<br/>%s</p>`

// SESMailer delivers one-time codes through Amazon SES.
type SESMailer struct {
	client *sesv2.Client
	sender string
	server string
}

func NewSESMailer(client *sesv2.Client, sender, server string) *SESMailer {
	return &SESMailer{client: client, sender: sender, server: server}
}

func (m *SESMailer) SendVerification(ctx context.Context, email, name, code string) error {
	subject := fmt.Sprintf("%s, Here's your verification code!", name)
	body := fmt.Sprintf(verificationBody, name, email, code, m.server)

	_, err := m.client.SendEmail(ctx, &sesv2.SendEmailInput{
		FromEmailAddress: aws.String(m.sender),
		Destination: &types.Destination{
			ToAddresses: []string{email},
		},
		Content: &types.EmailContent{
			Simple: &types.Message{
				Subject: &types.Content{Data: aws.String(subject)},
				Body: &types.Body{
					Html: &types.Content{Data: aws.String(body)},
				},
			},
		},
	})
	if err != nil {
		return pkgerrors.Wrap(err, "failed to send email")
	}
	return nil
}

var _ usecase.Mailer = (*SESMailer)(nil)
