// Package notify sends best-effort submission confirmations over email
// (SES) and SMS (SNS). Confirmation failures are logged and never surfaced
// to the submitting request.
package notify

import (
	"context"
	"fmt"

	appconfig "govportal/internal/common/config"
	"govportal/internal/common/logger"
	"govportal/internal/models"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
)

// Interfaces over the AWS clients so tests can mock them.
type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

// Notifier delivers confirmation messages for submitted applications and
// complaints. Channels are individually toggled by configuration; a fully
// disabled Notifier is valid and does nothing.
type Notifier struct {
	cfg    appconfig.NotificationsConfig
	ses    SESService
	sns    SNSService
	logger logger.Logger
}

// New creates a Notifier. AWS clients are only constructed when at least
// one channel is enabled.
func New(ctx context.Context, cfg appconfig.NotificationsConfig, log logger.Logger) (*Notifier, error) {
	n := &Notifier{cfg: cfg, logger: log.WithFields(map[string]interface{}{"component": "notify"})}

	if !cfg.Email.Enabled && !cfg.SMS.Enabled {
		return n, nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.AWS.Region))
	if err != nil {
		return nil, fmt.Errorf("load AWS config: %w", err)
	}
	if cfg.Email.Enabled {
		n.ses = ses.NewFromConfig(awsCfg)
	}
	if cfg.SMS.Enabled {
		n.sns = sns.NewFromConfig(awsCfg)
	}
	return n, nil
}

// ApplicationSubmitted confirms a successful submission to the applicant.
func (n *Notifier) ApplicationSubmitted(ctx context.Context, user *models.User, app *models.Application) {
	subject := "Application received: " + app.ReferenceNumber
	body := fmt.Sprintf(
		"Dear %s,\n\nYour application for %s has been received.\nReference number: %s\nStatus: %s\n\nYou can track progress on the portal using your reference number.",
		user.Name, app.ServiceName, app.ReferenceNumber, app.Status)

	n.sendEmail(ctx, user.Email, subject, body)
	n.sendSMS(ctx, user.Phone, fmt.Sprintf("Application received. Ref: %s", app.ReferenceNumber))
}

// ComplaintFiled confirms a filed complaint.
func (n *Notifier) ComplaintFiled(ctx context.Context, user *models.User, complaint *models.Complaint) {
	subject := "Complaint received: " + complaint.Subject
	body := fmt.Sprintf(
		"Dear %s,\n\nYour complaint %q has been registered and is now %s.\nComplaint ID: %d",
		user.Name, complaint.Subject, complaint.Status, complaint.ID)

	n.sendEmail(ctx, user.Email, subject, body)
	n.sendSMS(ctx, user.Phone, fmt.Sprintf("Complaint #%d registered.", complaint.ID))
}

func (n *Notifier) sendEmail(ctx context.Context, to, subject, body string) {
	if n.ses == nil || to == "" {
		return
	}

	_, err := n.ses.SendEmail(ctx, &ses.SendEmailInput{
		Source: aws.String(n.cfg.Email.FromEmail),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(subject)},
			Body: &types.Body{
				Text: &types.Content{Data: aws.String(body)},
			},
		},
	})
	if err != nil {
		n.logger.Warn("Confirmation email failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}

func (n *Notifier) sendSMS(ctx context.Context, phone, message string) {
	if n.sns == nil || phone == "" {
		return
	}

	_, err := n.sns.Publish(ctx, &sns.PublishInput{
		PhoneNumber: aws.String(phone),
		Message:     aws.String(message),
		MessageAttributes: map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {
				DataType:    aws.String("String"),
				StringValue: aws.String(n.cfg.SMS.SenderID),
			},
		},
	})
	if err != nil {
		n.logger.Warn("Confirmation SMS failed", map[string]interface{}{
			"error": err.Error(),
		})
	}
}
