// Package notify tells applicants about status changes by e-mail (SES) and SMS (SNS).
package notify

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	sestypes "github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/aws/aws-sdk-go-v2/service/sns"
	snstypes "github.com/aws/aws-sdk-go-v2/service/sns/types"
	"github.com/google/uuid"

	"nagarik-sewa/internal/common/errors"
	"nagarik-sewa/internal/common/logger"
	"nagarik-sewa/internal/common/metrics"
	"nagarik-sewa/internal/models"
)

type SESService interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

type SNSService interface {
	Publish(ctx context.Context, params *sns.PublishInput, optFns ...func(*sns.Options)) (*sns.PublishOutput, error)
}

type Config struct {
	EmailEnabled bool
	SMSEnabled   bool
	FromEmail    string
	SMSSenderID  string
}

type Service struct {
	config    Config
	ses       SESService
	sns       SNSService
	logger    logger.Logger
	templates map[models.ApplicationStatus]template
	now       func() time.Time
}

func NewService(cfg Config, sesClient SESService, snsClient SNSService, log logger.Logger) *Service {
	return &Service{
		config:    cfg,
		ses:       sesClient,
		sns:       snsClient,
		logger:    logger.ForComponent(log, "notify"),
		templates: defaultTemplates(),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// smsStatuses are the outcomes worth a text message.
var smsStatuses = map[models.ApplicationStatus]bool{
	models.StatusCompleted: true,
	models.StatusRejected:  true,
}

// NotifyStatusChange sends the e-mail and, for final outcomes, the SMS. Delivery failures
// are reported through the result status rather than as errors.
func (s *Service) NotifyStatusChange(ctx context.Context, n models.StatusNotification) (*models.NotificationResult, error) {
	result := &models.NotificationResult{
		NotificationID: uuid.New().String(),
		Status:         models.NotificationStatusDisabled,
		SentAt:         s.now().Format(time.RFC3339),
	}

	tmpl, ok := s.templates[n.Status]
	if !ok {
		return nil, fmt.Errorf("no notification template for status %q", n.Status)
	}
	data := map[string]interface{}{
		"applicationId":    n.ApplicationID,
		"fullName":         n.FullName,
		"serviceType":      n.ServiceType,
		"status":           string(n.Status),
		"officeName":       n.OfficeName,
		"rejectionMessage": n.RejectionMessage,
	}
	subject := renderTemplate(tmpl.Subject, data)
	body := renderTemplate(tmpl.Body, data)

	sent := false
	if s.config.EmailEnabled && s.ses != nil && n.Email != "" {
		if err := s.sendEmail(ctx, n.Email, subject, body); err != nil {
			s.logger.Error("email send failed", map[string]interface{}{
				"error":         err,
				"applicationId": n.ApplicationID,
			})
			metrics.NotificationsSent.WithLabelValues("email", models.NotificationStatusFailed).Inc()
			result.Status = models.NotificationStatusFailed
			result.Error = err.Error()
			return result, nil
		}
		metrics.NotificationsSent.WithLabelValues("email", models.NotificationStatusSent).Inc()
		sent = true
	}

	if s.config.SMSEnabled && s.sns != nil && n.Phone != "" && smsStatuses[n.Status] {
		if err := s.sendSMS(ctx, n.Phone, renderTemplate(tmpl.SMS, data)); err != nil {
			s.logger.Error("SMS send failed", map[string]interface{}{
				"error":         err,
				"applicationId": n.ApplicationID,
			})
			metrics.NotificationsSent.WithLabelValues("sms", models.NotificationStatusFailed).Inc()
			result.Status = models.NotificationStatusFailed
			result.Error = err.Error()
			return result, nil
		}
		metrics.NotificationsSent.WithLabelValues("sms", models.NotificationStatusSent).Inc()
		sent = true
	}

	if sent {
		result.Status = models.NotificationStatusSent
	}
	s.logger.Info("status notification processed", map[string]interface{}{
		"applicationId":  n.ApplicationID,
		"status":         n.Status,
		"notificationId": result.NotificationID,
		"result":         result.Status,
	})
	return result, nil
}

func (s *Service) sendEmail(ctx context.Context, to, subject, body string) error {
	_, err := s.ses.SendEmail(ctx, &ses.SendEmailInput{
		Destination: &sestypes.Destination{
			ToAddresses: []string{to},
		},
		Message: &sestypes.Message{
			Subject: &sestypes.Content{Data: aws.String(subject)},
			Body: &sestypes.Body{
				Text: &sestypes.Content{Data: aws.String(body)},
			},
		},
		Source: aws.String(s.config.FromEmail),
	})
	if err != nil {
		return errors.NewNotificationSendFailedError("email", err)
	}
	return nil
}

func (s *Service) sendSMS(ctx context.Context, to, message string) error {
	input := &sns.PublishInput{
		PhoneNumber: aws.String(to),
		Message:     aws.String(message),
	}
	if s.config.SMSSenderID != "" {
		input.MessageAttributes = map[string]snstypes.MessageAttributeValue{
			"AWS.SNS.SMS.SenderID": {DataType: aws.String("String"), StringValue: aws.String(s.config.SMSSenderID)},
			"AWS.SNS.SMS.SMSType":  {DataType: aws.String("String"), StringValue: aws.String("Transactional")},
		}
	}
	if _, err := s.sns.Publish(ctx, input); err != nil {
		return errors.NewNotificationSendFailedError("sms", err)
	}
	return nil
}

// renderTemplate substitutes {{key}} placeholders and drops any that have no value.
func renderTemplate(tmpl string, data map[string]interface{}) string {
	result := tmpl
	for k, v := range data {
		value := ""
		if v != nil {
			value = fmt.Sprintf("%v", v)
		}
		result = strings.ReplaceAll(result, "{{"+k+"}}", value)
	}

	for {
		start := strings.Index(result, "{{")
		if start == -1 {
			break
		}
		end := strings.Index(result[start:], "}}")
		if end == -1 {
			break
		}
		result = result[:start] + result[start+end+2:]
	}
	return result
}
