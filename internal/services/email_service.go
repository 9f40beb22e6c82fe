package services

import (
	"context"
	"fmt"
	"html"
	"log/slog"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"

	"github.com/BradenHooton/bookshare/internal/models"
	pkglogger "github.com/BradenHooton/bookshare/pkg/logger"
)

// ModerationNotifier tells card owners about moderation decisions
type ModerationNotifier interface {
	NotifyModeration(ctx context.Context, owner *models.User, card *models.Card, action models.CardAction, reason string) error
}

// SESSender is the part of the SES client the notifier uses
type SESSender interface {
	SendEmail(ctx context.Context, params *ses.SendEmailInput, optFns ...func(*ses.Options)) (*ses.SendEmailOutput, error)
}

// SESModerationNotifier sends moderation notices through AWS SES
type SESModerationNotifier struct {
	client      SESSender
	fromAddress string
	logger      *slog.Logger
}

// NewSESModerationNotifier loads the default AWS config for region
func NewSESModerationNotifier(ctx context.Context, region, fromAddress string, logger *slog.Logger) (*SESModerationNotifier, error) {
	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return NewSESModerationNotifierWithClient(ses.NewFromConfig(cfg), fromAddress, logger), nil
}

// NewSESModerationNotifierWithClient builds a notifier around an existing client
func NewSESModerationNotifierWithClient(client SESSender, fromAddress string, logger *slog.Logger) *SESModerationNotifier {
	return &SESModerationNotifier{
		client:      client,
		fromAddress: fromAddress,
		logger:      logger,
	}
}

type moderationMessage struct {
	subject string
	text    string
}

func composeModerationMessage(owner *models.User, card *models.Card, action models.CardAction, reason string) (moderationMessage, error) {
	var subject, verdict string
	switch action {
	case models.CardActionApprove:
		subject = "Ваша карточка опубликована"
		verdict = "прошла модерацию и опубликована"
	case models.CardActionReject:
		subject = "Ваша карточка отклонена"
		verdict = "отклонена модератором"
	case models.CardActionDelete:
		subject = "Ваша карточка удалена"
		verdict = "удалена администратором"
	default:
		return moderationMessage{}, fmt.Errorf("no notice for action %s", action)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Здравствуйте, %s!\n\n", owner.FullName)
	fmt.Fprintf(&b, "Карточка «%s» (%s) %s.\n", card.Title, card.Author, verdict)
	if reason = strings.TrimSpace(reason); reason != "" {
		fmt.Fprintf(&b, "Причина: %s\n", reason)
	}
	b.WriteString("\nЭто автоматическое письмо, отвечать на него не нужно.\n")

	return moderationMessage{subject: subject, text: b.String()}, nil
}

// NotifyModeration sends one notice to the card owner
func (s *SESModerationNotifier) NotifyModeration(ctx context.Context, owner *models.User, card *models.Card, action models.CardAction, reason string) error {
	msg, err := composeModerationMessage(owner, card, action, reason)
	if err != nil {
		return err
	}

	htmlBody := "<p>" + strings.ReplaceAll(html.EscapeString(msg.text), "\n", "<br>") + "</p>"

	input := &ses.SendEmailInput{
		Source: aws.String(s.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{owner.Email},
		},
		Message: &types.Message{
			Subject: &types.Content{Data: aws.String(msg.subject), Charset: aws.String("UTF-8")},
			Body: &types.Body{
				Html: &types.Content{Data: aws.String(htmlBody), Charset: aws.String("UTF-8")},
				Text: &types.Content{Data: aws.String(msg.text), Charset: aws.String("UTF-8")},
			},
		},
	}

	result, err := s.client.SendEmail(ctx, input)
	if err != nil {
		return fmt.Errorf("failed to send moderation notice: %w", err)
	}

	messageID := ""
	if result != nil && result.MessageId != nil {
		messageID = *result.MessageId
	}
	s.logger.Info("moderation notice sent",
		slog.String("card_id", card.ID),
		slog.String("action", action.String()),
		slog.String("email", pkglogger.SanitizedEmail(owner.Email)),
		slog.String("message_id", messageID))

	return nil
}

// LogModerationNotifier only logs notices. It is used when no sender address is configured.
type LogModerationNotifier struct {
	logger *slog.Logger
}

func NewLogModerationNotifier(logger *slog.Logger) *LogModerationNotifier {
	return &LogModerationNotifier{logger: logger}
}

func (n *LogModerationNotifier) NotifyModeration(ctx context.Context, owner *models.User, card *models.Card, action models.CardAction, reason string) error {
	n.logger.Debug("moderation notice skipped, email disabled",
		slog.String("card_id", card.ID),
		slog.String("owner_id", owner.ID),
		slog.String("action", action.String()))
	return nil
}
