package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/ses"
	"github.com/aws/aws-sdk-go-v2/service/ses/types"
	"github.com/twendycreate/twendy-api/internal/config"
)

// SESNotifier delivers reset codes using AWS SES.
type SESNotifier struct {
	sesClient   *ses.Client
	fromAddress string
	logger      *slog.Logger
}

func NewSESNotifier(cfg *config.EmailConfig, logger *slog.Logger) (*SESNotifier, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(context.Background(), awsconfig.WithRegion(cfg.AWSRegion))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	return &SESNotifier{
		sesClient:   ses.NewFromConfig(awsCfg),
		fromAddress: cfg.FromAddress,
		logger:      logger,
	}, nil
}

func (n *SESNotifier) SendResetCode(ctx context.Context, to, code string) error {
	input := &ses.SendEmailInput{
		Source: aws.String(n.fromAddress),
		Destination: &types.Destination{
			ToAddresses: []string{to},
		},
		Message: &types.Message{
			Subject: &types.Content{
				Data: aws.String(resetCodeSubject),
			},
			Body: &types.Body{
				Html: &types.Content{
					Data: aws.String(resetCodeHTMLBody(code)),
				},
				Text: &types.Content{
					Data: aws.String(resetCodeTextBody(code)),
				},
			},
		},
	}

	result, err := n.sesClient.SendEmail(ctx, input)
	if err != nil {
		n.logger.Error("failed to send reset code email via SES", slog.Any("error", err))
		return fmt.Errorf("failed to send email: %w", err)
	}

	n.logger.Info("reset code email sent", slog.String("message_id", aws.ToString(result.MessageId)))
	return nil
}
