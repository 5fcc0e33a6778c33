package services

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/twendycreate/twendy-api/internal/config"
	"gopkg.in/gomail.v2"
)

// Notifier delivers a password reset code to a user out-of-band. The auth
// orchestrator depends only on this contract, not on the transport.
type Notifier interface {
	SendResetCode(ctx context.Context, to, code string) error
}

// NewNotifier builds the notifier selected by configuration.
func NewNotifier(cfg *config.EmailConfig, logger *slog.Logger) (Notifier, error) {
	switch cfg.Provider {
	case "smtp":
		return NewSMTPNotifier(cfg, logger), nil
	case "ses":
		return NewSESNotifier(cfg, logger)
	case "log":
		return NewLogNotifier(logger), nil
	default:
		return nil, fmt.Errorf("unknown email provider %q", cfg.Provider)
	}
}

// resetCodeSubject and bodies are shared by the SMTP and SES transports.
const resetCodeSubject = "Código de Redefinição de Senha - Twendy"

func resetCodeTextBody(code string) string {
	return fmt.Sprintf("Seu código de redefinição é: %s\n\nO código é válido por 1 hora. Se você não solicitou essa alteração, ignore este email.\n", code)
}

func resetCodeHTMLBody(code string) string {
	return fmt.Sprintf(`<div style="font-family: Arial, sans-serif; background-color:#f4f4f4; padding: 40px;">
  <div style="max-width: 600px; margin: auto; background: white; padding: 20px; border-radius: 5px;">
    <h2 style="color: #333;">Código de Redefinição de Senha - Twendy</h2>
    <p style="font-size: 16px; color: #555;">Use o seguinte código para redefinir sua senha:</p>
    <div style="text-align: center; margin: 30px 0;">
      <span style="font-size: 24px; letter-spacing: 4px; padding: 10px 20px; border: 2px dashed #007BFF; border-radius: 5px; display: inline-block; color: #007BFF;">
        <strong>%s</strong>
      </span>
    </div>
    <p style="font-size: 14px; color: #888;">O código é válido por 1 hora. Se você não solicitou essa alteração, por favor ignore este email.</p>
    <hr style="margin: 30px 0; border:none; border-top: 1px solid #eee;" />
    <p style="font-size: 12px; color: #aaa;">Este é um email automático, por favor não responda.</p>
  </div>
</div>`, code)
}

// SMTPNotifier delivers reset codes through an SMTP relay.
type SMTPNotifier struct {
	dialer      *gomail.Dialer
	fromAddress string
	logger      *slog.Logger
}

func NewSMTPNotifier(cfg *config.EmailConfig, logger *slog.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		dialer:      gomail.NewDialer(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPassword),
		fromAddress: cfg.FromAddress,
		logger:      logger,
	}
}

// SendResetCode sends the code by email. gomail has no context support, so
// the dial-and-send runs in a goroutine bounded by ctx.
func (n *SMTPNotifier) SendResetCode(ctx context.Context, to, code string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", fmt.Sprintf("Twendy Suporte <%s>", n.fromAddress))
	m.SetHeader("To", to)
	m.SetHeader("Subject", resetCodeSubject)
	m.SetBody("text/plain", resetCodeTextBody(code))
	m.AddAlternative("text/html", resetCodeHTMLBody(code))

	errCh := make(chan error, 1)
	go func() {
		errCh <- n.dialer.DialAndSend(m)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			n.logger.Error("failed to send reset code email", slog.Any("error", err))
			return fmt.Errorf("failed to send email: %w", err)
		}
	case <-ctx.Done():
		n.logger.Error("reset code email send timed out")
		return ctx.Err()
	}

	n.logger.Info("reset code email sent")
	return nil
}

// LogNotifier writes the code to the log instead of sending it. Only
// acceptable outside production; config.Load enforces that.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendResetCode(ctx context.Context, to, code string) error {
	n.logger.Warn("email provider not configured, logging reset code instead",
		slog.String("to", to),
		slog.String("code", code),
	)
	return nil
}
