package mailer

import (
	"context"
	"fmt"
	"net/smtp"
	"strings"

	"github.com/threadline-shop/threadline-backend/config"
	"github.com/threadline-shop/threadline-backend/internal/app/model"
	"github.com/threadline-shop/threadline-backend/pkg/logger"
)

// Mailer sends transactional emails to customers.
type Mailer interface {
	SendOrderReceipt(ctx context.Context, toEmail, toName string, order *model.Order) error
}

// smtpMailer delivers mail over plain-auth SMTP. When no credentials are
// configured it logs the receipt instead of sending, so local setups work
// without a mail account.
type smtpMailer struct {
	cfg *config.SMTPConfig
}

func NewSMTPMailer(cfg *config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (m *smtpMailer) SendOrderReceipt(_ context.Context, toEmail, toName string, order *model.Order) error {
	subject := fmt.Sprintf("[Threadline] Order confirmation #%d", order.ID)
	body := buildReceiptHTML(toName, order)

	// Dev mode: no SMTP credentials, log instead of sending
	if m.cfg.Username == "" || m.cfg.Password == "" {
		logger.Info("[DEV MODE] Order receipt email", map[string]interface{}{
			"to":          toEmail,
			"order_id":    order.ID,
			"total_price": order.TotalPrice,
		})
		return nil
	}

	message := []byte(fmt.Sprintf(
		"From: %s\r\n"+
			"To: %s\r\n"+
			"Subject: %s\r\n"+
			"MIME-Version: 1.0\r\n"+
			"Content-Type: text/html; charset=UTF-8\r\n"+
			"\r\n"+
			"%s",
		m.cfg.From, toEmail, subject, body,
	))

	auth := smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)

	err := smtp.SendMail(
		m.cfg.Host+":"+m.cfg.Port,
		auth,
		m.cfg.From,
		[]string{toEmail},
		message,
	)
	if err != nil {
		logger.Error("Failed to send order receipt email", err, map[string]interface{}{
			"to":       toEmail,
			"order_id": order.ID,
		})
		return fmt.Errorf("failed to send order receipt: %w", err)
	}

	logger.Info("Order receipt email sent", map[string]interface{}{
		"to":       toEmail,
		"order_id": order.ID,
	})
	return nil
}

func buildReceiptHTML(toName string, order *model.Order) string {
	var rows strings.Builder
	for _, item := range order.OrderItems {
		rows.WriteString(fmt.Sprintf(`
			<tr>
				<td style="padding: 10px; border-bottom: 1px solid #eee;">%s</td>
				<td style="padding: 10px; border-bottom: 1px solid #eee; text-align: center;">%s</td>
				<td style="padding: 10px; border-bottom: 1px solid #eee; text-align: center;">%d</td>
				<td style="padding: 10px; border-bottom: 1px solid #eee; text-align: right;">$%.2f</td>
			</tr>`,
			item.Name, item.Size, item.Quantity, item.UnitPrice*float64(item.Quantity)))
	}

	return fmt.Sprintf(`
<html>
<body style="font-family: Arial, sans-serif; padding: 20px; background-color: #f5f5f5;">
	<div style="max-width: 600px; margin: 0 auto; background-color: white; padding: 40px; border-radius: 10px; box-shadow: 0 2px 4px rgba(0,0,0,0.1);">
		<h1 style="color: #333; margin-bottom: 20px;">Thank you for your order, %s!</h1>
		<p style="color: #666; line-height: 1.6; margin-bottom: 30px;">
			Your order <strong>#%d</strong> has been received and is being processed.
		</p>
		<table style="width: 100%%; border-collapse: collapse; margin-bottom: 30px;">
			<thead>
				<tr>
					<th style="padding: 10px; border-bottom: 2px solid #333; text-align: left;">Item</th>
					<th style="padding: 10px; border-bottom: 2px solid #333; text-align: center;">Size</th>
					<th style="padding: 10px; border-bottom: 2px solid #333; text-align: center;">Qty</th>
					<th style="padding: 10px; border-bottom: 2px solid #333; text-align: right;">Price</th>
				</tr>
			</thead>
			<tbody>%s
			</tbody>
		</table>
		<div style="background-color: #f8f9fa; padding: 20px; border-radius: 8px; text-align: right; margin-bottom: 30px;">
			<h2 style="color: #333; margin: 0; font-size: 24px;">Total: $%.2f</h2>
		</div>
		<p style="color: #666; font-size: 14px; margin-bottom: 10px;">
			Shipping to: %s
		</p>
		<p style="color: #999; font-size: 14px;">
			* If you have any questions about your order, just reply to this email.
		</p>
	</div>
</body>
</html>
`, toName, order.ID, rows.String(), order.TotalPrice, order.ShippingAddress)
}
