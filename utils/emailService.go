package utils

import (
	"fmt"
	"net/smtp"
	"strings"

	"mft/config"
)

// SendEmail sends an HTML email through the configured SMTP account
func SendEmail(to []string, subject string, htmlBody string) error {
	smtpHost := "smtp.gmail.com"
	smtpPort := "587"

	from := config.AppConfig.EmailSender
	password := config.AppConfig.Password

	msg := "MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\n"
	msg += fmt.Sprintf("From: Fund Transfers <%s>\r\n", from)
	msg += fmt.Sprintf("To: %s\r\n", strings.Join(to, ","))
	msg += fmt.Sprintf("Subject: %s\r\n\r\n", subject)
	msg += htmlBody

	auth := smtp.PlainAuth("", from, password, smtpHost)

	err := smtp.SendMail(smtpHost+":"+smtpPort, auth, from, to, []byte(msg))
	if err != nil {
		fmt.Println("Error sending email:", err)
		return err
	}
	return nil
}

// SendTransferRequestedEmail confirms a freshly created transfer to its owner.
// Best-effort: skipped entirely when no sender account is configured.
func SendTransferRequestedEmail(email, name, referenceNumber, transferType, amount string) {
	if config.AppConfig.EmailSender == "" || email == "" {
		return
	}

	body := fmt.Sprintf(`
	<h2>Transfer Request Received</h2>
	<p>Hi %s,</p>
	<p>Your %s request has been recorded and is pending processing.</p>
	<p><b>Reference:</b> %s<br/><b>Amount:</b> %s</p>
	<p>You will be notified as the request progresses.</p>`,
		name, transferType, referenceNumber, amount)

	if err := SendEmail([]string{email}, "Transfer Request "+referenceNumber, body); err != nil {
		fmt.Printf("Failed to send transfer confirmation for %s: %v\n", referenceNumber, err)
	}
}
