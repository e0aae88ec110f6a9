package mailer

import (
	"fmt"
	"net/smtp"
	"os"
)

// SendVerificationCode emails a one-time login code. SMTP settings come from
// the environment; with no SMTP_HOST configured the send is skipped, which
// keeps local development working without a mail account.
func SendVerificationCode(toEmail, code string) error {
	host := os.Getenv("SMTP_HOST")
	if host == "" {
		fmt.Printf("mailer: SMTP not configured, code for %s is %s\n", toEmail, code)
		return nil
	}

	port := os.Getenv("SMTP_PORT")
	if port == "" {
		port = "587"
	}
	from := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASSWORD")

	msg := []byte("Subject: Verification code\r\n" +
		"MIME-Version: 1.0\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n" +
		"Your verification code is: " + code + "\r\n" +
		"It expires in 10 minutes.\r\n")

	auth := smtp.PlainAuth("", from, pass, host)
	return smtp.SendMail(host+":"+port, auth, from, []string{toEmail}, msg)
}
