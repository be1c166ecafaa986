package services

import (
	"fmt"
	"log"
	"net/smtp"
	"os"
	"strings"
)

type MailService struct {
	Host     string
	Port     string
	Username string
	Password string
	From     string
	Enabled  bool
}

func NewMailService() *MailService {
	host := os.Getenv("SMTP_HOST")
	port := os.Getenv("SMTP_PORT")
	user := os.Getenv("SMTP_USER")
	pass := os.Getenv("SMTP_PASS")
	from := os.Getenv("SMTP_FROM")

	enabled := host != "" && port != "" && user != "" && pass != "" && from != ""
	if !enabled {
		log.Println("MailService disabled: missing SMTP environment variables, codes will be logged instead")
	}

	return &MailService{
		Host:     host,
		Port:     port,
		Username: user,
		Password: pass,
		From:     from,
		Enabled:  enabled,
	}
}

func (s *MailService) sendAsync(to []string, subject string, body string) {
	if !s.Enabled {
		return
	}

	go func() {
		auth := smtp.PlainAuth("", s.Username, s.Password, s.Host)
		addr := fmt.Sprintf("%s:%s", s.Host, s.Port)

		msg := []byte(fmt.Sprintf("To: %s\r\n"+
			"From: Kritika <%s>\r\n"+
			"Subject: %s\r\n\r\n%s",
			strings.Join(to, ","), s.From, subject, body))

		if err := smtp.SendMail(addr, auth, s.From, to, msg); err != nil {
			log.Printf("Failed to send email to %v: %v", to, err)
		} else {
			log.Printf("Email sent to %v: %s", to, subject)
		}
	}()
}

// SendConfirmationCode delivers the signup confirmation code. When SMTP
// is not configured the code is written to the log so local setups can
// still complete the token exchange.
func (s *MailService) SendConfirmationCode(email, code string) {
	if !s.Enabled {
		log.Printf("Confirmation code for %s: %s", email, code)
		return
	}
	body := fmt.Sprintf("Your confirmation code: %s\r\n\r\nExchange it at /api/v1/auth/token to receive your tokens.", code)
	s.sendAsync([]string{email}, "Your Kritika confirmation code", body)
}
