package mail

import (
	"fmt"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"
)

type EmailSender struct {
	Host     string
	Port     int
	User     string
	Password string
	From     string
}

func NewEmailSender(host string, port int, user, password, from string) *EmailSender {
	return &EmailSender{
		Host:     host,
		Port:     port,
		User:     user,
		Password: password,
		From:     from,
	}
}

// Send entrega el mail por SMTP y devuelve el Message-ID generado. SMTP no
// devuelve id propio, así que lo fijamos nosotros en el header.
func (s *EmailSender) Send(to []string, subject, body string) (string, error) {
	messageID := fmt.Sprintf("<%s@tucanviajes>", uuid.New().String())

	m := gomail.NewMessage()
	m.SetHeader("From", s.From)
	m.SetHeader("To", to...)
	m.SetHeader("Subject", subject)
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(s.Host, s.Port, s.User, s.Password)

	if err := d.DialAndSend(m); err != nil {
		return "", fmt.Errorf("SMTP send failed: %w", err)
	}

	return messageID, nil
}
