package services

import (
	"bytes"
	"crypto/tls"
	"fmt"
	"html/template"
	"net/smtp"

	"github.com/Amanzhol04/esports-portal/config"
	"github.com/Amanzhol04/esports-portal/models"
)

var confirmationTemplate = template.Must(template.New("registration_confirmation").Parse(`
<h2>Заявка принята!</h2>
<p>Команда <b>{{.TeamName}}</b> зарегистрирована на турнир <b>{{.TournamentTitle}}</b>.</p>
<p>Ваш номер заявки: {{.RegistrationID}}. Занято мест: {{.Count}} из {{.Slots}}.</p>
<p>Дата проведения: {{.Date}}.</p>
`))

type EmailService struct {
	cfg *config.Config
}

func NewEmailService(cfg *config.Config) *EmailService {
	return &EmailService{cfg: cfg}
}

// Enabled — письма отправляются, только если SMTP настроен.
func (s *EmailService) Enabled() bool {
	return s.cfg.SMTPHost != "" && s.cfg.SMTPFrom != ""
}

func (s *EmailService) SendEmail(to []string, subject string, body string) error {
	auth := smtp.PlainAuth("", s.cfg.SMTPUser, s.cfg.SMTPPass, s.cfg.SMTPHost)

	msg := []byte("To: " + to[0] + "\r\n" +
		"From: " + s.cfg.SMTPFrom + "\r\n" +
		"Subject: " + subject + "\r\n" +
		"MIME-version: 1.0;\nContent-Type: text/html; charset=\"UTF-8\";\r\n" +
		"\r\n" +
		body + "\r\n")

	addr := fmt.Sprintf("%s:%d", s.cfg.SMTPHost, s.cfg.SMTPPort)

	tlsconfig := &tls.Config{
		ServerName: s.cfg.SMTPHost,
	}

	var client *smtp.Client
	if s.cfg.SMTPPort == 465 {
		// Прямое TLS-соединение (обычно порт 465)
		conn, err := tls.Dial("tcp", addr, tlsconfig)
		if err != nil {
			return fmt.Errorf("ошибка TLS соединения: %w", err)
		}
		defer conn.Close()
		client, err = smtp.NewClient(conn, s.cfg.SMTPHost)
		if err != nil {
			return fmt.Errorf("ошибка создания SMTP клиента: %w", err)
		}
	} else {
		// STARTTLS (обычно порт 587)
		c, err := smtp.Dial(addr)
		if err != nil {
			return fmt.Errorf("ошибка соединения SMTP: %w", err)
		}
		client = c
		if err = client.StartTLS(tlsconfig); err != nil {
			client.Close()
			return fmt.Errorf("ошибка команды STARTTLS: %w", err)
		}
	}
	defer client.Quit()

	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("ошибка аутентификации SMTP: %w", err)
	}

	if err := client.Mail(s.cfg.SMTPFrom); err != nil {
		return fmt.Errorf("ошибка MAIL FROM: %w", err)
	}
	for _, addr := range to {
		if err := client.Rcpt(addr); err != nil {
			return fmt.Errorf("ошибка RCPT TO: %w", err)
		}
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("ошибка команды DATA: %w", err)
	}
	if _, err = w.Write(msg); err != nil {
		return fmt.Errorf("ошибка записи сообщения: %w", err)
	}
	if err = w.Close(); err != nil {
		return fmt.Errorf("ошибка закрытия DATA: %w", err)
	}

	return nil
}

// SendRegistrationConfirmation отправляет лидеру подтверждение заявки.
// Вызывается вне критической секции; ошибка отправки не откатывает заявку.
func (s *EmailService) SendRegistrationConfirmation(reg *models.Registration, tournament *models.Tournament, count int) error {
	if !s.Enabled() || reg.Leader.Email == "" {
		return nil
	}

	data := struct {
		TeamName        string
		TournamentTitle string
		RegistrationID  string
		Count           int
		Slots           int
		Date            string
	}{
		TeamName:        reg.TeamName,
		TournamentTitle: tournament.Title,
		RegistrationID:  reg.ID,
		Count:           count,
		Slots:           tournament.Slots,
		Date:            tournament.Date.Format("02.01.2006 15:04"),
	}

	var body bytes.Buffer
	if err := confirmationTemplate.Execute(&body, data); err != nil {
		return fmt.Errorf("ошибка выполнения шаблона подтверждения: %w", err)
	}

	subject := fmt.Sprintf("Регистрация на турнир %s подтверждена", tournament.Title)
	return s.SendEmail([]string{reg.Leader.Email}, subject, body.String())
}
