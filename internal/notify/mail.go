package notify

import (
	mail "gopkg.in/mail.v2"
)

// MailSender delivers over authenticated SMTP. Reply-To is pinned to the
// sending account so recipients answering the notification reach the
// operator inbox.
type MailSender struct {
	host     string
	port     int
	username string
	password string
	from     string
}

func NewMailSender(host string, port int, username, password, from string) *MailSender {
	if from == "" {
		from = username
	}
	return &MailSender{
		host:     host,
		port:     port,
		username: username,
		password: password,
		from:     from,
	}
}

func (s *MailSender) Send(to, subject, htmlBody string) error {
	msg := mail.NewMessage()
	msg.SetHeader("From", s.from)
	msg.SetHeader("To", to)
	msg.SetHeader("Reply-To", s.from)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	dialer := mail.NewDialer(s.host, s.port, s.username, s.password)
	return dialer.DialAndSend(msg)
}
