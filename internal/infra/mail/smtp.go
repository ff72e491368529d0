package mail

import (
	"context"
	"fmt"

	"storefront/internal/config"
	"storefront/internal/notify"

	"gopkg.in/gomail.v2"
)

// 送信だけを抜き出した（テストで差し替える）
type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPSender はSMTPで通知メールを送る。宛先が空なら店舗オーナーに送る。
type SMTPSender struct {
	dialer    dialer
	from      string
	fromName  string
	defaultTo string
}

func NewSMTPSender(cfg config.Mail) *SMTPSender {
	return &SMTPSender{
		dialer:    gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		from:      cfg.From,
		fromName:  cfg.StoreName,
		defaultTo: cfg.StoreOwner,
	}
}

// Send はctxがもう終わっていれば送らない。送信を始めた後のキャンセルは見ない
// （gomailがctxを受け取らないため）。
func (s *SMTPSender) Send(ctx context.Context, msg notify.Message) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	to := msg.To
	if to == "" {
		to = s.defaultTo
	}

	m := gomail.NewMessage()
	m.SetAddressHeader("From", s.from, s.fromName)
	m.SetHeader("To", to)
	m.SetHeader("Subject", msg.Subject)
	m.SetBody("text/html", msg.HTML)

	// 送り始めたら結果が出るまで待つ。途中で返すと、届いたのに失敗扱いになる
	if err := s.dialer.DialAndSend(m); err != nil {
		return fmt.Errorf("smtp send: %w", err)
	}
	return nil
}
