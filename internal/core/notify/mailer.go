// internal/core/notify/mailer.go
package notify

import (
	"bytes"
	"context"

	"github.com/AvantikaTIC/depuracionContable/internal/config"
	"github.com/AvantikaTIC/depuracionContable/internal/domain"
	"github.com/wneessen/go-mail"
)

// Adjunto es un archivo con nombre listo para adjuntar al correo.
type Adjunto struct {
	Nombre    string
	Contenido []byte
}

// Mensaje es el contrato del colaborador de entrega: destinatarios, copia,
// asunto, cuerpo HTML y adjuntos opcionales.
type Mensaje struct {
	Para       []string
	Copia      []string
	Asunto     string
	CuerpoHTML string
	Adjuntos   []Adjunto
}

// Mailer entrega un mensaje. SMTP y las variantes de API de correo son
// implementaciones intercambiables de este contrato; este núcleo no
// reintenta envíos fallidos.
type Mailer interface {
	Enviar(ctx context.Context, m Mensaje) error
}

type smtpMailer struct {
	cfg config.SMTPConfig
}

// NewSMTPMailer crea el colaborador de entrega por SMTP.
func NewSMTPMailer(cfg config.SMTPConfig) Mailer {
	return &smtpMailer{cfg: cfg}
}

func (s *smtpMailer) Enviar(ctx context.Context, m Mensaje) error {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.Remitente); err != nil {
		return &domain.DeliveryError{Err: err}
	}
	if err := msg.To(m.Para...); err != nil {
		return &domain.DeliveryError{Err: err}
	}
	if len(m.Copia) > 0 {
		if err := msg.Cc(m.Copia...); err != nil {
			return &domain.DeliveryError{Err: err}
		}
	}
	msg.Subject(m.Asunto)
	msg.SetBodyString(mail.TypeTextHTML, m.CuerpoHTML)
	for _, a := range m.Adjuntos {
		if err := msg.AttachReader(a.Nombre, bytes.NewReader(a.Contenido)); err != nil {
			return &domain.DeliveryError{Err: err}
		}
	}

	opciones := []mail.Option{
		mail.WithPort(s.cfg.Puerto),
		mail.WithTLSPolicy(mail.TLSOpportunistic),
	}
	if s.cfg.Usuario != "" {
		opciones = append(opciones,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(s.cfg.Usuario),
			mail.WithPassword(s.cfg.Clave),
		)
	}

	cliente, err := mail.NewClient(s.cfg.Servidor, opciones...)
	if err != nil {
		return &domain.DeliveryError{Err: err}
	}
	if err := cliente.DialAndSendWithContext(ctx, msg); err != nil {
		return &domain.DeliveryError{Err: err}
	}
	return nil
}
