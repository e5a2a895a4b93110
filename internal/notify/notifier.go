// Package notify renders and delivers customer and back-office emails.
package notify

import (
	"context"
	"errors"
	"fmt"

	"waterlife-backoffice/internal/config"
	"waterlife-backoffice/internal/model"

	"github.com/wneessen/go-mail"
	"go.uber.org/zap"
)

// Notifier sends the emails triggered by quotations, sales and new accounts.
// Callers must pass fully loaded objects: templates read nested products and lines.
type Notifier interface {
	SendQuotationEmails(ctx context.Context, q *model.Quotation) error
	SendSaleConfirmation(ctx context.Context, sale *model.Sale, customer *model.User, product *model.Product) error
	SendNewUserCredentials(ctx context.Context, name, email, password string) error
}

// Sender delivers prepared messages.
type Sender interface {
	Send(ctx context.Context, msgs ...*mail.Msg) error
}

type mailNotifier struct {
	sender    Sender
	renderer  *Renderer
	fromName  string
	fromEmail string
	internal  string
	brand     string
	log       *zap.Logger
}

func NewMailNotifier(sender Sender, renderer *Renderer, cfg config.SMTPConfig, log *zap.Logger) Notifier {
	return &mailNotifier{
		sender:    sender,
		renderer:  renderer,
		fromName:  cfg.SenderName,
		fromEmail: cfg.SenderEmail,
		internal:  cfg.InternalRecipient,
		brand:     cfg.SenderName,
		log:       log.Named("notify"),
	}
}

func (n *mailNotifier) newMsg(toName, toEmail, subject, body string) (*mail.Msg, error) {
	m := mail.NewMsg()
	if err := m.FromFormat(n.fromName, n.fromEmail); err != nil {
		return nil, fmt.Errorf("from: %w", err)
	}
	if err := m.AddToFormat(toName, toEmail); err != nil {
		return nil, fmt.Errorf("to %s: %w", toEmail, err)
	}
	m.Subject(subject)
	m.SetBodyString(mail.TypeTextHTML, body)
	return m, nil
}

// SendQuotationEmails sends the customer copy and the internal copy, both
// rendered from the same stored quotation.
func (n *mailNotifier) SendQuotationEmails(ctx context.Context, q *model.Quotation) error {
	customerBody, err := n.renderer.QuotationCustomer(q)
	if err != nil {
		return err
	}
	internalBody, err := n.renderer.QuotationInternal(q)
	if err != nil {
		return err
	}

	customer, err := n.newMsg(q.FullName, q.Email, fmt.Sprintf("Confirmación de Cotización #%s", q.ID), customerBody)
	if err != nil {
		return err
	}
	internal, err := n.newMsg("Notificaciones "+n.brand, n.internal, fmt.Sprintf("Nueva Cotización Recibida - ID: %s", q.ID), internalBody)
	if err != nil {
		return err
	}

	if err := n.sender.Send(ctx, customer, internal); err != nil {
		return err
	}
	n.log.Info("quotation emails sent", zap.String("quotation_id", q.ID.String()), zap.String("to", q.Email))
	return nil
}

func (n *mailNotifier) SendSaleConfirmation(ctx context.Context, sale *model.Sale, customer *model.User, product *model.Product) error {
	if customer == nil || product == nil {
		return errors.New("sale confirmation needs customer and product")
	}
	body, err := n.renderer.SaleConfirmation(sale, customer, product)
	if err != nil {
		return err
	}
	msg, err := n.newMsg(customer.Name, customer.Email, fmt.Sprintf("¡Gracias por tu compra en %s! - Pedido #%s", n.brand, sale.ID), body)
	if err != nil {
		return err
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return err
	}
	n.log.Info("sale confirmation sent", zap.String("sale_id", sale.ID.String()), zap.String("to", customer.Email))
	return nil
}

func (n *mailNotifier) SendNewUserCredentials(ctx context.Context, name, email, password string) error {
	body, err := n.renderer.Credentials(name, email, password)
	if err != nil {
		return err
	}
	msg, err := n.newMsg(name, email, fmt.Sprintf("¡Bienvenido/a a %s! Tus Credenciales de Acceso", n.brand), body)
	if err != nil {
		return err
	}
	if err := n.sender.Send(ctx, msg); err != nil {
		return err
	}
	n.log.Info("credentials email sent", zap.String("to", email))
	return nil
}

type disabledNotifier struct {
	log *zap.Logger
}

// Disabled returns a Notifier that only logs what it would have sent.
func Disabled(log *zap.Logger) Notifier {
	return &disabledNotifier{log: log.Named("notify")}
}

func (d *disabledNotifier) SendQuotationEmails(_ context.Context, q *model.Quotation) error {
	d.log.Debug("smtp disabled, quotation emails skipped", zap.String("quotation_id", q.ID.String()))
	return nil
}

func (d *disabledNotifier) SendSaleConfirmation(_ context.Context, sale *model.Sale, _ *model.User, _ *model.Product) error {
	d.log.Debug("smtp disabled, sale confirmation skipped", zap.String("sale_id", sale.ID.String()))
	return nil
}

func (d *disabledNotifier) SendNewUserCredentials(_ context.Context, _, email, _ string) error {
	d.log.Debug("smtp disabled, credentials email skipped", zap.String("to", email))
	return nil
}
