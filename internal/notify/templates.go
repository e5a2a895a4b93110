package notify

import (
	"bytes"
	"embed"
	"html/template"
	"time"

	"waterlife-backoffice/internal/model"

	"github.com/shopspring/decimal"
)

//go:embed templates/*.html
var templateFS embed.FS

// Renderer turns domain objects into HTML mail bodies.
type Renderer struct {
	tmpl *template.Template
}

func NewRenderer(brand string) (*Renderer, error) {
	funcs := template.FuncMap{
		"brand":    func() string { return brand },
		"money":    func(d decimal.Decimal) string { return d.StringFixed(2) },
		"date":     func(t time.Time) string { return t.Format("02/01/2006") },
		"datetime": func(t time.Time) string { return t.Format("02/01/2006 15:04") },
		"productName": func(p *model.Product) string {
			if p == nil {
				return ""
			}
			return p.Name
		},
	}
	tmpl, err := template.New("mail").Funcs(funcs).ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Renderer{tmpl: tmpl}, nil
}

func (r *Renderer) render(name string, data interface{}) (string, error) {
	var buf bytes.Buffer
	if err := r.tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

func (r *Renderer) QuotationCustomer(q *model.Quotation) (string, error) {
	return r.render("quotation_customer.html", q)
}

func (r *Renderer) QuotationInternal(q *model.Quotation) (string, error) {
	return r.render("quotation_internal.html", q)
}

type saleView struct {
	Sale     *model.Sale
	Customer *model.User
	Product  *model.Product
}

func (r *Renderer) SaleConfirmation(sale *model.Sale, customer *model.User, product *model.Product) (string, error) {
	return r.render("sale_confirmation.html", saleView{Sale: sale, Customer: customer, Product: product})
}

type credentialsView struct {
	Name     string
	Email    string
	Password string
}

func (r *Renderer) Credentials(name, email, password string) (string, error) {
	return r.render("credentials.html", credentialsView{Name: name, Email: email, Password: password})
}
