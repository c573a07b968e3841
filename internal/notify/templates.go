package notify

import (
	"fmt"
	"html/template"
	"net/url"
	"strings"

	"github.com/iliyamo/glamping-reservation/internal/booking"
	"github.com/iliyamo/glamping-reservation/internal/model"
)

var (
	weekdaysES = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}
	monthsES   = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio", "julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}
)

// LongDate formats d the way es-CO writes a full date:
// "sábado, 15 de junio de 2024".
func LongDate(d model.Date) string {
	return fmt.Sprintf("%s, %d de %s de %d", weekdaysES[d.Weekday()], d.Day(), monthsES[d.Month()-1], d.Year())
}

// waLink builds a wa.me link with a prefilled message.  Anything but digits
// is stripped from the number.
func waLink(number, text string) string {
	var digits strings.Builder
	for _, r := range number {
		if r >= '0' && r <= '9' {
			digits.WriteRune(r)
		}
	}
	return "https://wa.me/" + digits.String() + "?text=" + url.QueryEscape(text)
}

var funcs = template.FuncMap{
	"cop":      booking.FormatCOP,
	"longdate": LongDate,
	"walink":   waLink,
}

const layoutTmpl = `{{define "footer"}}
<p style="text-align: center; color: #6b7280;">
  <em>Reconéctate con lo esencial</em><br>
  {{.Brand}}{{with .Location}} - {{.}}{{end}}
</p>
{{end}}
{{define "details"}}
<p><strong>Código de Confirmación:</strong> {{.R.ConfirmationCode}}</p>
<p><strong>Cabaña:</strong> {{.C.Name}}</p>
<p><strong>Entrada:</strong> {{longdate .R.CheckIn}}</p>
<p><strong>Salida:</strong> {{longdate .R.CheckOut}}</p>
<p><strong>Huéspedes:</strong> {{.R.Guests}}</p>
{{end}}`

const receivedTmpl = `{{define "received"}}
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #1e40af; text-align: center;">{{.Brand}}</h1>
  {{if .Formal}}
  <h2 style="color: #6b705c;">Confirmación de Solicitud de Reserva</h2>
  <p>Estimado/a <strong>{{.R.GuestName}}</strong>,</p>
  <p>Le confirmamos que hemos recibido su solicitud de alojamiento. La reserva se encuentra en proceso de confirmación durante las próximas {{.HoldHours}} horas.</p>
  {{else}}
  <h2 style="color: #2d5a27;">¡Reserva Recibida!</h2>
  <p>Hola <strong>{{.R.GuestName}}</strong>,</p>
  <p>¡Gracias por elegirnos! Hemos recibido tu solicitud de reserva. Tu reserva está <strong>congelada por {{.HoldHours}} horas</strong> mientras realizas el abono del {{.Percent}}%.</p>
  {{end}}
  <div style="background-color: #f0f9ff; padding: 20px; border-radius: 8px; margin: 20px 0;">
    {{template "details" .}}
    <p><strong>Total a Pagar:</strong> ${{cop .R.TotalPrice}} COP</p>
  </div>
  <div style="background-color: #fef3c7; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <h3 style="color: #92400e; margin-top: 0;">Instrucciones de Pago - Abono del {{.Percent}}%</h3>
    <p><strong>Monto del Abono:</strong> ${{cop .Deposit}} COP</p>
    {{range .Pay.Accounts}}<p><strong>{{.}}</strong></p>{{end}}
    {{with .Pay.Holder}}<p><strong>Titular: {{.}}</strong></p>{{end}}
    {{with .Pay.HolderID}}<p><strong>CC. {{.}}</strong></p>{{end}}
    {{with .Pay.Nequi}}<p><strong>Nequi: {{.}}</strong></p>{{end}}
    {{if .Pay.WhatsApp}}
    <p><a href="{{walink .Pay.WhatsApp (printf "Hola, adjunto comprobante de pago para la reserva con código: %s" .R.ConfirmationCode)}}">Enviar Comprobante por WhatsApp</a></p>
    {{end}}
    <ul>
      <li>Tienes <strong>{{.HoldHours}} horas</strong> para realizar el abono</li>
      <li>Incluye tu código de confirmación: <strong>{{.R.ConfirmationCode}}</strong></li>
    </ul>
  </div>
  {{template "footer" .}}
</div>
{{end}}`

const ownerTmpl = `{{define "owner"}}
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #1e40af; text-align: center;">{{.Brand}} - Admin</h1>
  <h2 style="color: #dc2626;">Nueva Reserva Pendiente</h2>
  <p>Se ha recibido una nueva reserva que requiere confirmación:</p>
  <div style="background-color: #f9fafb; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #dc2626;">
    <p><strong>Código:</strong> {{.R.ConfirmationCode}}</p>
    <p><strong>Huésped:</strong> {{.R.GuestName}}</p>
    <p><strong>Email:</strong> {{.R.GuestEmail}}</p>
    {{with .R.GuestPhone}}<p><strong>Teléfono:</strong> {{.}}</p>{{end}}
    <p><strong>Cabaña:</strong> {{.C.Name}}</p>
    <p><strong>Entrada:</strong> {{longdate .R.CheckIn}}</p>
    <p><strong>Salida:</strong> {{longdate .R.CheckOut}}</p>
    <p><strong>Huéspedes:</strong> {{.R.Guests}}</p>
    <p><strong>Total:</strong> ${{cop .R.TotalPrice}} COP</p>
    <p><strong>Abono Esperado:</strong> ${{cop .Deposit}} COP</p>
    {{with .R.GuestPhone}}
    <p><a href="{{walink . (printf "Hola, te hablo de %s. Vi que hiciste una reserva y te quiero ayudar en tu proceso." $.Brand)}}">Contactar por WhatsApp</a></p>
    {{end}}
  </div>
  {{with .AdminURL}}<p style="text-align: center;"><a href="{{.}}">Ir al Panel de Administración</a></p>{{end}}
  <p style="font-size: 14px; color: #6b7280;">
    El huésped tiene {{.HoldHours}} horas para realizar el abono del {{.Percent}}%.
    Después de este tiempo, la reserva expirará automáticamente.
  </p>
</div>
{{end}}`

const confirmedTmpl = `{{define "confirmed"}}
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #1e40af; text-align: center;">{{.Brand}}</h1>
  <h2 style="color: #059669;">¡Reserva Confirmada!</h2>
  <p>Hola <strong>{{.R.GuestName}}</strong>,</p>
  <p>¡Excelente! Tu reserva ha sido <strong>confirmada</strong>. Estamos emocionados de recibirte en {{.Brand}}.</p>
  <div style="background-color: #ecfdf5; padding: 20px; border-radius: 8px; margin: 20px 0; border-left: 4px solid #059669;">
    {{template "details" .}}
    <p><strong>Total:</strong> ${{cop .R.TotalPrice}} COP</p>
    <p><strong>Saldo Pendiente:</strong> ${{cop .Balance}} COP (se paga al momento del check-in)</p>
  </div>
  <div style="background-color: #fef3c7; padding: 20px; border-radius: 8px; margin: 20px 0;">
    <ul>
      <li><strong>Check-in:</strong> A partir de las 3:00 PM</li>
      <li><strong>Check-out:</strong> Hasta las 12:00 PM</li>
      {{with .Pay.WhatsApp}}<li><strong>Contacto:</strong> {{.}}</li>{{end}}
    </ul>
  </div>
  {{template "footer" .}}
</div>
{{end}}`

const expiredTmpl = `{{define "expired"}}
<div style="font-family: Arial, sans-serif; max-width: 600px; margin: 0 auto;">
  <h1 style="color: #1e40af; text-align: center;">{{.Brand}}</h1>
  <h2 style="color: #dc2626;">Reserva Expirada</h2>
  <p>Hola <strong>{{.R.GuestName}}</strong>,</p>
  <p>Lamentamos informarte que tu reserva con código <strong>{{.R.ConfirmationCode}}</strong> ha expirado debido a que no se recibió el abono dentro del tiempo límite de {{.HoldHours}} horas.</p>
  <p>Si aún estás interesado en hospedarte en {{.Brand}}, puedes realizar una nueva reserva en nuestro sitio web.</p>
  <p>¡Esperamos verte pronto!</p>
  {{template "footer" .}}
</div>
{{end}}`

var templates = template.Must(template.New("mail").Funcs(funcs).Parse(
	layoutTmpl + receivedTmpl + ownerTmpl + confirmedTmpl + expiredTmpl,
))
