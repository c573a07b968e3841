package booking

import (
	"fmt"
	"strconv"
	"strings"
)

// AdminBookingInstructions is stored on reservations created from the admin
// panel, which skip the deposit step.
const AdminBookingInstructions = "Reserva creada directamente por administrador"

// PaymentDetails are the bank and contact details printed in the deposit
// instructions.
type PaymentDetails struct {
	DepositPercent int
	Holder         string
	HolderID       string
	Accounts       []string // e.g. "BANCOLOMBIA - Ahorros: 000000000"
	Nequi          string
	WhatsApp       string
}

// Deposit returns percent% of total rounded half up to whole pesos.
func Deposit(total int64, percent int) int64 {
	return (total*int64(percent) + 50) / 100
}

// FormatCOP renders n with dot thousands separators, as Colombian pesos are
// usually written ("1.250.000").
func FormatCOP(n int64) string {
	s := strconv.FormatInt(n, 10)
	sign := ""
	if strings.HasPrefix(s, "-") {
		sign, s = "-", s[1:]
	}
	var b strings.Builder
	for i, r := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + b.String()
}

// Instructions builds the deposit instructions for a reservation.
func (p PaymentDetails) Instructions(total int64, code string) string {
	percent := p.DepositPercent
	if percent <= 0 {
		percent = 50
	}
	var b strings.Builder
	fmt.Fprintf(&b, "ABONO DEL %d%% REQUERIDO: $%s COP\n\n", percent, FormatCOP(Deposit(total, percent)))
	if p.Holder != "" {
		fmt.Fprintf(&b, "Titular: %s\n", p.Holder)
	}
	if p.HolderID != "" {
		fmt.Fprintf(&b, "CC: %s\n", p.HolderID)
	}
	if len(p.Accounts) > 0 {
		b.WriteByte('\n')
		for _, acc := range p.Accounts {
			b.WriteString(acc + "\n")
		}
	}
	if p.Nequi != "" {
		fmt.Fprintf(&b, "NEQUI: %s\n", p.Nequi)
	}
	b.WriteByte('\n')
	if p.WhatsApp != "" {
		fmt.Fprintf(&b, "Envía el comprobante por WhatsApp: %s\n", p.WhatsApp)
	}
	fmt.Fprintf(&b, "Incluye tu código de confirmación: %s", code)
	return b.String()
}
