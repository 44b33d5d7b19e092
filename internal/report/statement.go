// Package report renders group settlement statements as PDF documents.
package report

import (
	"fmt"
	"io"
	"time"

	"github.com/phpdave11/gofpdf"

	"github.com/mmynk/settlewise/internal/money"
)

// Balance is one member's row on a statement. Amounts are in cents.
type Balance struct {
	Name string
	Net  int64
	Paid int64
	Owed int64
}

// Payment is a suggested payment on a statement.
type Payment struct {
	From   string
	To     string
	Amount int64
}

// Statement is everything printed for one group.
type Statement struct {
	GroupName   string
	Currency    string
	GeneratedAt time.Time
	Balances    []Balance
	Payments    []Payment
}

var balanceWidths = []float64{70, 36, 36, 40}

// WriteStatement renders st as an A4 PDF to w.
func WriteStatement(w io.Writer, st Statement) error {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetTitle(st.GroupName+" statement", true)
	pdf.AddPage()
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, tr(st.GroupName))
	pdf.Ln(10)

	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(80, 80, 80)
	pdf.Cell(0, 6, fmt.Sprintf("Currency: %s", st.Currency))
	pdf.Ln(5)
	pdf.Cell(0, 6, "Generated: "+st.GeneratedAt.UTC().Format("2006-01-02 15:04 MST"))
	pdf.Ln(10)

	pdf.SetTextColor(20, 20, 20)
	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Balances")
	pdf.Ln(9)

	pdf.SetDrawColor(200, 200, 200)
	pdf.SetFillColor(248, 248, 248)
	pdf.SetFont("Helvetica", "B", 10)
	for i, header := range []string{"Member", "Paid", "Share", "Net"} {
		align := "R"
		if i == 0 {
			align = "L"
		}
		pdf.CellFormat(balanceWidths[i], 8, header, "1", 0, align, true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 10)
	for _, b := range st.Balances {
		pdf.CellFormat(balanceWidths[0], 7, tr(b.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(balanceWidths[1], 7, money.Format(b.Paid), "1", 0, "R", false, 0, "")
		pdf.CellFormat(balanceWidths[2], 7, money.Format(b.Owed), "1", 0, "R", false, 0, "")
		pdf.CellFormat(balanceWidths[3], 7, signed(b.Net), "1", 0, "R", false, 0, "")
		pdf.Ln(-1)
	}
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "B", 13)
	pdf.Cell(0, 8, "Suggested payments")
	pdf.Ln(9)

	pdf.SetFont("Helvetica", "", 11)
	if len(st.Payments) == 0 {
		pdf.Cell(0, 7, "Everyone is settled up.")
		pdf.Ln(7)
	}
	for _, p := range st.Payments {
		pdf.Cell(0, 7, tr(PaymentLine(p, st.Currency)))
		pdf.Ln(7)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("failed to render statement: %w", err)
	}
	return nil
}

// PaymentLine renders a payment the way it is shown to people,
// e.g. "Bob owes Alice: 12.50 USD".
func PaymentLine(p Payment, currency string) string {
	line := fmt.Sprintf("%s owes %s: %s", p.From, p.To, money.Format(p.Amount))
	if currency != "" {
		line += " " + currency
	}
	return line
}

func signed(cents int64) string {
	if cents > 0 {
		return "+" + money.Format(cents)
	}
	return money.Format(cents)
}
