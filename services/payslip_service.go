package services

import (
	"bytes"
	"context"
	"fmt"
	"image/png"

	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/boombuler/barcode"
	"github.com/boombuler/barcode/qr"
	"github.com/jung-kurt/gofpdf"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// PayslipService renders a single payroll as a PDF payslip.
type PayslipService struct {
	payrolls PayrollStore
	users    UserStore
}

func NewPayslipService(payrolls PayrollStore, users UserStore) *PayslipService {
	return &PayslipService{payrolls: payrolls, users: users}
}

// payrollQR encodes the payroll id so a printed slip can be looked up.
func payrollQR(id primitive.ObjectID) ([]byte, error) {
	code, err := qr.Encode("payroll:"+id.Hex(), qr.M, qr.Auto)
	if err != nil {
		return nil, err
	}
	code, err = barcode.Scale(code, 200, 200)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, code); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (s *PayslipService) Payslip(ctx context.Context, id primitive.ObjectID) ([]byte, error) {
	p, err := s.payrolls.FindByID(ctx, id)
	if err != nil {
		return nil, appErr(err)
	}
	name := p.User.Hex()
	if u, err := s.users.FindByID(ctx, p.User); err == nil && u.FullName != "" {
		name = u.FullName
	}
	code, err := payrollQR(p.ID)
	if err != nil {
		return nil, appErr(err)
	}
	return renderPayslip(p, name, code)
}

func renderPayslip(p *models.Payroll, name string, code []byte) ([]byte, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.Cell(40, 10, "Payslip")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	pdf.Cell(0, 8, fmt.Sprintf("Employee: %s", name))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Date: %s", p.Date))
	pdf.Ln(7)
	role := p.RoleWorkedAs
	if role == "" {
		role = p.Role
	}
	pdf.Cell(0, 8, fmt.Sprintf("Worked as: %s", role))
	pdf.Ln(7)
	pdf.Cell(0, 8, fmt.Sprintf("Status: %s", p.Status()))
	pdf.Ln(10)

	lines := []struct {
		label  string
		amount float64
	}{
		{"Base salary", p.BaseSalary},
		{"Over", p.Over},
		{"Short", -p.Short},
		{"Deduction", -p.Deduction},
		{"Cash advance", -p.Withdrawal},
	}
	for _, l := range lines {
		pdf.CellFormat(80, 8, l.label, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", l.amount), "", 1, "R", false, 0, "")
	}
	for _, a := range p.Adjustments {
		pdf.CellFormat(80, 8, "Adjustment: "+a.Reason, "", 0, "L", false, 0, "")
		pdf.CellFormat(40, 8, fmt.Sprintf("%.2f", a.Delta), "", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(80, 10, "Total", "T", 0, "L", false, 0, "")
	pdf.CellFormat(40, 10, fmt.Sprintf("%.2f", p.TotalSalary), "T", 1, "R", false, 0, "")

	opts := gofpdf.ImageOptions{ImageType: "PNG", ReadDpi: false}
	pdf.RegisterImageOptionsReader("qr", opts, bytes.NewReader(code))
	pdf.ImageOptions("qr", 150, 20, 40, 40, false, opts, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
