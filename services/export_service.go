package services

import (
	"bytes"
	"context"
	"fmt"

	"github.com/HSouheill/tellerdesk_backend/ledger"
	"github.com/HSouheill/tellerdesk_backend/models"
	"github.com/xuri/excelize/v2"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const payrollSheet = "Payroll"

var payrollHeadings = []string{
	"Date", "User", "Name", "Role", "Worked As", "Base Salary", "Over", "Short",
	"Deduction", "Withdrawal", "Adjustments", "Total Salary", "Status",
}

// ExportService renders payroll listings as spreadsheets.
type ExportService struct {
	payrolls PayrollStore
	users    UserStore
}

func NewExportService(payrolls PayrollStore, users UserStore) *ExportService {
	return &ExportService{payrolls: payrolls, users: users}
}

// PayrollWorkbook writes every payroll matching f to an xlsx document with
// a totals row at the bottom.
func (s *ExportService) PayrollWorkbook(ctx context.Context, f models.PayrollFilter) ([]byte, error) {
	list, err := s.payrolls.List(ctx, f)
	if err != nil {
		return nil, appErr(err)
	}

	names := map[primitive.ObjectID]string{}
	for _, p := range list {
		if _, ok := names[p.User]; ok {
			continue
		}
		names[p.User] = ""
		if u, err := s.users.FindByID(ctx, p.User); err == nil {
			names[p.User] = u.FullName
		}
	}

	book := excelize.NewFile()
	defer book.Close()
	if err := book.SetSheetName("Sheet1", payrollSheet); err != nil {
		return nil, appErr(err)
	}

	for i, h := range payrollHeadings {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		book.SetCellValue(payrollSheet, cell, h)
	}

	var totals []float64
	for i := range list {
		p := &list[i]
		var adjustments []float64
		for _, a := range p.Adjustments {
			adjustments = append(adjustments, a.Delta)
		}
		row := []interface{}{
			p.Date, p.User.Hex(), names[p.User], p.Role, p.RoleWorkedAs,
			p.BaseSalary, p.Over, p.Short, p.Deduction, p.Withdrawal,
			ledger.Sum(adjustments...), p.TotalSalary, p.Status(),
		}
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := book.SetSheetRow(payrollSheet, cell, &row); err != nil {
			return nil, appErr(err)
		}
		totals = append(totals, p.TotalSalary)
	}

	last := len(list) + 2
	book.SetCellValue(payrollSheet, fmt.Sprintf("K%d", last), "Total")
	book.SetCellValue(payrollSheet, fmt.Sprintf("L%d", last), ledger.Sum(totals...))

	var buf bytes.Buffer
	if err := book.Write(&buf); err != nil {
		return nil, appErr(err)
	}
	return buf.Bytes(), nil
}
