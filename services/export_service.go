package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/Amanzhol04/esports-portal/models"
	"github.com/xuri/excelize/v2"
)

const exportSheetName = "Registrations"

// ExportService выгружает заявки турнира в таблицу для организаторов.
// Число колонок участников подстраивается под самую большую команду.
type ExportService struct {
	registrations *RegistrationService
}

func NewExportService(registrations *RegistrationService) *ExportService {
	return &ExportService{registrations: registrations}
}

func (s *ExportService) ExportCSV(ctx context.Context, tournamentID string) ([]byte, error) {
	regs, err := s.registrations.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	maxMembers := maxMemberCount(regs)
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportHeaders(maxMembers)); err != nil {
		return nil, fmt.Errorf("failed to write csv header: %w", err)
	}
	for _, reg := range regs {
		if err := w.Write(exportRow(reg, maxMembers)); err != nil {
			return nil, fmt.Errorf("failed to write csv row: %w", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, fmt.Errorf("failed to flush csv: %w", err)
	}
	return buf.Bytes(), nil
}

func (s *ExportService) ExportXLSX(ctx context.Context, tournamentID string) ([]byte, error) {
	regs, err := s.registrations.ListByTournament(ctx, tournamentID)
	if err != nil {
		return nil, err
	}

	maxMembers := maxMemberCount(regs)
	headers := exportHeaders(maxMembers)

	f := excelize.NewFile()
	defer f.Close()
	if err := f.SetSheetName("Sheet1", exportSheetName); err != nil {
		return nil, fmt.Errorf("failed to rename sheet: %w", err)
	}

	for col, header := range headers {
		cell, err := excelize.CoordinatesToCellName(col+1, 1)
		if err != nil {
			return nil, fmt.Errorf("failed to build cell name: %w", err)
		}
		if err := f.SetCellValue(exportSheetName, cell, header); err != nil {
			return nil, fmt.Errorf("failed to write header cell: %w", err)
		}
	}

	boldStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err == nil {
		lastHeaderCell, _ := excelize.CoordinatesToCellName(len(headers), 1)
		_ = f.SetCellStyle(exportSheetName, "A1", lastHeaderCell, boldStyle)
	}

	for rowIdx, reg := range regs {
		for col, value := range exportRow(reg, maxMembers) {
			cell, err := excelize.CoordinatesToCellName(col+1, rowIdx+2)
			if err != nil {
				return nil, fmt.Errorf("failed to build cell name: %w", err)
			}
			if err := f.SetCellValue(exportSheetName, cell, value); err != nil {
				return nil, fmt.Errorf("failed to write cell: %w", err)
			}
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to serialize workbook: %w", err)
	}
	return buf.Bytes(), nil
}

func maxMemberCount(regs []*models.Registration) int {
	max := 0
	for _, reg := range regs {
		if len(reg.Members) > max {
			max = len(reg.Members)
		}
	}
	return max
}

func exportHeaders(maxMembers int) []string {
	headers := []string{
		"ID", "Team", "University", "Phone",
		"Leader Name", "Leader Email", "Leader RegNo", "Leader Game ID",
	}
	for i := 1; i <= maxMembers; i++ {
		n := strconv.Itoa(i)
		headers = append(headers,
			"Member "+n+" Name",
			"Member "+n+" RegNo",
			"Member "+n+" Email",
			"Member "+n+" Game ID",
		)
	}
	return append(headers, "Registered At")
}

func exportRow(reg *models.Registration, maxMembers int) []string {
	phone := ""
	if reg.Phone != nil {
		phone = *reg.Phone
	}
	row := []string{
		reg.ID, reg.TeamName, reg.University, phone,
		reg.Leader.Name, reg.Leader.Email, reg.Leader.RegistrationNo, reg.Leader.GameID,
	}
	for i := 0; i < maxMembers; i++ {
		if i < len(reg.Members) {
			m := reg.Members[i]
			row = append(row, m.Name, m.RegistrationNo, m.Email, m.GameID)
		} else {
			row = append(row, "", "", "", "")
		}
	}
	return append(row, reg.CreatedAt.UTC().Format(time.RFC3339))
}
