package services

import (
	"bytes"
	"context"
	"encoding/csv"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func seedExportRegistrations(t *testing.T) *ExportService {
	t.Helper()

	regRepo := &fakeRegistrationRepository{}
	svc := newTestService(regRepo, testTournament("t1", 16))
	ctx := context.Background()

	big := validInput("Alpha", "alpha@example.com", "22B1")
	_, _, err := svc.Register(ctx, "t1", big)
	require.NoError(t, err)

	small := validInput("Beta", "beta@example.com", "22B2")
	small.Members = small.Members[:1]
	_, _, err = svc.Register(ctx, "t1", small)
	require.NoError(t, err)

	return NewExportService(svc)
}

func TestExportCSV(t *testing.T) {
	export := seedExportRegistrations(t)

	data, err := export.ExportCSV(context.Background(), "t1")
	require.NoError(t, err)

	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	require.NoError(t, err)
	require.Len(t, records, 3) // header + 2 rows

	header := records[0]
	assert.Contains(t, header, "Team")
	assert.Contains(t, header, "Leader Email")
	assert.Contains(t, header, "Member 2 Name")
	assert.NotContains(t, header, "Member 3 Name")

	// Все строки выровнены под самую большую команду.
	for _, row := range records {
		assert.Len(t, row, len(header))
	}
	assert.Equal(t, "Alpha", records[1][1])
	assert.Equal(t, "Beta", records[2][1])
}

func TestExportXLSX(t *testing.T) {
	export := seedExportRegistrations(t)

	data, err := export.ExportXLSX(context.Background(), "t1")
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	require.Len(t, rows, 3)

	assert.Equal(t, "ID", rows[0][0])
	assert.Equal(t, "Alpha", rows[1][1])
	assert.Equal(t, "alpha@example.com", rows[1][5])
}

func TestExportUnknownTournament(t *testing.T) {
	export := seedExportRegistrations(t)

	_, err := export.ExportCSV(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrTournamentNotFound)
}
