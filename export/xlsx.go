package export

import (
	"fmt"
	"io"

	"github.com/pivolan/bandwidth_insights/domain/models"
	"github.com/xuri/excelize/v2"
)

const (
	SheetRecords = "records"
	SheetSummary = "summary"
	SheetRegions = "by_region"
	SheetStates  = "by_state"
	SheetMatrix  = "region_client"
)

var recordHeader = []interface{}{
	models.ColumnSerial, models.ColumnCompany, models.ColumnBranch, models.ColumnState, models.ColumnRegion,
	models.ColumnNetwork, models.ColumnBandwidth, models.ColumnStatus, models.ColumnClient,
}

// WriteWorkbook writes the records and their metrics as an XLSX workbook with
// one sheet per table.
func WriteWorkbook(w io.Writer, snap models.Snapshot, records []models.ClientRecord) error {
	x := excelize.NewFile()
	defer x.Close()

	if err := x.SetSheetName("Sheet1", SheetRecords); err != nil {
		return err
	}
	if err := writeRows(x, SheetRecords, recordRows(records)); err != nil {
		return err
	}

	sheets := []struct {
		name string
		rows [][]interface{}
	}{
		{SheetSummary, summaryRows(snap)},
		{SheetRegions, breakdownRows("Region", snap.Metrics.BandwidthByRegion)},
		{SheetStates, breakdownRows("State", snap.Metrics.BandwidthByState)},
		{SheetMatrix, matrixRows(snap.Metrics.RegionByClient)},
	}
	for _, s := range sheets {
		if _, err := x.NewSheet(s.name); err != nil {
			return fmt.Errorf("sheet %s: %w", s.name, err)
		}
		if err := writeRows(x, s.name, s.rows); err != nil {
			return err
		}
	}
	x.SetActiveSheet(0)

	_, err := x.WriteTo(w)
	return err
}

func writeRows(x *excelize.File, sheet string, rows [][]interface{}) error {
	for r, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, r+1)
		if err != nil {
			return err
		}
		row := row
		if err := x.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("sheet %s row %d: %w", sheet, r+1, err)
		}
	}
	return nil
}

func recordRows(records []models.ClientRecord) [][]interface{} {
	rows := [][]interface{}{recordHeader}
	for _, r := range records {
		rows = append(rows, []interface{}{
			r.Serial, r.Company, r.Branch, r.State, r.Region,
			r.Network, r.Bandwidth, string(r.Status), string(r.ClientType),
		})
	}
	return rows
}

func summaryRows(snap models.Snapshot) [][]interface{} {
	m := snap.Metrics
	return [][]interface{}{
		{"Metric", "Value"},
		{"Filter", snap.Filter},
		{"Total bandwidth (Mbps)", m.TotalBandwidth},
		{"Records", m.RecordCount},
		{"Active customers", m.ActiveCount},
		{"Inactive customers", m.InactiveCount},
		{"Unknown status", m.UnknownStatusCount},
		{"Corporate customers", m.CorporateCount},
		{"Retail customers", m.RetailCount},
		{"Active bandwidth (Mbps)", m.ActiveBandwidth},
		{"Inactive bandwidth (Mbps)", m.InactiveBandwidth},
		{"Average bandwidth (Mbps)", m.AverageBandwidth},
		{"Median bandwidth (Mbps)", m.Distribution.Median},
		{"Rows excluded", snap.Excluded},
		{"Client type conflicts", snap.Conflicts},
	}
}

func breakdownRows(label string, b models.Breakdown) [][]interface{} {
	rows := [][]interface{}{{label, "Bandwidth (Mbps)", "Customers"}}
	for _, g := range b {
		rows = append(rows, []interface{}{g.Key, g.Bandwidth, g.Count})
	}
	return rows
}

func matrixRows(cells []models.RegionClientTotal) [][]interface{} {
	rows := [][]interface{}{{"Region", "Client Type", "Bandwidth (Mbps)", "Customers"}}
	for _, c := range cells {
		rows = append(rows, []interface{}{c.Region, string(c.ClientType), c.Bandwidth, c.Count})
	}
	return rows
}
