package models

import "time"

type ClientType string
type CustomerStatus string

const (
	ClientCorporate ClientType = "Corporate"
	ClientRetail    ClientType = "Retail"
	ClientUnknown   ClientType = "Unknown"
)

const (
	StatusActive   CustomerStatus = "Active"
	StatusInactive CustomerStatus = "Inactive"
	StatusUnknown  CustomerStatus = "Unknown"
)

// Source column names of the merged client dataset
const (
	ColumnSerial     = "S/N"
	ColumnCompany    = "COMPANY NAME"
	ColumnBranch     = "BRANCH/LOCATION"
	ColumnState      = "STATE"
	ColumnRegion     = "REGION"
	ColumnNetwork    = "WAN/INTERNET CLIENT"
	ColumnBandwidth  = "BANDWIDTH SUBSCRIPTION (Mbps)"
	ColumnStatus     = "CUSTOMER STATUS"
	ColumnClient     = "CLIENT"
	ColumnClientType = "Client Type"
)

// RawRecord is one row as it comes out of the CSV, before normalization.
type RawRecord struct {
	Serial     string `csv:"S/N,omitempty"`
	Company    string `csv:"COMPANY NAME"`
	Branch     string `csv:"BRANCH/LOCATION"`
	State      string `csv:"STATE"`
	Region     string `csv:"REGION"`
	Network    string `csv:"WAN/INTERNET CLIENT"`
	Bandwidth  string `csv:"BANDWIDTH SUBSCRIPTION (Mbps)"`
	Status     string `csv:"CUSTOMER STATUS"`
	Client     string `csv:"CLIENT,omitempty"`
	ClientType string `csv:"Client Type,omitempty"`
	Row        int    `csv:"-"`
}

// ClientRecord is a normalized row. Bandwidth is in Mbps and never negative.
type ClientRecord struct {
	Serial     string         `csv:"S/N"`
	Company    string         `csv:"COMPANY NAME"`
	Branch     string         `csv:"BRANCH/LOCATION"`
	State      string         `csv:"STATE"`
	Region     string         `csv:"REGION"`
	Network    string         `csv:"WAN/INTERNET CLIENT"`
	Bandwidth  float64        `csv:"BANDWIDTH SUBSCRIPTION (Mbps)"`
	Status     CustomerStatus `csv:"CUSTOMER STATUS"`
	ClientType ClientType     `csv:"CLIENT"`
	Row        int            `csv:"-"`
}

// GroupTotal is the bandwidth and record count of one group key.
type GroupTotal struct {
	Key       string
	Bandwidth float64
	Count     int
}

// Breakdown keeps groups in the order their keys were first encountered.
type Breakdown []GroupTotal

func (b Breakdown) Get(key string) (GroupTotal, bool) {
	for _, g := range b {
		if g.Key == key {
			return g, true
		}
	}
	return GroupTotal{}, false
}

func (b Breakdown) Keys() []string {
	keys := make([]string, len(b))
	for i, g := range b {
		keys[i] = g.Key
	}
	return keys
}

func (b Breakdown) TotalBandwidth() float64 {
	total := 0.0
	for _, g := range b {
		total += g.Bandwidth
	}
	return total
}

func (b Breakdown) TotalCount() int {
	total := 0
	for _, g := range b {
		total += g.Count
	}
	return total
}

type BandwidthStats struct {
	Min    float64
	Max    float64
	Median float64
	Q1     float64
	Q3     float64
}

// RegionClientTotal is one cell of the region x client type breakdown.
type RegionClientTotal struct {
	Region     string
	ClientType ClientType
	Bandwidth  float64
	Count      int
}

type AggregateMetrics struct {
	TotalBandwidth     float64
	RecordCount        int
	ActiveCount        int
	InactiveCount      int
	UnknownStatusCount int
	ActiveBandwidth    float64
	InactiveBandwidth  float64
	AverageBandwidth   float64
	CorporateCount     int
	RetailCount        int
	BandwidthByRegion  Breakdown
	BandwidthByState   Breakdown
	BandwidthByNetwork Breakdown
	BandwidthByClient  Breakdown
	RegionByClient     []RegionClientTotal
	Distribution       BandwidthStats
}

// LoadReport summarizes what happened to the rows of a source file.
type LoadReport struct {
	RowsRead       int
	RowsAccepted   int
	BlankRows      int
	Exclusions     []DataQualityError
	Conflicts      int
	UnknownClients []UnknownCategoryError
	UnknownStatus  []UnknownCategoryError
}

func (r LoadReport) ExcludedCount() int {
	return len(r.Exclusions)
}

// Snapshot is what the PDF and the dashboard render.
type Snapshot struct {
	Title         string
	GeneratedAt   time.Time
	Filter        string
	Metrics       AggregateMetrics
	TopRecords    []ClientRecord
	TopCompanies  Breakdown
	TopBranches   Breakdown
	TopStates     Breakdown
	StatesByCount Breakdown
	Excluded      int
	Conflicts     int
}
