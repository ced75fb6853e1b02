// Package model defines the record types shared across extraction,
// persistence, enrichment, and the read API.
package model

import "time"

// WellRecord is one extracted well, one per source document. Text fields use
// "N/A" for missing values at persistence time; numeric fields use nil.
type WellRecord struct {
	ID               int64    `json:"id"`
	APINumber        string   `json:"api_number,omitempty"` // formatted NN-NNN-NNNNN, empty when absent
	WellFileNo       string   `json:"well_file_no,omitempty"`
	WellName         string   `json:"well_name,omitempty"`
	Latitude         *float64 `json:"latitude,omitempty"` // decimal degrees, signed
	Longitude        *float64 `json:"longitude,omitempty"`
	Address          string   `json:"address,omitempty"`
	County           string   `json:"county,omitempty"`
	Field            string   `json:"field,omitempty"`
	Operator         string   `json:"operator,omitempty"`
	PermitNumber     string   `json:"permit_number,omitempty"`
	PermitDate       string   `json:"permit_date,omitempty"`
	TotalDepth       string   `json:"total_depth,omitempty"` // value + unit, e.g. "9500 ft"
	Formation        string   `json:"formation,omitempty"`
	StimulationNotes string   `json:"stimulation_notes,omitempty"`
	RawExtract       string   `json:"raw_extract,omitempty"`
	PDFSource        string   `json:"pdf_source"` // provenance tag, unique per document

	Stimulations []StimulationRecord `json:"stimulations,omitempty"`

	Enrichment *Enrichment `json:"enrichment,omitempty"`
}

// StimulationRecord is one treatment event on a well interval. Rows are owned
// by their WellRecord and fully replaced on re-extraction.
type StimulationRecord struct {
	ID             int64    `json:"id"`
	WellID         int64    `json:"well_id"`
	DateStimulated string   `json:"date_stimulated,omitempty"` // ISO when parseable, raw otherwise
	Formation      string   `json:"stimulated_formation,omitempty"`
	TopFt          *float64 `json:"top_ft,omitempty"`
	BottomFt       *float64 `json:"bottom_ft,omitempty"`
	Stages         *int     `json:"stimulation_stages,omitempty"`
	Volume         *float64 `json:"volume,omitempty"`
	VolumeUnits    string   `json:"volume_units,omitempty"`
	TypeTreatment  string   `json:"type_treatment,omitempty"`
	AcidPct        string   `json:"acid_pct,omitempty"` // 0-100, kept as text
	LbsProppant    *float64 `json:"lbs_proppant,omitempty"`
	MaxPressurePSI *float64 `json:"max_treatment_pressure_psi,omitempty"`
	MaxRate        *float64 `json:"max_treatment_rate,omitempty"`
	Details        string   `json:"details,omitempty"`
}

// Enrichment holds fields scraped from the external well-data site.
type Enrichment struct {
	WellStatus    string `json:"well_status,omitempty"`
	WellType      string `json:"well_type,omitempty"`
	ClosestCity   string `json:"closest_city,omitempty"`
	BarrelsOil    string `json:"barrels_oil_produced,omitempty"`
	MCFGas        string `json:"mcf_gas_produced,omitempty"`
	SourceURL     string `json:"drillingedge_url,omitempty"`
}

// ExtractionRun is one batch extraction invocation, for audit.
type ExtractionRun struct {
	ID         string    `json:"id"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at,omitempty"`
	Documents  int       `json:"documents"`
	Wells      int       `json:"wells"`
	StimRows   int       `json:"stim_rows"`
	Failures   int       `json:"failures"`
}
