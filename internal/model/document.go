package model

// Document is the input contract from the layout/table recognizer: per
// document, page-ordered plain text plus the tables found on each page.
type Document struct {
	// Source is the originating filename, e.g. "W12345.pdf". It doubles as
	// the upsert key: one document produces at most one WellRecord.
	Source string `json:"source"`
	Pages  []Page `json:"pages"`
}

// Page holds one page's extracted text and recognized tables.
type Page struct {
	Text   string  `json:"text"`
	Tables []Table `json:"tables,omitempty"`
}

// Table is a list of rows of nullable cells, as produced by the layout
// recognizer. A nil cell means the recognizer found no text in that slot.
type Table [][]*string
