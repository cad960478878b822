package models

// Document is the root of the JSON output.
type Document struct {
	// Properties holds workbook metadata; nil when not requested.
	Properties *Properties `json:"Properties,omitempty"`
	// Workbook holds the sheets.
	Workbook WorkbookData `json:"Workbook"`
	// Tool identifies the converter that produced the document.
	Tool Tool `json:"Tool"`
}

// Properties holds workbook metadata.
type Properties struct {
	// Path is the absolute path of the input file.
	Path string `json:"Path"`
	// Author is the workbook creator.
	Author string `json:"Author"`
	// LastModifiedBy is the user who last saved the workbook.
	LastModifiedBy string `json:"LastModifiedBy"`
	// Company is the company application property.
	Company string `json:"Company"`
}

// WorkbookData represents workbook-level container with per-sheet data.
type WorkbookData struct {
	// Sheets holds the sheets in workbook order, as an array or a name-keyed object.
	Sheets *Collection[Sheet] `json:"Sheets"`
}

// Tool identifies the converter.
type Tool struct {
	Name    string `json:"Name"`
	Version string `json:"Version"`
}
