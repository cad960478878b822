package models

// Visibility is the visibility state of a sheet tab.
type Visibility string

const (
	VisibilityVisible    Visibility = "Visible"
	VisibilityHidden     Visibility = "Hidden"
	VisibilityVeryHidden Visibility = "VeryHidden"
)

// SheetInfo holds protection, visibility and view state of a sheet.
type SheetInfo struct {
	// Protected reports whether sheet protection is enabled.
	Protected bool `json:"Protected"`
	// PasswordProtected reports whether the protection carries a password.
	PasswordProtected bool `json:"PasswordProtected"`
	// Visible reports whether the tab is visible.
	Visible bool `json:"Visible"`
	// Visibility is the visibility state name.
	Visibility Visibility `json:"Visibility"`
	// Active reports whether this is the active sheet of the workbook.
	Active bool `json:"Active"`
	// Selected reports whether the tab is selected.
	Selected bool `json:"Selected"`
	// ZoomScale is the zoom percentage of the first sheet view.
	ZoomScale int `json:"ZoomScale"`
}

// Sheet represents structured data for a single sheet.
type Sheet struct {
	// Name is the sheet name.
	Name string `json:"Name"`
	// SheetInfo is present only when sheet information is requested.
	*SheetInfo
	// Cells holds the used cells; nil when cell data is not requested.
	Cells *Collection[Cell] `json:"Cells,omitempty"`
}
