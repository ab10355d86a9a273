package tui

// UI Layout Constants
// These constants define spacing, margins, and dimensions for the TUI layout

const (
	// Modal Dimensions - Standard margins for modal dialogs
	ModalWidthMargin  = 6 // Standard horizontal margin (m.width - 6)
	ModalHeightMargin = 3 // Standard vertical margin (m.height - 3)
	ModalMaxWidth     = 90

	// Viewport Padding and Borders
	ViewportBorderWidth       = 2 // Width consumed by borders
	ViewportPaddingHorizontal = 4 // Horizontal padding (left + right)

	// Modal Content Calculations
	ModalOverheadLines = 6 // Title (2) + padding (2) + border (2)
	ModalFooterLines   = 2 // Footer + blank line

	// Main layout
	HeaderLines      = 1 // Title and connection indicator
	SearchBoxLines   = 3 // Input + border
	SummaryCardLines = 4 // Value, label + border
	StatusBarLines   = 1
	ResultRowLines   = 3 // Title, details, badges

	// Split View Ratios
	ResultsWidthRatio = 0.55 // Result list share of the main area

	// Chart rendering
	ChartBarMaxWidth = 30
	ChartRowsFolded  = 8 // Bars shown before the panel is expanded

	// Status messages longer than this are truncated in the status bar
	StatusMaxLength = 100
)
