package model

// Unit conversion factors to points.
const (
	TwipsPerPoint      = 20.0
	EMUPerPoint        = 12700.0
	PointsPerInch      = 72.0
	CharWidthPoints    = 7.0
	DefaultColumnWidth = 8.43 // characters
)

// TwipsToPoints converts twentieths of a point to points.
func TwipsToPoints(v float64) float64 { return v / TwipsPerPoint }

// EMUToPoints converts English Metric Units to points.
func EMUToPoints(v float64) float64 { return v / EMUPerPoint }

// HalfPointsToPoints converts half-points (word-processing font sizes).
func HalfPointsToPoints(v float64) float64 { return v / 2 }

// HundredthsToPoints converts hundredths of a point (presentation font
// sizes).
func HundredthsToPoints(v float64) float64 { return v / 100 }

// InchesToPoints converts inches to points.
func InchesToPoints(v float64) float64 { return v * PointsPerInch }

// ColumnWidthToPoints converts a spreadsheet column width in characters to
// points.
func ColumnWidthToPoints(v float64) float64 { return v * CharWidthPoints }

// Float returns a pointer to v.
func Float(v float64) *float64 { return &v }
