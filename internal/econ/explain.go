package econ

// Explain is the machine-readable record of every transformation a
// normalization applied, per spec.md §4.7.
type Explain struct {
	FX                 *FXExplain          `json:"fx,omitempty"`
	Magnitude          *MagnitudeExplain   `json:"magnitude,omitempty"`
	Periodicity        *PeriodicityExplain `json:"periodicity,omitempty"`
	Units              UnitsExplain        `json:"units"`
	Currency           *ComponentField     `json:"currency,omitempty"`
	Scale              *ComponentField     `json:"scale,omitempty"`
	TimeScale          *ComponentField     `json:"timeScale,omitempty"`
	ReportingFrequency Periodicity         `json:"reportingFrequency,omitempty"`
	BaseUnit           *BaseUnitExplain    `json:"baseUnit,omitempty"`
	Domain             string              `json:"domain,omitempty"`
	Conversion         *ConversionExplain  `json:"conversion,omitempty"`
	TargetSelection    *AutoTargetSelection `json:"targetSelection,omitempty"`
	QualityWarnings    []QualityWarning    `json:"qualityWarnings,omitempty"`
}

// FXExplain describes the currency conversion step, present only if a
// currency conversion actually ran.
type FXExplain struct {
	Currency string  `json:"currency"`
	Base     string  `json:"base"`
	Rate     float64 `json:"rate"` // rounded to 6dp for display
	AsOf     string  `json:"asOf,omitempty"`
	Source   string  `json:"source"` // "live" | "fallback"
	SourceID string  `json:"sourceId,omitempty"`
}

// Direction of a magnitude or time rescale.
type Direction string

const (
	DirUpscale    Direction = "upscale"
	DirDownscale  Direction = "downscale"
	DirNone       Direction = "none"
	DirUpsample   Direction = "upsample"
	DirDownsample Direction = "downsample"
)

// MagnitudeExplain describes the magnitude (scale) rescale step. Present
// only when the scale actually changed.
type MagnitudeExplain struct {
	OriginalScale Scale     `json:"originalScale"`
	TargetScale   Scale     `json:"targetScale"`
	Factor        float64   `json:"factor"`
	Direction     Direction `json:"direction"`
	Description   string    `json:"description"`
}

// PeriodicityExplain describes the time-basis rescale step.
type PeriodicityExplain struct {
	Original    TimeScale `json:"original,omitempty"`
	Target      TimeScale `json:"target,omitempty"`
	Adjusted    bool      `json:"adjusted"`
	Factor      float64   `json:"factor"`
	Direction   Direction `json:"direction"`
	Description string    `json:"description,omitempty"`
	Reason      string    `json:"reason,omitempty"`
}

// UnitsExplain carries the original and normalized unit strings, both
// short and "full" forms.
type UnitsExplain struct {
	OriginalUnit       string `json:"originalUnit"`
	NormalizedUnit     string `json:"normalizedUnit"`
	OriginalFullUnit   string `json:"originalFullUnit"`
	NormalizedFullUnit string `json:"normalizedFullUnit"`
}

// ComponentField mirrors a dimension's before/after value for easy
// consumer access without walking the nested structs above.
type ComponentField struct {
	Original string `json:"original"`
	Target   string `json:"target"`
	Changed  bool   `json:"changed"`
}

// BaseUnitExplain is attached for non-currency measures.
type BaseUnitExplain struct {
	Normalized string   `json:"normalized"`
	Category   Category `json:"category"`
}

// ConversionStep is one entry of ConversionExplain.Steps, in the strict
// processing order Scale, Currency, Time (spec.md §4.7).
type ConversionStep struct {
	Kind   string  `json:"kind"` // "scale" | "currency" | "time"
	Factor float64 `json:"factor"`
	Detail string  `json:"detail"`
}

// ConversionExplain summarizes the full chain of applied factors. Absent
// when no conversions ran.
type ConversionExplain struct {
	Steps       []ConversionStep `json:"steps"`
	Summary     string           `json:"summary"`
	TotalFactor float64          `json:"totalFactor"`
}
