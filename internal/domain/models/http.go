package models

// BirthDateLayout is the wire format for chart instants. The timezone
// field supplies the zone, so the instant itself carries no offset.
const BirthDateLayout = "2006-01-02T15:04:05"

// ConfigOverrides carries per-request calculation options merged onto
// the documented defaults. Coordinates are range-checked by the domain,
// not here, so an out-of-range latitude surfaces as a typed domain
// error rather than a schema rejection.
type ConfigOverrides struct {
	HouseSystem string             `json:"house_system" default:"placidus" validate:"omitempty,oneof=placidus koch porphyry equal whole_sign"`
	Zodiac      string             `json:"zodiac" default:"tropical" validate:"omitempty,oneof=tropical sidereal"`
	Ayanamsa    float64            `json:"ayanamsa,omitempty"`
	Node        string             `json:"node" default:"true" validate:"omitempty,oneof=true mean"`
	Fortune     string             `json:"fortune" default:"traditional" validate:"omitempty,oneof=traditional modern"`
	MajorOnly   bool               `json:"major_only"`
	OrbFactor   float64            `json:"orb_factor" default:"1" validate:"omitempty,gt=0"`
	Orbs        map[string]float64 `json:"orbs,omitempty"`
}

// Resolve merges the overrides onto DefaultChartConfig.
func (o *ConfigOverrides) Resolve() ChartConfig {
	cfg := DefaultChartConfig()
	if o == nil {
		return cfg
	}
	if o.HouseSystem != "" {
		cfg.HouseSystem = HouseSystem(o.HouseSystem)
	}
	if o.Zodiac != "" {
		cfg.Zodiac = Zodiac(o.Zodiac)
	}
	cfg.Ayanamsa = o.Ayanamsa
	if o.Node != "" {
		cfg.Node = NodeKind(o.Node)
	}
	if o.Fortune != "" {
		cfg.Fortune = FortuneFormula(o.Fortune)
	}
	cfg.MajorOnly = o.MajorOnly
	if o.OrbFactor > 0 {
		cfg.OrbFactor = o.OrbFactor
	}
	for i, a := range cfg.Aspects {
		if orb, ok := o.Orbs[a.Name]; ok && orb > 0 {
			// a flat override replaces the class tables entirely
			cfg.Aspects[i].Orb = orb
			cfg.Aspects[i].NatalOrbs = [4]float64{}
			cfg.Aspects[i].TransitOrbs = [4]float64{}
		}
	}
	return cfg
}

// NatalChartRequest describes one natal chart calculation.
type NatalChartRequest struct {
	BirthDate string           `json:"birth_date" validate:"required,datetime=2006-01-02T15:04:05"`
	Latitude  float64          `json:"latitude"`
	Longitude float64          `json:"longitude"`
	Timezone  string           `json:"timezone" default:"UTC"`
	Bodies    []string         `json:"bodies,omitempty"`
	Config    *ConfigOverrides `json:"config,omitempty"`
}

// NatalChartBatchRequest fans out independent chart calculations.
type NatalChartBatchRequest struct {
	Charts []NatalChartRequest `json:"charts" validate:"required,min=1,max=50,dive"`
}

// TransitChartRequest places current positions against a natal chart.
type TransitChartRequest struct {
	Natal          NatalChartRequest `json:"natal" validate:"required"`
	TransitDate    string            `json:"transit_date" validate:"required,datetime=2006-01-02T15:04:05"`
	TransitTZ      string            `json:"transit_timezone" default:"UTC"`
	IncludeMutual  bool              `json:"include_mutual"`
	TransitBodies  []string          `json:"transit_bodies,omitempty"`
}

// TransitChartBatchRequest fans out independent transit calculations.
type TransitChartBatchRequest struct {
	Transits []TransitChartRequest `json:"transits" validate:"required,min=1,max=50,dive"`
}

// TransitSearchRequest asks for exact-aspect instants within a range.
// Step, tolerance and iteration budget are tunable per request; unset
// values fall back to the server-configured search defaults.
type TransitSearchRequest struct {
	Natal            NatalChartRequest `json:"natal" validate:"required"`
	RangeStart       string            `json:"range_start" validate:"required,datetime=2006-01-02T15:04:05"`
	RangeEnd         string            `json:"range_end" validate:"required,datetime=2006-01-02T15:04:05"`
	RangeTZ          string            `json:"range_timezone" default:"UTC"`
	TransitingBodies []string          `json:"transiting_bodies,omitempty"`
	NatalBodies      []string          `json:"natal_bodies,omitempty"`
	Aspects          []string          `json:"aspects,omitempty"`
	StepHours        float64           `json:"step_hours" validate:"omitempty,gt=0,lte=168"`
	ToleranceDeg     float64           `json:"tolerance_deg" validate:"omitempty,gt=0"`
	MaxIterations    int               `json:"max_iterations" validate:"omitempty,gt=0,lte=1000"`
	DedupMinutes     float64           `json:"dedup_minutes" validate:"omitempty,gte=0"`
}

// ChartResponse is a computed natal chart.
type ChartResponse struct {
	Bodies  []CelestialBody `json:"bodies"`
	Houses  HouseCusps      `json:"houses"`
	Aspects []AspectResult  `json:"aspects"`
	Config  ChartConfig     `json:"config"`
}

// TransitChartResponse is a transit chart against a natal chart.
// Aspects holds cross aspects transiting-to-natal; MutualAspects holds
// transiting-to-transiting pairs when requested.
type TransitChartResponse struct {
	Transiting    []CelestialBody `json:"transiting"`
	Natal         []CelestialBody `json:"natal"`
	Houses        HouseCusps      `json:"houses"`
	Aspects       []AspectResult  `json:"aspects"`
	MutualAspects []AspectResult  `json:"mutual_aspects,omitempty"`
}

// TransitSearchResponse holds exact events in chronological order.
// Truncated is set when a deadline cut the scan short; FailedBrackets
// counts brackets where refinement did not converge.
type TransitSearchResponse struct {
	Events         []TransitEvent `json:"events"`
	Truncated      bool           `json:"truncated"`
	FailedBrackets int            `json:"failed_brackets"`
}

// BatchItemError describes one failed batch slot.
type BatchItemError struct {
	Kind    string `json:"kind"`
	Message string `json:"message"`
}

// ChartBatchItem is one slot of a chart batch, in input order.
type ChartBatchItem struct {
	Index int             `json:"index"`
	Chart *ChartResponse  `json:"chart,omitempty"`
	Error *BatchItemError `json:"error,omitempty"`
}

// ChartBatchResponse is the outcome of a chart batch call.
type ChartBatchResponse struct {
	Results []ChartBatchItem `json:"results"`
	Summary BatchSummary     `json:"summary"`
}

// TransitBatchItem is one slot of a transit batch, in input order.
type TransitBatchItem struct {
	Index   int                   `json:"index"`
	Transit *TransitChartResponse `json:"transit,omitempty"`
	Error   *BatchItemError       `json:"error,omitempty"`
}

// TransitBatchResponse is the outcome of a transit batch call.
type TransitBatchResponse struct {
	Results []TransitBatchItem `json:"results"`
	Summary BatchSummary       `json:"summary"`
}

// HouseSystemInfo describes one supported house system.
type HouseSystemInfo struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Quadrant bool   `json:"quadrant"`
}
