package analysis

import (
	"github.com/KaramelBytes/dataloom-cli/internal/dataset"
)

// Options selects the columns single-candidate analyzers work on and bounds
// the size of the profile.
type Options struct {
	// PrimaryCategorical feeds top categories and category KPIs. Empty selects
	// the first categorical column in table order.
	PrimaryCategorical string
	// PrimaryNumeric feeds category KPIs and the distribution. Empty selects
	// the first numeric column in table order.
	PrimaryNumeric string
	// PrimaryDate feeds the trend. Empty selects the first date column.
	PrimaryDate string
	// TrendMeasure sums a column per month instead of counting rows.
	TrendMeasure string
	// KPILimit caps the numeric columns summarized as KPIs.
	KPILimit int
	// TopCategories caps the value counts kept for the primary categorical column.
	TopCategories int
	// TopCorrelations caps the ranked correlation list.
	TopCorrelations int
	// MaxPairColumns caps the numeric columns fed to pairwise scans; 0 means all.
	MaxPairColumns int
}

// DefaultOptions returns the standard profile bounds.
func DefaultOptions() Options {
	return Options{
		KPILimit:        5,
		TopCategories:   6,
		TopCorrelations: 5,
	}
}

// Profile is a read-only snapshot of a dataset's statistics.
type Profile struct {
	Name                string         `json:"name,omitempty"`
	Classification      Classification `json:"-"`
	Numeric             []string       `json:"numeric"`
	Categorical         []string       `json:"categorical"`
	DateCols            []string       `json:"dateCols"`
	DateCol             string         `json:"dateCol,omitempty"`
	KPIs                []KPI          `json:"kpis"`
	TopCatCol           string         `json:"topCatCol,omitempty"`
	TopCats             []NameValue    `json:"topCats"`
	Trend               []TrendPoint   `json:"trend"`
	Pair                *Pair          `json:"pair"`
	NRows               int            `json:"nRows"`
	NCols               int            `json:"nCols"`
	Cols                []string       `json:"cols"`
	TopCorrelations     []Pair         `json:"topCorrelations"`
	Seasonality         []SeasonPoint  `json:"seasonality"`
	CategoryCol         string         `json:"categoryCol,omitempty"`
	MeasureCol          string         `json:"measureCol,omitempty"`
	CategoryKPIs        []CategoryKPI  `json:"categoryKPIs"`
	Distribution        []Bin          `json:"distribution"`
	RankedRelationships []Relationship `json:"rankedRelationships"`
	Extremes            *Segments      `json:"extremes"`
	Anomalies           []Anomaly      `json:"anomalies"`
}

// BuildProfile runs type inference and every analyzer over t. Unknown primary
// column names fall back to the default selection.
func BuildProfile(t *dataset.Table, opt Options) *Profile {
	def := DefaultOptions()
	if opt.KPILimit <= 0 {
		opt.KPILimit = def.KPILimit
	}
	if opt.TopCategories <= 0 {
		opt.TopCategories = def.TopCategories
	}
	if opt.TopCorrelations <= 0 {
		opt.TopCorrelations = def.TopCorrelations
	}
	p := &Profile{}
	if t == nil {
		t = &dataset.Table{}
	}
	rows := t.Rows
	p.Name = t.Name
	p.Cols = append([]string{}, t.Columns...)
	p.NRows = len(rows)
	p.NCols = len(t.Columns)

	cls := DetectTypes(t)
	p.Classification = cls
	p.Numeric = cls.Numeric()
	p.Categorical = cls.Categorical()
	p.DateCols = cls.Dates()

	catCol := pick(t, opt.PrimaryCategorical, p.Categorical)
	numCol := pick(t, opt.PrimaryNumeric, p.Numeric)
	p.DateCol = pick(t, opt.PrimaryDate, p.DateCols)

	p.KPIs = QuickKPIs(rows, p.Numeric, opt.KPILimit)

	p.TopCats = []NameValue{}
	if catCol != "" {
		p.TopCatCol = catCol
		for i, vc := range GroupCount(rows, catCol) {
			if i >= opt.TopCategories {
				break
			}
			p.TopCats = append(p.TopCats, NameValue{Name: vc.Value, Value: float64(vc.Count)})
		}
	}

	if opt.TrendMeasure != "" && t.HasColumn(opt.TrendMeasure) {
		p.Trend = MonthlySum(rows, p.DateCol, opt.TrendMeasure)
	} else {
		p.Trend = MonthlyTrend(rows, p.DateCol)
	}

	pairCols := p.Numeric
	if opt.MaxPairColumns > 0 && len(pairCols) > opt.MaxPairColumns {
		pairCols = pairCols[:opt.MaxPairColumns]
	}
	p.Pair = BestNumericPair(rows, pairCols)
	p.TopCorrelations = TopCorrelations(rows, pairCols, opt.TopCorrelations)
	p.Seasonality = DetectSeasonality(p.Trend)

	p.CategoryCol, p.MeasureCol = catCol, numCol
	p.CategoryKPIs = CategoryKPIs(rows, catCol, numCol)
	p.Distribution = Distribution(rows, numCol)
	p.RankedRelationships = RankRelationships(rows, pairCols)
	p.Extremes = TopBottomSegments(p.CategoryKPIs)
	p.Anomalies = DetectAnomalies(p.Trend)
	return p
}

func pick(t *dataset.Table, override string, candidates []string) string {
	if override != "" && t.HasColumn(override) {
		return override
	}
	if len(candidates) > 0 {
		return candidates[0]
	}
	return ""
}
