package common

// DateRange bounds a report query in time, dates formatted as YYYY-MM-DD
type DateRange struct {
	StartDate string `json:"startDate"`
	EndDate   string `json:"endDate"`
}

// Dimension identifies a categorical grouping field of the report
type Dimension struct {
	Name string `json:"name"`
}

// Metric identifies a numeric measurement field of the report
type Metric struct {
	Name string `json:"name"`
}

// StringFilter holds the match rule applied on a dimension value
type StringFilter struct {
	MatchType string `json:"matchType"`
	Value     string `json:"value"`
}

// Filter applies a string filter on a single field
type Filter struct {
	FieldName    string       `json:"fieldName"`
	StringFilter StringFilter `json:"stringFilter"`
}

// FilterExpression wraps a filter the way the reporting backend expects it
type FilterExpression struct {
	Filter Filter `json:"filter"`
}

// MetricQuery mirrors the runReport request body of the analytics backend
type MetricQuery struct {
	DateRanges      []DateRange      `json:"dateRanges"`
	Dimensions      []Dimension      `json:"dimensions"`
	DimensionFilter FilterExpression `json:"dimensionFilter"`
	Metrics         []Metric         `json:"metrics"`
}

// ReportRow is one row of an analytics report, metric values are decimal-string encoded
type ReportRow struct {
	DimensionValues []string `json:"dimensionValues"`
	MetricValues    []string `json:"metricValues"`
}

// AggregatedResult is the fold of a whole report into a single count plus the
// dimension values that matched the query filter
type AggregatedResult struct {
	TotalCount      int64
	DimensionValues []string
}

// Badge holds everything needed to render one badge image
type Badge struct {
	Label         string
	ValueText     string
	MetadataLines []string
}

// CacheEntry associates a rendered response body and its headers with a request identity
type CacheEntry struct {
	Body         string `json:"body"`
	ContentType  string `json:"contentType"`
	CacheControl string `json:"cacheControl"`
	StoredAt     int64  `json:"storedAt"`
}
