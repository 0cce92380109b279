package query

import (
	"errors"
	"strings"
	"time"

	"github.com/iulianpascalau/views-badge/services/badge/common"
)

const (
	// launchDate is the first day with recorded traffic, every query starts here
	launchDate = "2020-01-01"

	pagePathDimension = "pagePath"
	viewsMetric       = "screenPageViews"
	containsMatch     = "CONTAINS"

	dateLayout = "2006-01-02"
)

// ErrEmptyPagePath signals a missing or blank page_path request parameter
var ErrEmptyPagePath = errors.New("missing or empty page_path parameter")

// BuildViewsQuery assembles the report query counting views of all pages whose
// path contains the provided value. The range ends at tomorrow (UTC) so the
// current day is always included regardless of the backend's timezone.
func BuildViewsQuery(pagePath string, now time.Time) (common.MetricQuery, error) {
	normalized := strings.ToLower(strings.TrimSpace(pagePath))
	if len(normalized) == 0 {
		return common.MetricQuery{}, ErrEmptyPagePath
	}

	endDate := now.UTC().AddDate(0, 0, 1).Format(dateLayout)

	return common.MetricQuery{
		DateRanges: []common.DateRange{
			{
				StartDate: launchDate,
				EndDate:   endDate,
			},
		},
		Dimensions: []common.Dimension{
			{
				Name: pagePathDimension,
			},
		},
		DimensionFilter: common.FilterExpression{
			Filter: common.Filter{
				FieldName: pagePathDimension,
				StringFilter: common.StringFilter{
					MatchType: containsMatch,
					Value:     normalized,
				},
			},
		},
		Metrics: []common.Metric{
			{
				Name: viewsMetric,
			},
		},
	}, nil
}
