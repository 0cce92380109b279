package report

import (
	"strconv"

	"github.com/iulianpascalau/views-badge/services/badge/common"
)

// Aggregate folds a backend report into a single count by summing every metric
// value of every row. Unparseable metric values count as 0 so one malformed row
// can not fail the whole request. Dimension values are collected in row order,
// they end up as metadata on the rendered badge.
func Aggregate(rows []common.ReportRow) common.AggregatedResult {
	result := common.AggregatedResult{
		DimensionValues: make([]string, 0, len(rows)),
	}

	for _, row := range rows {
		for _, value := range row.MetricValues {
			parsed, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				continue
			}

			result.TotalCount += parsed
		}

		result.DimensionValues = append(result.DimensionValues, row.DimensionValues...)
	}

	return result
}
