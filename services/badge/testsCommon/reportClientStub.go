package testsCommon

import (
	"context"

	"github.com/iulianpascalau/views-badge/services/badge/common"
)

// ReportClientStub -
type ReportClientStub struct {
	RunReportHandler func(ctx context.Context, q common.MetricQuery) ([]common.ReportRow, error)
}

// RunReport -
func (stub *ReportClientStub) RunReport(ctx context.Context, q common.MetricQuery) ([]common.ReportRow, error) {
	if stub.RunReportHandler != nil {
		return stub.RunReportHandler(ctx, q)
	}

	return make([]common.ReportRow, 0), nil
}

// IsInterfaceNil -
func (stub *ReportClientStub) IsInterfaceNil() bool {
	return stub == nil
}
