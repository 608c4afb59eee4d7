package bug

import (
	"context"
	"sync"

	"github.com/heartmarshall/bugtracker/internal/faults"
)

var _ faultReporter = &faultReporterMock{}

type faultReporterMock struct {
	ReportFunc func(ctx context.Context, env *faults.Envelope, intent faults.Intent)

	calls struct {
		Report []struct {
			Ctx    context.Context
			Env    *faults.Envelope
			Intent faults.Intent
		}
	}
	lockReport sync.RWMutex
}

func (mock *faultReporterMock) Report(ctx context.Context, env *faults.Envelope, intent faults.Intent) {
	callInfo := struct {
		Ctx    context.Context
		Env    *faults.Envelope
		Intent faults.Intent
	}{Ctx: ctx, Env: env, Intent: intent}
	mock.lockReport.Lock()
	mock.calls.Report = append(mock.calls.Report, callInfo)
	mock.lockReport.Unlock()
	if mock.ReportFunc != nil {
		mock.ReportFunc(ctx, env, intent)
	}
}

func (mock *faultReporterMock) ReportCalls() []struct {
	Ctx    context.Context
	Env    *faults.Envelope
	Intent faults.Intent
} {
	mock.lockReport.RLock()
	calls := mock.calls.Report
	mock.lockReport.RUnlock()
	return calls
}
