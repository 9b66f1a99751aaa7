package recorder

import "TickerLens/internal/model"

// NoopRecorder is a no-op implementation used when SQLite is not configured.
type NoopRecorder struct{}

func NewNoopRecorder() *NoopRecorder { return &NoopRecorder{} }

func (n *NoopRecorder) RecordReport(_ *model.AnalysisReport) error         { return nil }
func (n *NoopRecorder) RecordRefresh(_ *RefreshRun) error                  { return nil }
func (n *NoopRecorder) RecentReports(_ string, _ int) ([]ReportRow, error) { return nil, nil }
func (n *NoopRecorder) Close() error                                       { return nil }
