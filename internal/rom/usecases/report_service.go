package usecases

import (
	"context"
	"fmt"

	"gaitbase/internal/rom/catalogue"
	"gaitbase/internal/rom/domain"
	"gaitbase/internal/rom/report"
)

//go:generate mockgen -source=report_service.go -destination=../../../test/unit/doubles/rom/usecases/report_service_mock.go -package=usecases -mock_names=ReportService=MockReportService

type ReportService interface {
	Text(ctx context.Context, snapshot domain.Snapshot, includeUnits bool) (string, error)
}

var _ ReportService = (*SimpleReportService)(nil)

type SimpleReportService struct {
	template     report.Template
	replacements map[string]string
}

// NewReportService refuses a template that names a field neither the
// catalogue nor the patient identity provides.
func NewReportService(cat catalogue.Catalogue, tpl report.Template, replacements map[string]string) (*SimpleReportService, error) {
	initMetrics()
	known := make(map[string]struct{}, len(cat.Fields))
	for _, f := range cat.Fields {
		known[f.Name] = struct{}{}
	}
	for name := range (domain.Identity{}).Fields() {
		known[name] = struct{}{}
	}
	for _, name := range tpl.Fields() {
		if _, ok := known[name]; !ok {
			return nil, fmt.Errorf("template %q: %w", tpl.Name, &domain.UnknownFieldError{Field: name})
		}
	}

	return &SimpleReportService{
		template:     tpl,
		replacements: replacements,
	}, nil
}

func (s *SimpleReportService) Text(ctx context.Context, snapshot domain.Snapshot, includeUnits bool) (string, error) {
	renderer := report.NewRenderer(
		report.WithReplacements(s.replacements),
		report.WithUnits(includeUnits),
	)
	text, err := renderer.Render(snapshot, s.template)
	if err != nil {
		return "", fmt.Errorf("rendering %q: %w", s.template.Name, err)
	}
	reportsTotal.Add(ctx, 1)
	return text, nil
}
