package service

import (
	"strings"
	"time"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/locale"
	"github.com/ngo-portal/portal-backend/internal/portal/schema"
)

const (
	ScreenNGOs          = "ngos"
	ScreenAdminProjects = "admin_projects"
	ScreenNGOProjects   = "ngo_projects"
)

type (
	NGOScreen          = Screen[domain.NGO, domain.NGODraft]
	AdminProjectScreen = Screen[domain.AdminProject, domain.AdminProjectDraft]
	NGOProjectScreen   = Screen[domain.NGOProject, domain.NGOProjectDraft]
)

// NGOBlueprint creates NGOs from the admin NGO screen. All four fields are
// required and the email must look like local@domain.tld.
type NGOBlueprint struct{}

func (NGOBlueprint) Screen() string         { return ScreenNGOs }
func (NGOBlueprint) Noun() string           { return "ngo" }
func (NGOBlueprint) Blank() domain.NGODraft { return domain.NGODraft{} }

func (NGOBlueprint) Normalize(d domain.NGODraft) domain.NGODraft {
	d.Name = strings.TrimSpace(d.Name)
	d.ManagerName = strings.TrimSpace(d.ManagerName)
	d.Email = strings.TrimSpace(d.Email)
	d.Phone = strings.TrimSpace(d.Phone)
	return d
}

func (NGOBlueprint) Validate(d domain.NGODraft) error { return validateDraft(d) }

func (NGOBlueprint) Build(d domain.NGODraft, id string, _ time.Time, _ locale.Localizer) domain.NGO {
	return domain.NGO{
		ID:          id,
		Name:        d.Name,
		ManagerName: d.ManagerName,
		Email:       d.Email,
		Phone:       d.Phone,
	}
}

// AdminProjectBlueprint creates projects from the admin project screen.
// Only name and duration are required; the manager is a placeholder.
type AdminProjectBlueprint struct{}

func (AdminProjectBlueprint) Screen() string { return ScreenAdminProjects }
func (AdminProjectBlueprint) Noun() string   { return "project" }

func (AdminProjectBlueprint) Blank() domain.AdminProjectDraft {
	return domain.AdminProjectDraft{
		FocusAreas: []domain.FocusArea{},
		Indicators: []domain.ProjectIndicator{},
	}
}

func (AdminProjectBlueprint) Normalize(d domain.AdminProjectDraft) domain.AdminProjectDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.Duration = strings.TrimSpace(d.Duration)
	d.OtherFocusArea = strings.TrimSpace(d.OtherFocusArea)
	d.OtherIndicator = strings.TrimSpace(d.OtherIndicator)
	return d
}

func (AdminProjectBlueprint) Validate(d domain.AdminProjectDraft) error { return validateDraft(d) }

func (AdminProjectBlueprint) Build(d domain.AdminProjectDraft, id string, today time.Time, _ locale.Localizer) domain.AdminProject {
	areas := make([]string, 0, len(d.FocusAreas)+1)
	for _, fa := range d.FocusAreas {
		if fa.Valid() {
			areas = append(areas, fa.String())
		}
	}
	if strings.TrimSpace(d.OtherFocusArea) != "" {
		areas = append(areas, d.OtherFocusArea)
	}

	indicators := make([]string, 0, len(d.Indicators)+1)
	for _, ind := range d.Indicators {
		if ind.Valid() {
			indicators = append(indicators, ind.String())
		}
	}
	if strings.TrimSpace(d.OtherIndicator) != "" {
		indicators = append(indicators, d.OtherIndicator)
	}

	return domain.AdminProject{
		ID:               id,
		Name:             d.Name,
		Duration:         d.Duration,
		SubscriptionDate: today.Format(domain.DateLayout),
		ReportingPeriod:  domain.ReportingMonthly,
		ManagerName:      domain.AdminManagerName,
		ManagerEmail:     domain.AdminManagerEmail,
		FocusAreas:       areas,
		Indicators:       indicators,
	}
}

// NGOProjectBlueprint creates projects from the NGO user's project screen.
// The indicator values entered for the chosen focus area are kept on the
// record; the reporting month is not.
type NGOProjectBlueprint struct{}

func (NGOProjectBlueprint) Screen() string { return ScreenNGOProjects }
func (NGOProjectBlueprint) Noun() string   { return "project" }

func (NGOProjectBlueprint) Blank() domain.NGOProjectDraft { return domain.NGOProjectDraft{} }

func (NGOProjectBlueprint) Normalize(d domain.NGOProjectDraft) domain.NGOProjectDraft {
	d.Name = strings.TrimSpace(d.Name)
	d.ManagerName = strings.TrimSpace(d.ManagerName)
	d.ReportingMonth = strings.ToLower(strings.TrimSpace(d.ReportingMonth))
	return d
}

func (NGOProjectBlueprint) Validate(d domain.NGOProjectDraft) error { return validateDraft(d) }

func (NGOProjectBlueprint) Build(d domain.NGOProjectDraft, id string, today time.Time, loc locale.Localizer) domain.NGOProject {
	return domain.NGOProject{
		ID:               id,
		Name:             d.Name,
		Duration:         loc.T("project.default_duration"),
		SubscriptionDate: today.Format(domain.DateLayout),
		ReportingPeriod:  domain.ReportingMonthly,
		ManagerName:      d.ManagerName,
		ManagerEmail:     domain.DefaultManagerEmail,
		FocusArea:        d.FocusArea,
		IndicatorValues:  schema.Values(d.FocusArea, d.IndicatorValues),
	}
}

// SelectFocusArea sets the draft's focus area and drops indicator values
// that do not belong to the new area's schema.
func SelectFocusArea(d *domain.NGOProjectDraft, fa domain.FocusArea) {
	d.FocusArea = fa
	if len(d.IndicatorValues) == 0 {
		return
	}
	kept := make(map[string]float64)
	for _, f := range schema.Resolve(fa) {
		if v, ok := d.IndicatorValues[f.Key]; ok {
			kept[f.Key] = v
		}
	}
	d.IndicatorValues = kept
}
