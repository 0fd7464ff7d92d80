package domain

// DateLayout is the calendar-date format used for subscription dates.
const DateLayout = "2006-01-02"

// Record is implemented by every entity held in a screen's record store.
type Record interface {
	RecordID() string
	// SearchFields returns the text fields matched by the search projector.
	SearchFields() []string
}

// NGO is an organization registered with the portal.
type NGO struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	ManagerName string `json:"manager_name" yaml:"manager_name"`
	Email       string `json:"email" yaml:"email"`
	Phone       string `json:"phone" yaml:"phone"`
}

func (n NGO) RecordID() string       { return n.ID }
func (n NGO) SearchFields() []string { return []string{n.Name, n.ManagerName} }

// AdminProject is a project as seen from the administrator dashboard.
// FocusAreas and Indicators hold enumeration tokens, plus at most one
// free-text "other" value each.
type AdminProject struct {
	ID               string          `json:"id" yaml:"id"`
	Name             string          `json:"name" yaml:"name"`
	Duration         string          `json:"duration" yaml:"duration"`
	SubscriptionDate string          `json:"subscription_date" yaml:"subscription_date"`
	ReportingPeriod  ReportingPeriod `json:"reporting_period" yaml:"reporting_period"`
	ManagerName      string          `json:"manager_name" yaml:"manager_name"`
	ManagerEmail     string          `json:"manager_email" yaml:"manager_email"`
	FocusAreas       []string        `json:"focus_areas" yaml:"focus_areas"`
	Indicators       []string        `json:"indicators" yaml:"indicators"`
}

func (p AdminProject) RecordID() string       { return p.ID }
func (p AdminProject) SearchFields() []string { return []string{p.Name, p.ManagerName} }

// NGOProject is a project as seen by an NGO user. IndicatorValues is keyed
// by the indicator field keys of FocusArea's schema.
type NGOProject struct {
	ID               string             `json:"id" yaml:"id"`
	Name             string             `json:"name" yaml:"name"`
	Duration         string             `json:"duration" yaml:"duration"`
	SubscriptionDate string             `json:"subscription_date" yaml:"subscription_date"`
	ReportingPeriod  ReportingPeriod    `json:"reporting_period" yaml:"reporting_period"`
	ManagerName      string             `json:"manager_name" yaml:"manager_name"`
	ManagerEmail     string             `json:"manager_email" yaml:"manager_email"`
	FocusArea        FocusArea          `json:"focus_area" yaml:"focus_area"`
	IndicatorValues  map[string]float64 `json:"indicator_values,omitempty" yaml:"indicator_values,omitempty"`
}

func (p NGOProject) RecordID() string       { return p.ID }
func (p NGOProject) SearchFields() []string { return []string{p.Name, p.ManagerName} }

// ReportingPeriod is how often a project reports its indicators.
type ReportingPeriod string

const (
	ReportingMonthly    ReportingPeriod = "Monthly"
	ReportingQuarterly  ReportingPeriod = "Quarterly"
	ReportingSemiannual ReportingPeriod = "Semiannual"
	ReportingAnnual     ReportingPeriod = "Annual"
)

// Placeholder manager details synthesized for projects created without a
// manager contact.
const (
	AdminManagerName    = "Admin"
	AdminManagerEmail   = "admin@example.com"
	DefaultManagerEmail = "email@example.com"
)

// NGODraft is the unsaved create form for an NGO.
type NGODraft struct {
	Name        string `json:"name" validate:"required"`
	ManagerName string `json:"manager_name" validate:"required"`
	Email       string `json:"email" validate:"required,mailbox"`
	Phone       string `json:"phone" validate:"required"`
}

// AdminProjectDraft is the unsaved create form for an administrator project.
type AdminProjectDraft struct {
	Name           string             `json:"name" validate:"required"`
	Duration       string             `json:"duration" validate:"required"`
	FocusAreas     []FocusArea        `json:"focus_areas"`
	Indicators     []ProjectIndicator `json:"indicators"`
	OtherFocusArea string             `json:"other_focus_area,omitempty"`
	OtherIndicator string             `json:"other_indicator,omitempty"`
}

// NGOProjectDraft is the unsaved create form for an NGO user's project.
// ReportingMonth is collected by the form but not stored on the record.
type NGOProjectDraft struct {
	Name            string             `json:"name" validate:"required"`
	ManagerName     string             `json:"manager_name" validate:"required"`
	FocusArea       FocusArea          `json:"focus_area" validate:"required"`
	ReportingMonth  string             `json:"reporting_month,omitempty"`
	IndicatorValues map[string]float64 `json:"indicator_values,omitempty"`
}

// ToggleFocusArea selects area, or deselects it when already selected.
func (d *AdminProjectDraft) ToggleFocusArea(area FocusArea) {
	d.FocusAreas = toggle(d.FocusAreas, area)
}

// ToggleIndicator selects ind, or deselects it when already selected.
func (d *AdminProjectDraft) ToggleIndicator(ind ProjectIndicator) {
	d.Indicators = toggle(d.Indicators, ind)
}

func toggle[E comparable](set []E, v E) []E {
	for i, cur := range set {
		if cur == v {
			out := make([]E, 0, len(set)-1)
			out = append(out, set[:i]...)
			return append(out, set[i+1:]...)
		}
	}
	return append(set, v)
}
