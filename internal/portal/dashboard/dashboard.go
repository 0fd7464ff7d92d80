// Package dashboard derives the administrator dashboard from a workspace's
// records and notification feed.
package dashboard

import (
	"context"
	"math"

	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/session"
)

// RecentLimit is how many notifications the activity panel shows.
const RecentLimit = 3

// Share is one focus area's slice of all projects.
type Share struct {
	Area    domain.FocusArea `json:"area"`
	Count   int              `json:"count"`
	Percent int              `json:"percent"`
}

// Summary is what the dashboard renders. Metrics are only filled in once
// an NGO is selected.
type Summary struct {
	NGOs     []domain.NGO `json:"ngos"`
	Selected *domain.NGO  `json:"selected,omitempty"`
	Projects []string     `json:"projects"`

	TotalNGOs         int                   `json:"total_ngos"`
	TotalProjects     int                   `json:"total_projects"`
	FocusAreasInUse   int                   `json:"focus_areas_in_use"`
	IndicatorsTracked int                   `json:"indicators_tracked"`
	Distribution      []Share               `json:"distribution"`
	RecentActivity    []domain.Notification `json:"recent_activity"`
}

// Input is the raw material for Compute.
type Input struct {
	NGOs          []domain.NGO
	AdminProjects []domain.AdminProject
	NGOProjects   []domain.NGOProject
	Recent        []domain.Notification
}

// Compute builds the summary for the NGO with id selected. An empty or
// unknown id yields only the selector lists.
func Compute(in Input, selected string) Summary {
	s := Summary{NGOs: in.NGOs, Projects: []string{}}
	for i := range in.NGOs {
		if in.NGOs[i].ID == selected && selected != "" {
			ngo := in.NGOs[i]
			s.Selected = &ngo
			break
		}
	}
	if s.Selected == nil {
		return s
	}

	for _, p := range in.AdminProjects {
		s.Projects = append(s.Projects, p.Name)
	}
	for _, p := range in.NGOProjects {
		s.Projects = append(s.Projects, p.Name)
	}

	s.TotalNGOs = len(in.NGOs)
	s.TotalProjects = len(in.AdminProjects) + len(in.NGOProjects)
	s.Distribution = distribution(in)
	for _, sh := range s.Distribution {
		if sh.Count > 0 {
			s.FocusAreasInUse++
		}
	}
	s.IndicatorsTracked = indicators(in)

	s.RecentActivity = in.Recent
	if len(s.RecentActivity) > RecentLimit {
		s.RecentActivity = s.RecentActivity[:RecentLimit]
	}
	return s
}

func distribution(in Input) []Share {
	var counts [domain.NumFocusAreas]int
	total := 0
	for _, p := range in.AdminProjects {
		for _, tok := range p.FocusAreas {
			if fa, err := domain.ParseFocusArea(tok); err == nil && fa.Valid() {
				counts[fa]++
				total++
			}
		}
	}
	for _, p := range in.NGOProjects {
		if p.FocusArea.Valid() {
			counts[p.FocusArea]++
			total++
		}
	}

	out := make([]Share, 0, len(domain.FocusAreas()))
	for _, fa := range domain.FocusAreas() {
		sh := Share{Area: fa, Count: counts[fa]}
		if total > 0 {
			sh.Percent = int(math.Round(float64(counts[fa]) * 100 / float64(total)))
		}
		out = append(out, sh)
	}
	return out
}

func indicators(in Input) int {
	seen := make(map[string]struct{})
	for _, p := range in.AdminProjects {
		for _, ind := range p.Indicators {
			seen[ind] = struct{}{}
		}
	}
	for _, p := range in.NGOProjects {
		for k := range p.IndicatorValues {
			seen[k] = struct{}{}
		}
	}
	return len(seen)
}

// ForWorkspace computes the summary from the workspace's current records.
func ForWorkspace(ctx context.Context, w *session.Workspace, selected string) (Summary, error) {
	ngos, err := w.NGOs.All(ctx)
	if err != nil {
		return Summary{}, err
	}
	admin, err := w.AdminProjects.All(ctx)
	if err != nil {
		return Summary{}, err
	}
	projects, err := w.NGOProjects.All(ctx)
	if err != nil {
		return Summary{}, err
	}
	return Compute(Input{
		NGOs:          ngos,
		AdminProjects: admin,
		NGOProjects:   projects,
		Recent:        w.Feed.Recent(RecentLimit),
	}, selected), nil
}
