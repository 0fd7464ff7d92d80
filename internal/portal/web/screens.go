package web

import (
	"errors"
	"fmt"
	"math"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/ngo-portal/portal-backend/internal/portal/dashboard"
	"github.com/ngo-portal/portal-backend/internal/portal/domain"
	"github.com/ngo-portal/portal-backend/internal/portal/schema"
	"github.com/ngo-portal/portal-backend/internal/portal/service"
	"github.com/ngo-portal/portal-backend/internal/portal/session"
	"github.com/ngo-portal/portal-backend/internal/portal/workflow"
)

var months = []string{
	"january", "february", "march", "april", "may", "june",
	"july", "august", "september", "october", "november", "december",
}

type listData[T any, D any] struct {
	formState
	Query      string
	Records    []T
	Dialog     workflow.DialogState[D]
	HasPending bool
}

// load applies ?q= when present and collects the screen state.
func load[T domain.Record, D any](c *gin.Context, sc *service.Screen[T, D], invalid []string) (listData[T, D], error) {
	var (
		records []T
		err     error
	)
	if q, ok := c.GetQuery("q"); ok {
		records, err = sc.Search(c.Request.Context(), q)
	} else {
		records, err = sc.Visible(c.Request.Context())
	}
	if err != nil {
		return listData[T, D]{}, err
	}
	_, pending := sc.PendingDeletion()
	return listData[T, D]{
		formState:  formState{Errors: invalid},
		Query:      sc.Query(),
		Records:    records,
		Dialog:     sc.Dialog(),
		HasPending: pending,
	}, nil
}

// invalidFields names the form fields behind a validation error.
func invalidFields(err error) []string {
	var missing *domain.MissingFieldsError
	if errors.As(err, &missing) {
		return missing.Fields
	}
	var email *domain.InvalidEmailError
	if errors.As(err, &email) {
		return []string{"email"}
	}
	return nil
}

// submitted finishes a create post: redirect on success, re-render with
// the rejected fields on validation failure.
func (s *Shell) submitted(c *gin.Context, base string, err error, rerender func([]string)) {
	switch {
	case err == nil:
		c.Redirect(http.StatusSeeOther, base)
	case domain.IsValidation(err):
		rerender(invalidFields(err))
	case errors.Is(err, domain.ErrDialogClosed):
		c.Redirect(http.StatusSeeOther, base)
	default:
		s.serverError(c, err)
	}
}

func statusFor(invalid []string) int {
	if len(invalid) > 0 {
		return http.StatusUnprocessableEntity
	}
	return http.StatusOK
}

// NGOs

func (s *Shell) ngos(c *gin.Context) { s.renderNGOs(c, nil) }

func (s *Shell) renderNGOs(c *gin.Context, invalid []string) {
	w := session.FromContext(c)
	data, err := load(c, w.NGOs, invalid)
	if err != nil {
		s.serverError(c, err)
		return
	}
	s.render(c, statusFor(invalid), "ngos.html", s.page(c, RoleAdmin, "ngos.title", data))
}

func (s *Shell) createNGO(c *gin.Context) {
	w := session.FromContext(c)
	err := w.NGOs.SetDraft(domain.NGODraft{
		Name:        c.PostForm("name"),
		ManagerName: c.PostForm("manager_name"),
		Email:       c.PostForm("email"),
		Phone:       c.PostForm("phone"),
	})
	if err == nil {
		_, err = w.NGOs.SubmitDialog(c.Request.Context())
	}
	s.submitted(c, "/admin/ngos", err, func(invalid []string) { s.renderNGOs(c, invalid) })
}

// Admin projects

type adminProjectsData struct {
	listData[domain.AdminProject, domain.AdminProjectDraft]
	FocusAreas []option
	Indicators []option
}

func (s *Shell) adminProjects(c *gin.Context) { s.renderAdminProjects(c, nil) }

func (s *Shell) renderAdminProjects(c *gin.Context, invalid []string) {
	w := session.FromContext(c)
	list, err := load(c, w.AdminProjects, invalid)
	if err != nil {
		s.serverError(c, err)
		return
	}
	draft := list.Dialog.Draft
	data := adminProjectsData{listData: list}
	for _, fa := range domain.FocusAreas() {
		data.FocusAreas = append(data.FocusAreas, option{
			Token: fa.String(), Label: "focus." + fa.String(), Checked: containsArea(draft.FocusAreas, fa),
		})
	}
	for _, ind := range domain.ProjectIndicators() {
		data.Indicators = append(data.Indicators, option{
			Token: ind.String(), Label: "indicator." + ind.String(), Checked: containsIndicator(draft.Indicators, ind),
		})
	}
	s.render(c, statusFor(invalid), "admin_projects.html", s.page(c, RoleAdmin, "projects.title", data))
}

func containsArea(set []domain.FocusArea, fa domain.FocusArea) bool {
	for _, x := range set {
		if x == fa {
			return true
		}
	}
	return false
}

func containsIndicator(set []domain.ProjectIndicator, ind domain.ProjectIndicator) bool {
	for _, x := range set {
		if x == ind {
			return true
		}
	}
	return false
}

func (s *Shell) createAdminProject(c *gin.Context) {
	d, err := parseAdminProjectForm(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	w := session.FromContext(c)
	err = w.AdminProjects.SetDraft(d)
	if err == nil {
		_, err = w.AdminProjects.SubmitDialog(c.Request.Context())
	}
	s.submitted(c, "/admin/projects", err, func(invalid []string) { s.renderAdminProjects(c, invalid) })
}

func parseAdminProjectForm(c *gin.Context) (domain.AdminProjectDraft, error) {
	d := service.AdminProjectBlueprint{}.Blank()
	d.Name = c.PostForm("name")
	d.Duration = c.PostForm("duration")
	d.OtherFocusArea = c.PostForm("other_focus_area")
	d.OtherIndicator = c.PostForm("other_indicator")
	for _, tok := range c.PostFormArray("focus_areas") {
		fa, err := domain.ParseFocusArea(tok)
		if err != nil {
			return d, err
		}
		if fa.Valid() && !containsArea(d.FocusAreas, fa) {
			d.ToggleFocusArea(fa)
		}
	}
	for _, tok := range c.PostFormArray("indicators") {
		ind, err := domain.ParseProjectIndicator(tok)
		if err != nil {
			return d, err
		}
		if ind.Valid() && !containsIndicator(d.Indicators, ind) {
			d.ToggleIndicator(ind)
		}
	}
	return d, nil
}

// NGO projects

type fieldView struct {
	schema.Field
	Value string
}

type ngoProjectsData struct {
	listData[domain.NGOProject, domain.NGOProjectDraft]
	Months     []option
	FocusAreas []option
	Fields     []fieldView
}

func (s *Shell) ngoProjects(c *gin.Context) { s.renderNGOProjects(c, nil) }

func (s *Shell) renderNGOProjects(c *gin.Context, invalid []string) {
	w := session.FromContext(c)
	list, err := load(c, w.NGOProjects, invalid)
	if err != nil {
		s.serverError(c, err)
		return
	}
	draft := list.Dialog.Draft
	data := ngoProjectsData{listData: list}
	for _, m := range months {
		data.Months = append(data.Months, option{Token: m, Label: "month." + m, Checked: draft.ReportingMonth == m})
	}
	for _, fa := range domain.FocusAreas() {
		data.FocusAreas = append(data.FocusAreas, option{
			Token: fa.String(), Label: "focus." + fa.String(), Checked: draft.FocusArea == fa,
		})
	}
	for _, f := range schema.ResolveLabeled(draft.FocusArea, w.Localizer().FieldLabel) {
		v := f.Default
		if got, ok := draft.IndicatorValues[f.Key]; ok {
			v = got
		}
		data.Fields = append(data.Fields, fieldView{Field: f, Value: strconv.FormatFloat(v, 'f', -1, 64)})
	}
	s.render(c, statusFor(invalid), "ngo_projects.html", s.page(c, RoleNGO, "projects.title", data))
}

func (s *Shell) createNGOProject(c *gin.Context) {
	d, err := parseNGOProjectForm(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	w := session.FromContext(c)
	err = w.NGOProjects.SetDraft(d)
	if err == nil {
		_, err = w.NGOProjects.SubmitDialog(c.Request.Context())
	}
	s.submitted(c, "/ngo/projects", err, func(invalid []string) { s.renderNGOProjects(c, invalid) })
}

// selectFocusArea keeps what has been typed so far and switches the
// indicator fields to the chosen focus area.
func (s *Shell) selectFocusArea(c *gin.Context) {
	d, err := parseNGOProjectForm(c)
	if err != nil {
		c.String(http.StatusBadRequest, err.Error())
		return
	}
	w := session.FromContext(c)
	if err := w.NGOProjects.SetDraft(d); err != nil && !errors.Is(err, domain.ErrDialogClosed) {
		s.serverError(c, err)
		return
	}
	c.Redirect(http.StatusSeeOther, "/ngo/projects")
}

func parseNGOProjectForm(c *gin.Context) (domain.NGOProjectDraft, error) {
	fa, err := domain.ParseFocusArea(c.PostForm("focus_area"))
	if err != nil {
		return domain.NGOProjectDraft{}, err
	}
	d := domain.NGOProjectDraft{
		Name:           c.PostForm("name"),
		ManagerName:    c.PostForm("manager_name"),
		ReportingMonth: c.PostForm("reporting_month"),
	}

	values := make(map[string]float64)
	for key, vals := range c.Request.PostForm {
		k, ok := strings.CutPrefix(key, "indicator.")
		if !ok || len(vals) == 0 || strings.TrimSpace(vals[0]) == "" {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		if err != nil {
			return d, fmt.Errorf("indicator %s: %w", k, err)
		}
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return d, fmt.Errorf("indicator %s: %q is not a finite number", k, vals[0])
		}
		values[k] = v
	}
	d.IndicatorValues = values
	service.SelectFocusArea(&d, fa)
	return d, nil
}

// Dashboard

type dashboardData struct {
	dashboard.Summary
	SelectedID string
	Project    string
}

func (s *Shell) dashboard(c *gin.Context) {
	w := session.FromContext(c)
	sum, err := dashboard.ForWorkspace(c.Request.Context(), w, c.Query("ngo"))
	if err != nil {
		s.serverError(c, err)
		return
	}
	data := dashboardData{Summary: sum, SelectedID: c.Query("ngo"), Project: c.Query("project")}
	s.render(c, http.StatusOK, "dashboard.html", s.page(c, RoleAdmin, "dashboard.title", data))
}
