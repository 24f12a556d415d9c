package dashboard

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/zulandar/southwood/internal/civil"
	"github.com/zulandar/southwood/internal/config"
	"github.com/zulandar/southwood/internal/export"
	"github.com/zulandar/southwood/internal/metrics"
	"github.com/zulandar/southwood/internal/phase"
	"github.com/zulandar/southwood/internal/project"
	"github.com/zulandar/southwood/internal/query"
	"github.com/zulandar/southwood/internal/risk"
	"github.com/zulandar/southwood/internal/schedule"
	"github.com/zulandar/southwood/internal/store"
)

type handler struct {
	db       *gorm.DB
	log      *zap.Logger
	clock    civil.Clock
	projects config.ProjectsConfig
}

// badRequest is an input error detected at the HTTP boundary.
type badRequest string

func (e badRequest) Error() string { return string(e) }

// fail maps err onto a JSON error response.
func (h *handler) fail(c *gin.Context, err error) {
	var verr *project.ValidationError
	var bad badRequest
	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, gin.H{"error": verr.Message, "field": verr.Field})
	case errors.As(err, &bad):
		c.JSON(http.StatusBadRequest, gin.H{"error": string(bad)})
	case errors.Is(err, store.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("project %s not found", c.Param("id"))})
	case errors.Is(err, export.ErrNoUpcoming):
		c.JSON(http.StatusNotFound, gin.H{"error": "no upcoming milestone"})
	default:
		c.Error(err)
		h.log.Error("dashboard request failed", zap.String("project_id", c.Param("id")), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}

func (h *handler) cascade(override *bool) bool {
	if override != nil {
		return *override
	}
	return h.projects.Cascade()
}

func parsePhase(s string) (phase.Phase, error) {
	p, ok := phase.Parse(s)
	if !ok {
		return "", badRequest(fmt.Sprintf("unknown phase %q", s))
	}
	return p, nil
}

// parseOptionalDate accepts YYYY-MM-DD or an empty string (absent).
func parseOptionalDate(s string) (civil.Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return civil.Date{}, nil
	}
	d, ok := civil.Parse(s)
	if !ok {
		return civil.Date{}, badRequest(fmt.Sprintf("date %q must be YYYY-MM-DD", s))
	}
	return d, nil
}

func bind(c *gin.Context, req interface{}) error {
	if err := c.ShouldBindJSON(req); err != nil {
		return badRequest("invalid request body: " + err.Error())
	}
	return nil
}

func (h *handler) listProjects(c *gin.Context) {
	today := h.clock.Today()
	filters := store.ListFilters{}
	if s := c.Query("phase"); s != "" {
		p, err := parsePhase(s)
		if err != nil {
			h.fail(c, err)
			return
		}
		filters.Phase = p
	}
	if s := c.Query("include_completed"); s != "" {
		v, err := strconv.ParseBool(s)
		if err != nil {
			h.fail(c, badRequest("include_completed must be true or false"))
			return
		}
		filters.IncludeCompleted = v
	}

	projects, err := store.List(h.db, filters)
	if err != nil {
		h.fail(c, err)
		return
	}
	q := strings.TrimSpace(c.Query("q"))
	if q != "" {
		projects = query.Apply(projects, q, today)
	}

	rows := buildRows(projects, today)
	// A question that ranks its own results keeps that order unless a sort is asked for.
	key := c.Query("sort")
	if key == "" && q == "" {
		key = "priority"
	}
	if key != "" {
		if err := sortRows(rows, key); err != nil {
			h.fail(c, badRequest(err.Error()))
			return
		}
	}
	c.JSON(http.StatusOK, gin.H{"projects": rows, "count": len(rows)})
}

func (h *handler) getProject(c *gin.Context) {
	p, err := store.Get(h.db, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, buildRow(p, h.clock.Today()))
}

type createRequest struct {
	Name          string      `json:"name"`
	Client        string      `json:"client"`
	Location      string      `json:"location"`
	Value         interface{} `json:"value"`
	Phase         string      `json:"phase"`
	ContactPerson string      `json:"contact_person"`
	ContactEmail  string      `json:"contact_email"`
	CadenceDays   int         `json:"cadence_days"`
}

func (h *handler) createProject(c *gin.Context) {
	var req createRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	opts := project.CreateOpts{
		Name:          req.Name,
		Client:        req.Client,
		Location:      req.Location,
		ContactPerson: req.ContactPerson,
		ContactEmail:  req.ContactEmail,
		CadenceDays:   req.CadenceDays,
		IDPrefix:      h.projects.IDPrefix,
	}
	if req.Value != nil {
		opts.Value = fmt.Sprint(req.Value)
	}
	if req.Phase != "" {
		p, err := parsePhase(req.Phase)
		if err != nil {
			h.fail(c, err)
			return
		}
		opts.Phase = p
	}
	if opts.Location == "" {
		opts.Location = h.projects.DefaultLocation
	}
	if opts.CadenceDays == 0 {
		opts.CadenceDays = h.projects.DefaultCadenceDays
	}

	today := h.clock.Today()
	p, err := store.Create(h.db, opts, today)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.log.Info("project created", zap.String("project_id", p.ID), zap.String("phase", string(p.Phase)))
	c.JSON(http.StatusCreated, buildRow(p, today))
}

func (h *handler) deleteProject(c *gin.Context) {
	if err := store.Delete(h.db, c.Param("id")); err != nil {
		h.fail(c, err)
		return
	}
	h.log.Info("project deleted", zap.String("project_id", c.Param("id")))
	c.Status(http.StatusNoContent)
}

// mutate runs fn against the stored project and responds with the new row.
func (h *handler) mutate(c *gin.Context, kind string, fn func(project.Project) (project.Project, error)) (project.Project, bool) {
	p, err := store.Mutate(h.db, c.Param("id"), kind, fn)
	if err != nil {
		h.fail(c, err)
		return project.Project{}, false
	}
	return p, true
}

type milestoneRequest struct {
	Phase       string   `json:"phase"`
	Date        string   `json:"date"`
	AutoCascade *bool    `json:"auto_cascade"`
	Touched     []string `json:"touched"`
}

func (h *handler) editMilestone(c *gin.Context) {
	var req milestoneRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	ph, err := parsePhase(req.Phase)
	if err != nil {
		h.fail(c, err)
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		h.fail(c, err)
		return
	}
	touched := schedule.NewPhaseSet()
	for _, s := range req.Touched {
		tp, err := parsePhase(s)
		if err != nil {
			h.fail(c, err)
			return
		}
		touched = touched.With(tp)
	}

	opts := schedule.EditOpts{AutoCascade: h.cascade(req.AutoCascade), Touched: touched}
	var after schedule.PhaseSet
	p, ok := h.mutate(c, "edit-date", func(p project.Project) (project.Project, error) {
		var out project.Project
		out, after = project.EditPhaseDate(p, ph, date, opts)
		return out, nil
	})
	if !ok {
		return
	}
	c.JSON(http.StatusOK, gin.H{"project": buildRow(p, h.clock.Today()), "touched": after.List()})
}

type installRequest struct {
	Date        string `json:"date"`
	AutoCascade *bool  `json:"auto_cascade"`
}

func (h *handler) setInstall(c *gin.Context) {
	var req installRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		h.fail(c, err)
		return
	}
	auto := h.cascade(req.AutoCascade)
	p, ok := h.mutate(c, "install-date", func(p project.Project) (project.Project, error) {
		return project.SetInstallDate(p, date, auto), nil
	})
	if ok {
		c.JSON(http.StatusOK, buildRow(p, h.clock.Today()))
	}
}

type doneRequest struct {
	Phase string `json:"phase"`
	Done  bool   `json:"done"`
	Date  string `json:"date"`
}

func (h *handler) setDone(c *gin.Context) {
	var req doneRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	ph, err := parsePhase(req.Phase)
	if err != nil {
		h.fail(c, err)
		return
	}
	date, err := parseOptionalDate(req.Date)
	if err != nil {
		h.fail(c, err)
		return
	}
	today := h.clock.Today()
	if date.IsZero() {
		date = today
	}
	p, ok := h.mutate(c, "done", func(p project.Project) (project.Project, error) {
		if req.Done {
			return project.MarkDone(p, ph, date), nil
		}
		return project.UnmarkDone(p, ph), nil
	})
	if ok {
		c.JSON(http.StatusOK, buildRow(p, today))
	}
}

func (h *handler) completePhase(c *gin.Context) {
	today := h.clock.Today()
	p, ok := h.mutate(c, "complete", func(p project.Project) (project.Project, error) {
		if p.Completed() {
			return p, badRequest("project is already complete")
		}
		return project.CompletePhase(p, today), nil
	})
	if ok {
		h.log.Info("phase completed", zap.String("project_id", p.ID), zap.String("phase", string(p.Phase)))
		c.JSON(http.StatusOK, buildRow(p, today))
	}
}

func (h *handler) logContact(c *gin.Context) {
	today := h.clock.Today()
	p, ok := h.mutate(c, "contact", func(p project.Project) (project.Project, error) {
		return project.LogContact(p, today), nil
	})
	if ok {
		c.JSON(http.StatusOK, buildRow(p, today))
	}
}

type valueRequest struct {
	Value interface{} `json:"value"`
}

func (h *handler) setValue(c *gin.Context) {
	var req valueRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	raw := ""
	if req.Value != nil {
		raw = fmt.Sprint(req.Value)
	}
	p, ok := h.mutate(c, "value", func(p project.Project) (project.Project, error) {
		return project.SetValue(p, raw)
	})
	if ok {
		c.JSON(http.StatusOK, buildRow(p, h.clock.Today()))
	}
}

type cadenceRequest struct {
	CadenceDays int `json:"cadence_days"`
}

func (h *handler) setCadence(c *gin.Context) {
	var req cadenceRequest
	if err := bind(c, &req); err != nil {
		h.fail(c, err)
		return
	}
	p, ok := h.mutate(c, "cadence", func(p project.Project) (project.Project, error) {
		return project.SetCadence(p, req.CadenceDays)
	})
	if ok {
		c.JSON(http.StatusOK, buildRow(p, h.clock.Today()))
	}
}

func (h *handler) calendar(c *gin.Context) {
	p, err := store.Get(h.db, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	today := h.clock.Today()
	var body, name string
	switch kind := c.DefaultQuery("kind", "milestone"); kind {
	case "milestone":
		body, err = export.MilestoneCalendar(p, today, time.Now())
		name = export.MilestoneFilename(p, today)
	case "follow-up":
		body = export.FollowUpCalendar(p, today, time.Now())
		name = export.FollowUpFilename(p)
	default:
		err = badRequest(fmt.Sprintf("kind %q must be milestone or follow-up", kind))
	}
	if err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(body))
}

func (h *handler) email(c *gin.Context) {
	p, err := store.Get(h.db, c.Param("id"))
	if err != nil {
		h.fail(c, err)
		return
	}
	e := export.UpdateEmail(p, h.clock.Today())
	c.JSON(http.StatusOK, gin.H{"email": e, "mailto": e.MailtoURL()})
}

func (h *handler) exportWorkbook(c *gin.Context) {
	projects, err := store.All(h.db)
	if err != nil {
		h.fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := export.WriteWorkbook(&buf, projects, h.clock.Today()); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="southwood-projects.xlsx"`)
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

func (h *handler) exportJSON(c *gin.Context) {
	projects, err := store.All(h.db)
	if err != nil {
		h.fail(c, err)
		return
	}
	var buf bytes.Buffer
	if err := store.WriteJSON(&buf, projects); err != nil {
		h.fail(c, err)
		return
	}
	c.Header("Content-Disposition", `attachment; filename="southwood-projects.json"`)
	c.Data(http.StatusOK, "application/json; charset=utf-8", buf.Bytes())
}

func (h *handler) ask(c *gin.Context) {
	projects, err := store.All(h.db)
	if err != nil {
		h.fail(c, err)
		return
	}
	r := query.Answer(projects, c.Query("q"), h.clock.Today())
	metrics.IncrementQuery(r.Kind)
	if r.Projects == nil {
		r.Projects = []project.Project{}
	}
	c.JSON(http.StatusOK, r)
}

func (h *handler) kpi(c *gin.Context) {
	projects, err := store.All(h.db)
	if err != nil {
		h.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, risk.Portfolio(projects, h.clock.Today()))
}
