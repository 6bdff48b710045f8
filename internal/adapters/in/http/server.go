// Package http exposes the trigger surface of the job host: a few routes that
// enqueue background jobs, a manual trigger for recurring jobs and a read-only
// link listing.
package http

import (
	"context"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"blogjobs/internal/core/application/usecases/commands"
	"blogjobs/internal/core/application/usecases/queries"
	"blogjobs/internal/core/domain/model/job"
	"blogjobs/internal/core/domain/model/kernel"
	"blogjobs/internal/core/domain/model/link"
	"blogjobs/internal/core/domain/model/visitor"
	"blogjobs/internal/core/ports"
	"blogjobs/internal/jobs"
	"blogjobs/internal/pkg/errs"

	"github.com/labstack/echo/v4"
)

// JobTrigger runs a recurring job on demand.
type JobTrigger interface {
	Trigger(ctx context.Context, name job.Name) (job.Handle, error)
}

// Error is the body of every failed response.
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// Server maps HTTP requests onto job submissions.
type Server struct {
	scheduler ports.JobScheduler
	trigger   JobTrigger
	tracking  ports.TrackingBuffer
	clock     kernel.Clock

	getLinksHandler queries.GetLinksQueryHandler

	manualJobs map[job.Name]struct{}
}

func NewServer(
	scheduler ports.JobScheduler,
	trigger JobTrigger,
	tracking ports.TrackingBuffer,
	clock kernel.Clock,
	getLinksHandler queries.GetLinksQueryHandler,
	manualJobs []job.Name,
) *Server {
	allowed := make(map[job.Name]struct{}, len(manualJobs))
	for _, n := range manualJobs {
		allowed[n] = struct{}{}
	}
	return &Server{
		scheduler:       scheduler,
		trigger:         trigger,
		tracking:        tracking,
		clock:           clock,
		getLinksHandler: getLinksHandler,
		manualJobs:      allowed,
	}
}

// Register mounts every route on e.
func (s *Server) Register(e *echo.Echo) {
	e.GET("/health", s.Health)

	api := e.Group("/api/v1")
	api.POST("/posts/:id/visits", s.RecordVisit)
	api.POST("/posts/:id/publish", s.PublishPost)
	api.POST("/posts/:id/broadcast", s.BroadcastPost)
	api.POST("/referrers", s.RecordReferrer)
	api.POST("/intercepts", s.RecordIntercept)
	api.POST("/logins", s.RecordLogin)
	api.POST("/jobs/:name", s.TriggerJob)
	api.GET("/links", s.GetLinks)
}

func (s *Server) Health(ctx echo.Context) error {
	return ctx.String(http.StatusOK, "Healthy")
}

// RecordVisit handles POST /api/v1/posts/:id/visits.
func (s *Server) RecordVisit(ctx echo.Context) error {
	id, err := postID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}
	cmd, err := commands.NewRecordPostVisitCommand(id)
	if err != nil {
		return badRequest(ctx, err)
	}

	s.tracking.Add(visitor.TrackingEntry{
		IP:       ctx.RealIP(),
		Path:     "/posts/" + strconv.FormatInt(id, 10),
		Referrer: ctx.Request().Referer(),
		Time:     s.clock.Now(),
	})

	return s.enqueue(ctx, job.RecordPostVisit, cmd)
}

type publishRequest struct {
	Title   string     `json:"title"`
	Author  string     `json:"author"`
	Content string     `json:"content"`
	At      *time.Time `json:"at,omitempty"`
}

// PublishPost handles POST /api/v1/posts/:id/publish. Without "at" the post is
// published right away.
func (s *Server) PublishPost(ctx echo.Context) error {
	id, err := postID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}
	var req publishRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}
	cmd, err := commands.NewPublishPostCommand(id, req.Title, req.Author, req.Content)
	if err != nil {
		return badRequest(ctx, err)
	}

	if req.At == nil {
		return s.enqueue(ctx, job.PublishPost, cmd)
	}
	handle, err := s.scheduler.ScheduleAt(ctx.Request().Context(), job.PublishPost, cmd, *req.At)
	if err != nil {
		return schedulerError(ctx, err)
	}
	return ctx.JSON(http.StatusAccepted, handle)
}

type broadcastRequest struct {
	Link string `json:"link"`
}

// BroadcastPost handles POST /api/v1/posts/:id/broadcast.
func (s *Server) BroadcastPost(ctx echo.Context) error {
	id, err := postID(ctx)
	if err != nil {
		return badRequest(ctx, err)
	}
	var req broadcastRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}
	cmd, err := commands.NewBroadcastPostPublishedCommand(id, req.Link)
	if err != nil {
		return badRequest(ctx, err)
	}
	return s.enqueue(ctx, job.BroadcastPostPublished, cmd)
}

type referrerRequest struct {
	Referrer string `json:"referrer"`
}

// RecordReferrer handles POST /api/v1/referrers.
func (s *Server) RecordReferrer(ctx echo.Context) error {
	var req referrerRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}
	cmd, err := commands.NewUpdateLinkWeightCommand(req.Referrer)
	if err != nil {
		return badRequest(ctx, err)
	}
	return s.enqueue(ctx, job.UpdateLinkWeight, cmd)
}

type interceptRequest struct {
	IP         string `json:"ip"`
	RequestURL string `json:"request_url"`
	UserAgent  string `json:"user_agent"`
	Reason     string `json:"reason"`
}

// RecordIntercept handles POST /api/v1/intercepts. The client IP is used when
// the body does not name one.
func (s *Server) RecordIntercept(ctx echo.Context) error {
	var req interceptRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}
	ip := strings.TrimSpace(req.IP)
	if ip == "" {
		ip = ctx.RealIP()
	}
	cmd, err := commands.NewInterceptLogCommand(visitor.Interception{
		IP:         ip,
		RequestURL: req.RequestURL,
		UserAgent:  req.UserAgent,
		Reason:     req.Reason,
		Time:       s.clock.Now(),
	})
	if err != nil {
		return badRequest(ctx, err)
	}
	return s.enqueue(ctx, job.InterceptLog, cmd)
}

type loginRequest struct {
	Username  string            `json:"username"`
	IP        string            `json:"ip"`
	LoginType visitor.LoginType `json:"login_type"`
}

// RecordLogin handles POST /api/v1/logins.
func (s *Server) RecordLogin(ctx echo.Context) error {
	var req loginRequest
	if err := ctx.Bind(&req); err != nil {
		return badRequest(ctx, err)
	}
	ip := strings.TrimSpace(req.IP)
	if ip == "" {
		ip = ctx.RealIP()
	}
	cmd, err := commands.NewLoginRecordCommand(req.Username, ip, req.LoginType)
	if err != nil {
		return badRequest(ctx, err)
	}
	return s.enqueue(ctx, job.LoginRecord, cmd)
}

// TriggerJob handles POST /api/v1/jobs/:name for recurring jobs only.
func (s *Server) TriggerJob(ctx echo.Context) error {
	name := job.Name(ctx.Param("name"))
	if _, ok := s.manualJobs[name]; !ok {
		return ctx.JSON(http.StatusNotFound, Error{
			Code:    http.StatusNotFound,
			Message: "Unknown job " + string(name),
		})
	}
	handle, err := s.trigger.Trigger(ctx.Request().Context(), name)
	if err != nil {
		return schedulerError(ctx, err)
	}
	return ctx.JSON(http.StatusAccepted, handle)
}

// GetLinks handles GET /api/v1/links with an optional ?status= filter.
func (s *Server) GetLinks(ctx echo.Context) error {
	var filter *link.Status
	if raw := ctx.QueryParam("status"); raw != "" {
		status, ok := parseLinkStatus(raw)
		if !ok {
			return badRequest(ctx, errs.NewValueIsInvalidError("status"))
		}
		filter = &status
	}
	query, err := queries.NewGetLinksQuery(filter)
	if err != nil {
		return badRequest(ctx, err)
	}

	links, err := s.getLinksHandler.Handle(ctx.Request().Context(), query)
	if err != nil {
		return ctx.JSON(http.StatusInternalServerError, Error{
			Code:    http.StatusInternalServerError,
			Message: "Failed to retrieve links",
		})
	}
	return ctx.JSON(http.StatusOK, links)
}

func (s *Server) enqueue(ctx echo.Context, name job.Name, payload any) error {
	handle, err := s.scheduler.Enqueue(ctx.Request().Context(), name, payload)
	if err != nil {
		return schedulerError(ctx, err)
	}
	return ctx.JSON(http.StatusAccepted, handle)
}

func postID(ctx echo.Context) (int64, error) {
	id, err := strconv.ParseInt(ctx.Param("id"), 10, 64)
	if err != nil {
		return 0, errs.NewValueIsInvalidErrorWithCause("post id", err)
	}
	return id, nil
}

func parseLinkStatus(raw string) (link.Status, bool) {
	for _, s := range []link.Status{link.Pending, link.Available, link.Unavailable} {
		if strings.EqualFold(s.String(), raw) {
			return s, true
		}
	}
	return 0, false
}

func badRequest(ctx echo.Context, err error) error {
	return ctx.JSON(http.StatusBadRequest, Error{
		Code:    http.StatusBadRequest,
		Message: "Invalid request: " + err.Error(),
	})
}

func schedulerError(ctx echo.Context, err error) error {
	code := http.StatusInternalServerError
	if errors.Is(err, errs.ErrObjectNotFound) {
		code = http.StatusNotFound
	}
	if errors.Is(err, jobs.ErrSchedulerStopped) {
		code = http.StatusServiceUnavailable
	}
	message := "Failed to schedule job"
	if errors.Is(err, jobs.ErrJobAlreadyRunning) {
		code = http.StatusConflict
		message = "Job is already running"
	}
	return ctx.JSON(code, Error{
		Code:    code,
		Message: message,
	})
}
