// Package httpserver exposes the airwatch HTTP API and the websocket feed.
package httpserver

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/hacknova/airwatch/internal/broadcast"
	"github.com/hacknova/airwatch/internal/errs"
	"github.com/hacknova/airwatch/internal/model"
	"github.com/hacknova/airwatch/internal/service"
)

// Server wires services into HTTP handlers.
type Server struct {
	auth      service.AuthService
	telemetry service.TelemetryService
	reports   service.ReportService
	hub       *broadcast.Hub
	logger    *zap.Logger
}

// New constructs a Server with injected services.
func New(
	auth service.AuthService,
	telemetry service.TelemetryService,
	reports service.ReportService,
	hub *broadcast.Hub,
	logger *zap.Logger,
) *Server {
	return &Server{auth: auth, telemetry: telemetry, reports: reports, hub: hub, logger: logger}
}

// Router builds the gin engine with all routes and middleware mounted.
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(Recovery(s.logger), RequestLogger(s.logger), cors())

	api := r.Group("/api")
	{
		api.POST("/auth/signup", s.handleSignup)
		api.POST("/auth/login", s.handleLogin)
		api.GET("/auth/me", RequireAuth(s.auth), s.handleMe)

		api.GET("/sensors", s.handleListSensors)
		api.POST("/sensors", RequireAuth(s.auth), s.handleProvisionSensor)
		api.POST("/sensors/data", s.handleIngest)
		api.GET("/sensors/history", s.handleHistory)

		api.GET("/reports", s.handleListReports)
		api.POST("/reports", s.handleCreateReport)
	}

	r.GET("/ws", func(c *gin.Context) { s.hub.ServeWS(c.Writer, c.Request) })
	return r
}

// userJSON is the public shape of an account.
type userJSON struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

func toUserJSON(u model.User) userJSON {
	return userJSON{ID: u.ID.String(), Name: u.Name, Email: u.Email}
}

type signupRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleSignup(c *gin.Context) {
	var req signupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	id, err := s.auth.Register(c.Request.Context(), req.Email, req.Password, req.Name)
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
			return
		}
		s.serverError(c, "signup", err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id.String(), "message": "user created successfully"})
}

type loginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) handleLogin(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	tokens, user, err := s.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		// Missing account and wrong password intentionally share one body.
		if errors.Is(err, errs.ErrNotFound) || errors.Is(err, errs.ErrUnauthorized) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid credentials"})
			return
		}
		s.serverError(c, "login", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"token": tokens.AccessToken, "user": toUserJSON(user)})
}

func (s *Server) handleMe(c *gin.Context) {
	uid, ok := UserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "access denied"})
		return
	}
	user, err := s.auth.GetUser(c.Request.Context(), uid)
	if err != nil {
		if errors.Is(err, errs.ErrNotFound) {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "access denied"})
			return
		}
		s.serverError(c, "me", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"user": toUserJSON(user)})
}

func (s *Server) handleListSensors(c *gin.Context) {
	sensors, err := s.telemetry.ListSensors(c.Request.Context())
	if err != nil {
		s.serverError(c, "list sensors", err)
		return
	}
	if sensors == nil {
		sensors = []model.Sensor{}
	}
	c.JSON(http.StatusOK, sensors)
}

type provisionSensorRequest struct {
	ID     string  `json:"id" binding:"required"`
	Name   string  `json:"name"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
	Status string  `json:"status"`
}

func (s *Server) handleProvisionSensor(c *gin.Context) {
	var req provisionSensorRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	sensor, err := s.telemetry.ProvisionSensor(c.Request.Context(), model.Sensor{
		ID:     req.ID,
		Name:   req.Name,
		Lat:    req.Lat,
		Lng:    req.Lng,
		Status: req.Status,
	})
	if err != nil {
		if errors.Is(err, errs.ErrAlreadyExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "sensor already exists"})
			return
		}
		s.serverError(c, "provision sensor", err)
		return
	}
	c.JSON(http.StatusCreated, sensor)
}

type ingestRequest struct {
	SensorID string  `json:"sensorId" binding:"required"`
	PM25     float64 `json:"pm25"`
	PM10     float64 `json:"pm10"`
	Lat      float64 `json:"lat"`
	Lng      float64 `json:"lng"`
	Type     string  `json:"type"`
	Name     string  `json:"name"`
}

// handleIngest accepts a sample from the sensor feed. It answers 201 even
// when persistence is down: alert evaluation and fan-out happen before the
// response, and those are the point of the real-time path.
func (s *Server) handleIngest(c *gin.Context) {
	var req ingestRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	s.telemetry.Record(c.Request.Context(), service.IngestReading{
		SensorID: req.SensorID,
		PM25:     req.PM25,
		PM10:     req.PM10,
		Lat:      req.Lat,
		Lng:      req.Lng,
		Type:     req.Type,
		Name:     req.Name,
	})
	c.JSON(http.StatusCreated, gin.H{"message": "data received"})
}

func (s *Server) handleHistory(c *gin.Context) {
	points, err := s.telemetry.History(c.Request.Context(), c.Query("sensorId"))
	if err != nil {
		s.serverError(c, "history", err)
		return
	}
	if points == nil {
		points = []model.HourlyPoint{}
	}
	c.JSON(http.StatusOK, points)
}

func (s *Server) handleListReports(c *gin.Context) {
	reports, err := s.reports.List(c.Request.Context())
	if err != nil {
		s.serverError(c, "list reports", err)
		return
	}
	if reports == nil {
		reports = []model.Report{}
	}
	c.JSON(http.StatusOK, reports)
}

type createReportRequest struct {
	Type        string  `json:"type"`
	Lat         float64 `json:"lat"`
	Lng         float64 `json:"lng"`
	Description string  `json:"description"`
}

func (s *Server) handleCreateReport(c *gin.Context) {
	var req createReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid input"})
		return
	}
	rp, err := s.reports.Create(c.Request.Context(), req.Type, req.Lat, req.Lng, req.Description)
	if err != nil {
		s.serverError(c, "create report", err)
		return
	}
	c.JSON(http.StatusOK, rp)
}

// serverError hides internals behind a generic message; details go to the log.
func (s *Server) serverError(c *gin.Context, op string, err error) {
	s.logger.Error(op, zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
}

// cors mirrors the permissive policy of the demo frontend.
func cors() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Authorization, Content-Type")
		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}
