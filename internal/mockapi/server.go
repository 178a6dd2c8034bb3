// Package mockapi serves the bot backend's REST contract from memory. It
// exists for the test suite and for `botpanel mock-server`, so the console
// can be exercised without a real backend. It implements the same routes
// and wire shapes the backend exposes, not the backend itself.
package mockapi

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"botpanel/internal/models"
)

var validate = validator.New()

// Options configures a mock server instance.
type Options struct {
	AdminUser     string
	AdminPassword string
	JWTSecret     string // random per process when empty
	Logger        zerolog.Logger
}

// Server is an in-memory implementation of the dashboard's REST contract.
type Server struct {
	engine  *gin.Engine
	state   *state
	tokens  *tokenService
	limiter *rateLimiter
	log     zerolog.Logger
}

// New builds a server seeded with an admin account and sample data.
func New(opts Options) (*Server, error) {
	if opts.AdminUser == "" {
		opts.AdminUser = "admin"
	}
	if opts.AdminPassword == "" {
		opts.AdminPassword = "admin12345"
	}
	st, err := newState(opts.AdminUser, opts.AdminPassword)
	if err != nil {
		return nil, err
	}

	s := &Server{
		state:   st,
		tokens:  newTokenService(opts.JWTSecret),
		limiter: newRateLimiter(rate.Every(time.Minute/300), 30),
		log:     opts.Logger,
	}

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(s.limiter.middleware())

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/auth/token", s.login)
		api.POST("/users", s.createUser)

		authed := api.Group("")
		authed.Use(s.requireAuth())
		{
			authed.GET("/users/me", s.me)
			authed.GET("/users", s.listUsers)
			authed.PATCH("/users/:id", s.patchUser)

			authed.GET("/plugins", s.listPlugins)
			authed.POST("/plugins/install", s.installPlugin)
			authed.PATCH("/plugins/:id", s.togglePlugin)
			authed.PATCH("/plugins/:id/settings", s.savePluginSettings)
			authed.DELETE("/plugins/:id", s.deletePlugin)

			authed.GET("/stats/summary", s.statsSummary)
			authed.GET("/stats/messages/:range", s.messageStats)
			authed.GET("/activities/recent", s.recentActivities)
			authed.GET("/system/resources", s.systemResources)
			authed.GET("/logs", s.logsPage)

			authed.GET("/settings", s.listSettings)
			authed.PATCH("/settings", s.saveSettings)
		}
	}

	s.engine = r
	return s, nil
}

// Handler exposes the router for httptest.
func (s *Server) Handler() http.Handler { return s.engine }

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:           addr,
		Handler:        s.engine,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   10 * time.Second,
		MaxHeaderBytes: 1 << 20,
	}
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Msg("mock backend listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		s.limiter.stop()
		return err
	case <-ctx.Done():
	}

	s.limiter.stop()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// --- auth ---

type loginReq struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

func (s *Server) login(c *gin.Context) {
	key := c.ClientIP()
	if retryAfter, locked := s.tokens.checkLockout(key); locked {
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, gin.H{"detail": "too many failed logins"})
		return
	}

	var req loginReq
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid JSON"})
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()

	user := s.state.findUserByName(req.Username)
	if user == nil || !checkPassword(req.Password, user.PasswordHash) {
		s.tokens.recordFailure(key)
		c.Header("WWW-Authenticate", "Bearer")
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Incorrect username or password"})
		return
	}
	if !user.IsActive {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "Inactive user"})
		return
	}

	token, err := s.tokens.generate(user.ID, user.Username)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "token generation failed"})
		return
	}
	s.tokens.clearFailures(key)

	now := time.Now().UTC()
	user.LastLogin = &now
	id := user.ID
	s.state.recordActivity("login", user.Username+" signed in", &id, user.Username)

	c.JSON(http.StatusOK, models.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresIn:   int64(tokenExpiry.Seconds()),
	})
}

func (s *Server) me(c *gin.Context) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	user := s.state.findUser(c.GetInt64(ctxUserID))
	if user == nil {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"detail": "Could not validate credentials"})
		return
	}
	c.JSON(http.StatusOK, user.UserProfile)
}

// --- users ---

func (s *Server) listUsers(c *gin.Context) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	out := make([]models.UserProfile, 0, len(s.state.users))
	for _, u := range s.state.users {
		out = append(out, u.UserProfile)
	}
	c.JSON(http.StatusOK, out)
}

type createUserReq struct {
	Username        string `json:"username" validate:"required,min=3,max=50"`
	Email           string `json:"email" validate:"required,email"`
	FullName        string `json:"full_name"`
	Password        string `json:"password" validate:"required,min=8"`
	ConfirmPassword string `json:"confirm_password"`
	IsAdmin         bool   `json:"is_admin"`
}

// createUser serves both admin user creation and self-registration: an
// authenticated admin may set any flag, anonymous callers must supply a
// matching confirm_password and always get a regular account.
func (s *Server) createUser(c *gin.Context) {
	var req createUserReq
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid JSON"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": err.Error()})
		return
	}

	isAdminCaller := false
	if header := c.GetHeader("Authorization"); len(header) > len("Bearer ") {
		if claims, err := s.tokens.validate(header[len("Bearer "):]); err == nil {
			s.state.mu.Lock()
			if caller := s.state.findUserByName(claims.Username); caller != nil && caller.IsAdmin {
				isAdminCaller = true
			}
			s.state.mu.Unlock()
		}
	}
	if !isAdminCaller {
		if req.ConfirmPassword != req.Password {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "passwords do not match"})
			return
		}
		req.IsAdmin = false
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "hash failure"})
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	if s.state.findUserByName(req.Username) != nil {
		c.AbortWithStatusJSON(http.StatusConflict, gin.H{"detail": "username already exists"})
		return
	}
	role := "user"
	if req.IsAdmin {
		role = "admin"
	}
	user := &userRecord{
		UserProfile: models.UserProfile{
			ID:        s.state.nextUserID,
			Username:  req.Username,
			Email:     req.Email,
			FullName:  req.FullName,
			IsAdmin:   req.IsAdmin,
			IsActive:  true,
			Role:      role,
			CreatedAt: time.Now().UTC(),
		},
		PasswordHash: hash,
	}
	s.state.nextUserID++
	s.state.users = append(s.state.users, user)
	id := user.ID
	s.state.recordActivity("user", "user "+user.Username+" created", &id, user.Username)
	c.JSON(http.StatusCreated, user.UserProfile)
}

func (s *Server) patchUser(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid user id"})
		return
	}
	var patch models.UserPatch
	if err := c.BindJSON(&patch); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid JSON"})
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	caller := s.state.findUser(c.GetInt64(ctxUserID))
	if caller == nil || !caller.IsAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "admin required"})
		return
	}
	user := s.state.findUser(id)
	if user == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "user not found"})
		return
	}
	if patch.IsActive != nil {
		user.IsActive = *patch.IsActive
	}
	if patch.IsAdmin != nil {
		user.IsAdmin = *patch.IsAdmin
		if user.IsAdmin {
			user.Role = "admin"
		} else {
			user.Role = "user"
		}
	}
	c.JSON(http.StatusOK, user.UserProfile)
}

// --- plugins ---

func (s *Server) listPlugins(c *gin.Context) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	out := make([]models.Plugin, 0, len(s.state.plugins))
	for _, p := range s.state.plugins {
		out = append(out, *p)
	}
	c.JSON(http.StatusOK, out)
}

func (s *Server) installPlugin(c *gin.Context) {
	var req models.InstallRequest
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid JSON"})
		return
	}
	if err := validate.Struct(req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "a valid plugin url is required"})
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	plugin := &models.Plugin{
		ID:          s.state.nextPluginID,
		Name:        "plugin-" + strconv.FormatInt(s.state.nextPluginID, 10),
		Version:     "1.0.0",
		Description: "installed from " + req.URL,
		Author:      "unknown",
		Category:    "tools",
		IsEnabled:   true,
		Config:      "{}",
	}
	s.state.nextPluginID++
	s.state.plugins = append(s.state.plugins, plugin)
	s.state.recordActivity("plugin", "plugin "+plugin.Name+" installed", nil, c.GetString(ctxUsername))
	c.JSON(http.StatusCreated, plugin)
}

type toggleReq struct {
	IsEnabled *bool `json:"is_enabled" binding:"required"`
}

func (s *Server) togglePlugin(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid plugin id"})
		return
	}
	var req toggleReq
	if err := c.BindJSON(&req); err != nil || req.IsEnabled == nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "is_enabled is required"})
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	plugin := s.state.findPlugin(id)
	if plugin == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "plugin not found"})
		return
	}
	plugin.IsEnabled = *req.IsEnabled
	c.JSON(http.StatusOK, models.PluginToggle{ID: plugin.ID, IsEnabled: plugin.IsEnabled})
}

type pluginSettingsReq struct {
	Config string `json:"config"`
}

func (s *Server) savePluginSettings(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid plugin id"})
		return
	}
	var req pluginSettingsReq
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid JSON"})
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	plugin := s.state.findPlugin(id)
	if plugin == nil {
		c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "plugin not found"})
		return
	}
	plugin.Config = req.Config
	c.Status(http.StatusOK)
}

func (s *Server) deletePlugin(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid plugin id"})
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	for i, p := range s.state.plugins {
		if p.ID == id {
			s.state.plugins = append(s.state.plugins[:i], s.state.plugins[i+1:]...)
			c.Status(http.StatusNoContent)
			return
		}
	}
	c.AbortWithStatusJSON(http.StatusNotFound, gin.H{"detail": "plugin not found"})
}

// --- stats / logs / settings ---

func (s *Server) statsSummary(c *gin.Context) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	active := int64(0)
	for _, p := range s.state.plugins {
		if p.IsEnabled {
			active++
		}
	}
	lastActivity := s.state.startedAt
	if len(s.state.activities) > 0 {
		lastActivity = s.state.activities[0].Timestamp
	}
	c.JSON(http.StatusOK, models.StatsSummary{
		TotalUsers:    int64(len(s.state.users)),
		TotalPlugins:  int64(len(s.state.plugins)),
		ActivePlugins: active,
		TotalMessages: s.state.totalMessages,
		DailyMessages: s.state.dailyMessages,
		BotStatus:     "online",
		LastActivity:  lastActivity.Format(time.RFC3339),
	})
}

func (s *Server) messageStats(c *gin.Context) {
	rng := c.Param("range")
	switch rng {
	case "day", "week", "month", "year":
	default:
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid range"})
		return
	}
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	c.JSON(http.StatusOK, s.state.messageSeries(rng))
}

func (s *Server) recentActivities(c *gin.Context) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	out := make([]models.Activity, len(s.state.activities))
	copy(out, s.state.activities)
	c.JSON(http.StatusOK, out)
}

func (s *Server) systemResources(c *gin.Context) {
	c.JSON(http.StatusOK, sampleResources(c.Request.Context()))
}

func (s *Server) logsPage(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	pageSize, err := strconv.Atoi(c.DefaultQuery("page_size", "50"))
	if err != nil || pageSize < 1 || pageSize > 500 {
		pageSize = 50
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	start := (page - 1) * pageSize
	end := start + pageSize
	total := len(s.state.logs)
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	out := make([]models.LogEntry, end-start)
	copy(out, s.state.logs[start:end])
	c.JSON(http.StatusOK, models.LogPage{
		Logs:     out,
		Total:    total,
		Page:     page,
		PageSize: pageSize,
		HasMore:  end < total,
	})
}

func (s *Server) listSettings(c *gin.Context) {
	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	out := make([]models.Setting, len(s.state.settings))
	copy(out, s.state.settings)
	c.JSON(http.StatusOK, out)
}

type saveSettingsReq struct {
	Settings []models.Setting `json:"settings" binding:"required"`
}

func (s *Server) saveSettings(c *gin.Context) {
	var req saveSettingsReq
	if err := c.BindJSON(&req); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "invalid JSON"})
		return
	}

	s.state.mu.Lock()
	defer s.state.mu.Unlock()
	caller := s.state.findUser(c.GetInt64(ctxUserID))
	if caller == nil || !caller.IsAdmin {
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"detail": "admin required"})
		return
	}
	for _, incoming := range req.Settings {
		found := false
		for i := range s.state.settings {
			if s.state.settings[i].Key == incoming.Key {
				s.state.settings[i].Value = incoming.Value
				found = true
				break
			}
		}
		if !found {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"detail": "unknown setting " + incoming.Key})
			return
		}
	}
	c.Status(http.StatusOK)
}
