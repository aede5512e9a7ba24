// Package api exposes a scribble.Client over HTTP.
package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/pevans/scribble"
	"github.com/pevans/scribble/cache"
	"github.com/pevans/scribble/config"
)

// Server represents the HTTP API server.
type Server struct {
	client *scribble.Client
	store  *config.ConfigStore
}

// NewServer creates a server for client. store may be nil, in which case
// configuration changes only last until the process exits.
func NewServer(client *scribble.Client, store *config.ConfigStore) *Server {
	return &Server{
		client: client,
		store:  store,
	}
}

// SetupRouter configures the Gin router with all API routes.
func (s *Server) SetupRouter() *gin.Engine {
	router := gin.Default()

	// Add CORS middleware
	router.Use(func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, PUT, DELETE, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	api := router.Group("/api/v1")
	api.GET("/stories/search", s.HandleSearchStories)
	api.GET("/stories", s.HandleGetStory)
	api.GET("/users/search", s.HandleSearchUsers)
	api.GET("/users", s.HandleGetUser)
	api.GET("/series-finder", s.HandleSeriesFinder)
	api.GET("/rankings", s.HandleRankings)
	api.GET("/series/latest", s.HandleLatestSeries)
	api.GET("/series/:sid/feed", s.HandleSeriesFeed)
	api.GET("/authors/:uid/feed", s.HandleAuthorFeed)
	api.GET("/updates/latest", s.HandleLatestUpdates)
	api.GET("/forum/latest", s.HandleLatestTopics)

	api.GET("/config", s.HandleGetConfig)
	api.PUT("/config", s.HandleUpdateConfig)
	api.GET("/cache", s.HandleCacheStatus)
	api.DELETE("/cache", s.HandleClearCache)

	return router
}

// ListResponse wraps every list result.
type ListResponse[T any] struct {
	Items []T `json:"items"`
	Total int `json:"total"`
}

// ConfigResponse is the effective runtime configuration.
type ConfigResponse struct {
	UserAgent    string          `json:"user_agent"`
	Referrer     string          `json:"referrer"`
	CacheEnabled map[string]bool `json:"cache_enabled"`
}

// CacheResponse describes the cache.
type CacheResponse struct {
	Entries int             `json:"entries"`
	Enabled map[string]bool `json:"enabled"`
}

// errorResponse creates a standardized error response.
func errorResponse(code, message string) gin.H {
	return gin.H{
		"error": gin.H{
			"code":    code,
			"message": message,
		},
	}
}

// upstreamUnavailable is sent whenever the client reported no result; the
// cause has already been logged by the client.
func upstreamUnavailable(c *gin.Context) {
	c.JSON(http.StatusBadGateway, errorResponse("upstream_unavailable", "The page could not be fetched or read"))
}

func respondList[T any](c *gin.Context, items []T) {
	if items == nil {
		upstreamUnavailable(c)
		return
	}
	c.JSON(http.StatusOK, ListResponse[T]{Items: items, Total: len(items)})
}

func respondOne[T any](c *gin.Context, item *T) {
	if item == nil {
		upstreamUnavailable(c)
		return
	}
	c.JSON(http.StatusOK, item)
}

// requireQuery returns the named query parameter, or writes a 400 and
// returns false when it is empty.
func requireQuery(c *gin.Context, name string) (string, bool) {
	v := c.Query(name)
	if v == "" {
		c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", "Missing required parameter: "+name))
		return "", false
	}
	return v, true
}

// HandleSearchStories handles GET /api/v1/stories/search?q=.
func (s *Server) HandleSearchStories(c *gin.Context) {
	q, ok := requireQuery(c, "q")
	if !ok {
		return
	}
	respondList(c, s.client.SearchStories(c.Request.Context(), q))
}

// HandleSearchUsers handles GET /api/v1/users/search?q=.
func (s *Server) HandleSearchUsers(c *gin.Context) {
	q, ok := requireQuery(c, "q")
	if !ok {
		return
	}
	respondList(c, s.client.SearchUsers(c.Request.Context(), q))
}

// HandleSeriesFinder handles GET /api/v1/series-finder?url=.
func (s *Server) HandleSeriesFinder(c *gin.Context) {
	u, ok := requireQuery(c, "url")
	if !ok {
		return
	}
	respondList(c, s.client.SeriesFinder(c.Request.Context(), u))
}

// HandleRankings handles GET /api/v1/rankings?sort=&order=. Both default to
// popularity, descending.
func (s *Server) HandleRankings(c *gin.Context) {
	ranking, err := scribble.ParseRanking(c.DefaultQuery("sort", scribble.RankingPopularity.ID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", err.Error()))
		return
	}
	order, err := scribble.ParseOrder(c.DefaultQuery("order", scribble.OrderDescending.ID))
	if err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", err.Error()))
		return
	}
	respondList(c, s.client.Rankings(c.Request.Context(), ranking, order))
}

// HandleLatestSeries handles GET /api/v1/series/latest.
func (s *Server) HandleLatestSeries(c *gin.Context) {
	respondList(c, s.client.LatestSeries(c.Request.Context()))
}

// HandleLatestUpdates handles GET /api/v1/updates/latest.
func (s *Server) HandleLatestUpdates(c *gin.Context) {
	respondList(c, s.client.LatestUpdates(c.Request.Context()))
}

// HandleLatestTopics handles GET /api/v1/forum/latest.
func (s *Server) HandleLatestTopics(c *gin.Context) {
	respondList(c, s.client.LatestTopics(c.Request.Context()))
}

// HandleGetStory handles GET /api/v1/stories?url=.
func (s *Server) HandleGetStory(c *gin.Context) {
	u, ok := requireQuery(c, "url")
	if !ok {
		return
	}
	respondOne(c, s.client.Story(c.Request.Context(), u))
}

// HandleGetUser handles GET /api/v1/users?url=.
func (s *Server) HandleGetUser(c *gin.Context) {
	u, ok := requireQuery(c, "url")
	if !ok {
		return
	}
	respondOne(c, s.client.User(c.Request.Context(), u))
}

// HandleSeriesFeed handles GET /api/v1/series/:sid/feed.
func (s *Server) HandleSeriesFeed(c *gin.Context) {
	sid, ok := pathID(c, "sid")
	if !ok {
		return
	}
	respondList(c, s.client.SeriesFeed(c.Request.Context(), sid))
}

// HandleAuthorFeed handles GET /api/v1/authors/:uid/feed.
func (s *Server) HandleAuthorFeed(c *gin.Context) {
	uid, ok := pathID(c, "uid")
	if !ok {
		return
	}
	respondList(c, s.client.AuthorFeed(c.Request.Context(), uid))
}

func pathID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		c.JSON(http.StatusBadRequest, errorResponse("invalid_parameter", "Invalid "+name+": must be a positive integer"))
		return 0, false
	}
	return id, true
}

// HandleGetConfig handles GET /api/v1/config.
func (s *Server) HandleGetConfig(c *gin.Context) {
	c.JSON(http.StatusOK, s.currentConfig())
}

// HandleUpdateConfig handles PUT /api/v1/config. Fields left out of the body
// keep their value.
func (s *Server) HandleUpdateConfig(c *gin.Context) {
	var updates config.Overrides
	if err := c.ShouldBindJSON(&updates); err != nil {
		c.JSON(http.StatusBadRequest, errorResponse("bad_request", err.Error()))
		return
	}

	for name := range updates.CacheEnabled {
		if _, err := cache.ParseCategory(name); err != nil {
			c.JSON(http.StatusBadRequest, errorResponse("validation_error", err.Error()))
			return
		}
	}

	if s.store != nil {
		if err := s.store.UpdateOverrides(&updates); err != nil {
			c.JSON(http.StatusInternalServerError, errorResponse("internal_error", "Failed to update configuration"))
			return
		}
	}
	updates.Apply(s.client)

	c.JSON(http.StatusOK, s.currentConfig())
}

// HandleCacheStatus handles GET /api/v1/cache.
func (s *Server) HandleCacheStatus(c *gin.Context) {
	c.JSON(http.StatusOK, CacheResponse{
		Entries: s.client.Cache().Len(),
		Enabled: s.cacheEnabled(),
	})
}

// HandleClearCache handles DELETE /api/v1/cache.
func (s *Server) HandleClearCache(c *gin.Context) {
	s.client.Cache().Clear()
	c.Status(http.StatusNoContent)
}

func (s *Server) currentConfig() ConfigResponse {
	return ConfigResponse{
		UserAgent:    s.client.UserAgent(),
		Referrer:     s.client.Referrer(),
		CacheEnabled: s.cacheEnabled(),
	}
}

func (s *Server) cacheEnabled() map[string]bool {
	enabled := make(map[string]bool, len(cache.Categories))
	for _, category := range cache.Categories {
		enabled[category.String()] = s.client.Cache().Enabled(category)
	}
	return enabled
}
