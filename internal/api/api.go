package api

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"stream-insights/internal/metrics"
	"stream-insights/internal/models"
	"stream-insights/internal/store"
	"stream-insights/internal/twitch"

	"github.com/gin-gonic/gin"
)

const (
	rollingWindowDays  = 30
	defaultMaxAgeHours = 12
	defaultVodCount    = 20
)

// APIHandler serves the dashboard's query/command surface. The Twitch
// client may be nil when credentials are not configured; endpoints that
// need it degrade to 503 instead of failing at startup.
type APIHandler struct {
	store  *store.Store
	twitch *twitch.Client
}

func SetupRoutes(r *gin.RouterGroup, st *store.Store, tw *twitch.Client) *APIHandler {
	handler := &APIHandler{store: st, twitch: tw}

	channels := r.Group("/channels")
	{
		channels.GET("/:channel/stats", handler.GetRollingStats)
		channels.GET("/:channel/live", handler.GetLiveStatus)
		channels.GET("/:channel/vod-summary", handler.GetVodSummary)
		channels.POST("/:channel/vod-summary/refresh", handler.RefreshVodSummary)
	}

	r.POST("/projections", handler.Project)
	r.POST("/influencer/metrics", handler.InfluencerMetrics)

	return handler
}

// GetRollingStats returns the trailing-30d live-sample statistics for a
// channel. No samples is a normal empty result, not an error.
func (h *APIHandler) GetRollingStats(c *gin.Context) {
	login := twitch.NormalizeLogin(c.Param("channel"))
	if login == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel is required"})
		return
	}

	stats, err := h.store.RollingStats(login, rollingWindowDays, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"channel":             login,
		"sample_count":        stats.SampleCount,
		"avg_viewers":         stats.AvgViewers,
		"peak_viewers":        stats.PeakViewers,
		"last_live_sample_at": stats.LastLiveSampleAt,
		"last_any_sample_at":  stats.LastAnySampleAt,
	})
}

// GetLiveStatus asks the platform whether the channel is live right now.
func (h *APIHandler) GetLiveStatus(c *gin.Context) {
	login := twitch.NormalizeLogin(c.Param("channel"))
	if login == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel is required"})
		return
	}
	if h.twitch == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "twitch credentials not configured"})
		return
	}

	liveMap, err := h.twitch.GetStreamsByLogins(c.Request.Context(), []string{login})
	if err != nil {
		c.JSON(statusForPlatformError(err), gin.H{"error": err.Error()})
		return
	}

	if s, ok := liveMap[login]; ok {
		c.JSON(http.StatusOK, gin.H{
			"channel":      login,
			"is_live":      true,
			"viewer_count": s.ViewerCount,
			"game_name":    s.GameName,
			"title":        s.Title,
			"started_at":   s.StartedAt,
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"channel":      login,
		"is_live":      false,
		"viewer_count": nil,
	})
}

// GetVodSummary serves the cached VOD aggregate if it is younger than
// max_age_hours (default 12). A missing or stale row reports cached=false.
func (h *APIHandler) GetVodSummary(c *gin.Context) {
	login := twitch.NormalizeLogin(c.Param("channel"))
	if login == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel is required"})
		return
	}

	maxAgeHours := defaultMaxAgeHours
	if v := c.Query("max_age_hours"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_age_hours"})
			return
		}
		maxAgeHours = parsed
	}

	summary, err := h.store.CachedVodSummary(login, time.Duration(maxAgeHours)*time.Hour, time.Now().UTC())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if summary == nil {
		c.JSON(http.StatusOK, gin.H{"channel": login, "cached": false})
		return
	}
	c.JSON(http.StatusOK, gin.H{"channel": login, "cached": true, "summary": summary})
}

// RefreshVodSummary recomputes the channel's VOD aggregate from its most
// recent archived broadcasts and replaces the cache row. The cache is only
// written after the whole computation succeeded.
func (h *APIHandler) RefreshVodSummary(c *gin.Context) {
	login := twitch.NormalizeLogin(c.Param("channel"))
	if login == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "channel is required"})
		return
	}
	if h.twitch == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "twitch credentials not configured"})
		return
	}

	count := defaultVodCount
	if v := c.Query("count"); v != "" {
		parsed, err := strconv.Atoi(v)
		if err != nil || parsed < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid count"})
			return
		}
		count = parsed
	}

	ctx := c.Request.Context()
	users, err := h.twitch.GetUsersByLogins(ctx, []string{login})
	if err != nil {
		c.JSON(statusForPlatformError(err), gin.H{"error": err.Error()})
		return
	}
	user, ok := users[login]
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "channel not found"})
		return
	}

	videos, err := h.twitch.GetVideosByUserID(ctx, user.ID, count)
	if err != nil {
		c.JSON(statusForPlatformError(err), gin.H{"error": err.Error()})
		return
	}

	records := make([]metrics.VodRecord, 0, len(videos))
	for _, v := range videos {
		records = append(records, metrics.VodRecord{Views: v.ViewCount, Duration: v.Duration})
	}
	agg := metrics.SummarizeVods(records)

	summary := models.VodSummary{
		UserLogin:      login,
		UpdatedAt:      time.Now().UTC(),
		VodCount:       agg.VodCount,
		AvgVodViews:    agg.AvgViews,
		MedianVodViews: agg.MedianViews,
		ViewsPerHour:   agg.ViewsPerHour,
	}
	if err := h.store.UpsertVodSummary(summary); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"channel": login, "cached": true, "summary": summary})
}

// Project runs the pure forecast over the posted planning inputs.
func (h *APIHandler) Project(c *gin.Context) {
	var input metrics.ProjectionInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.PlannedHours < 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "planned_hours must be >= 0"})
		return
	}
	c.JSON(http.StatusOK, metrics.Project(input))
}

type influencerRequest struct {
	metrics.InfluencerInput
	TargetROI *float64 `json:"target_roi"`
	TargetCPA *float64 `json:"target_cpa"`
}

// InfluencerMetrics computes the campaign unit economics, plus the max-fee
// solvers when targets are supplied.
func (h *APIHandler) InfluencerMetrics(c *gin.Context) {
	var req influencerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result := metrics.CalculateInfluencer(req.InfluencerInput)

	resp := gin.H{"metrics": result}
	if req.TargetROI != nil {
		resp["max_fee_by_roi"] = metrics.MaxFeeByROI(result.Revenue, *req.TargetROI)
	}
	if req.TargetCPA != nil {
		resp["max_fee_by_cpa"] = metrics.MaxFeeByCPA(*req.TargetCPA, result.FTD)
	}
	c.JSON(http.StatusOK, resp)
}

func statusForPlatformError(err error) int {
	var authErr *twitch.AuthError
	if errors.As(err, &authErr) {
		return http.StatusBadGateway
	}
	var reqErr *twitch.RequestError
	if errors.As(err, &reqErr) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
