package handlers

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"crewdesk/internal/adapter/http/middleware"
)

const (
	StatusOk        = "ok"
	StatusDown      = "down"
	healthDBTimeout = 2 * time.Second
)

type HealthBasic struct {
	AppName           string `json:"app_name"`
	AppVersion        string `json:"app_version"`
	CurrentSystemTime string `json:"current_system_time"`
	Message           string `json:"message"`
}

type HealthServices struct {
	Mysql string `json:"mysql"`
}

type HealthAdvanced struct {
	AppName           string         `json:"app_name"`
	AppVersion        string         `json:"app_version"`
	CurrentSystemTime string         `json:"current_system_time"`
	Language          string         `json:"language"`
	Status            HealthServices `json:"status"`
}

type HealthHandler struct {
	db *sqlx.DB
}

func NewHealthHandler(db *sqlx.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// CheckHealth answers 200 while the store responds to pings, 500 otherwise.
func (h *HealthHandler) CheckHealth(c *gin.Context) {
	statusCode := http.StatusOK
	message := StatusOk
	if !h.pingDatabase(c.Request.Context()) {
		statusCode = http.StatusInternalServerError
		message = StatusDown
	}

	c.JSON(statusCode, HealthBasic{
		AppName:           os.Getenv("APP_NAME"),
		AppVersion:        appVersion(),
		CurrentSystemTime: time.Now().Format("2006-01-02 15:04:05"),
		Message:           message,
	})
}

// CheckHealthReport always answers 200 and carries a per-dependency status,
// so monitoring can tell a degraded store apart from a dead process.
func (h *HealthHandler) CheckHealthReport(c *gin.Context) {
	mysqlStatus := StatusDown
	if h.pingDatabase(c.Request.Context()) {
		mysqlStatus = StatusOk
	}

	c.JSON(http.StatusOK, HealthAdvanced{
		AppName:           os.Getenv("APP_NAME"),
		AppVersion:        appVersion(),
		CurrentSystemTime: time.Now().Format("2006-01-02 15:04:05"),
		Language:          middleware.GetLang(c),
		Status: HealthServices{
			Mysql: mysqlStatus,
		},
	})
}

func (h *HealthHandler) pingDatabase(ctx context.Context) bool {
	if h.db == nil {
		return false
	}
	// Bound the ping so a stalled database cannot hang the probe.
	pingCtx, cancel := context.WithTimeout(ctx, healthDBTimeout)
	defer cancel()
	return h.db.PingContext(pingCtx) == nil
}

func appVersion() string {
	if version := os.Getenv("APP_VERSION"); version != "" {
		return version
	}
	return "dev"
}
