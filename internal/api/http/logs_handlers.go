package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/GriffinCanCode/vwhost/internal/shared/utils"
)

// maxShellLogBatch bounds one batch of shell log entries
const maxShellLogBatch = 500

// ShellLogEntry is a log line produced by the UI shell
type ShellLogEntry struct {
	ID        string                 `json:"id"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	WindowID  string                 `json:"window_id,omitempty"`
	Context   map[string]interface{} `json:"context"`
	Timestamp string                 `json:"timestamp"`
}

// ShellLogBatch is a batch of shell log entries
type ShellLogBatch struct {
	Entries []ShellLogEntry `json:"entries"`
}

// StreamLogs folds UI shell logs into the host's structured log
func (h *Handlers) StreamLogs(c *gin.Context) {
	var batch ShellLogBatch
	if err := c.ShouldBindJSON(&batch); err != nil {
		badRequest(c, err)
		return
	}
	if len(batch.Entries) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"success": false, "error": "no log entries provided"})
		return
	}
	if len(batch.Entries) > maxShellLogBatch {
		c.JSON(http.StatusRequestEntityTooLarge, gin.H{"success": false, "error": "too many log entries"})
		return
	}

	logger := h.logger.Named("shell")
	rejected := 0
	for _, entry := range batch.Entries {
		if utils.ValidateLogMessage(entry.Message) != nil {
			rejected++
			continue
		}
		logShellEntry(logger, entry)
	}

	c.JSON(http.StatusOK, gin.H{
		"success":          true,
		"entries_received": len(batch.Entries) - rejected,
		"entries_rejected": rejected,
		"timestamp":        time.Now().Unix(),
	})
}

func logShellEntry(logger *zap.Logger, entry ShellLogEntry) {
	fields := make([]zap.Field, 0, len(entry.Context)+3)
	fields = append(fields,
		zap.String("shell_log_id", entry.ID),
		zap.String("shell_timestamp", entry.Timestamp),
	)
	if entry.WindowID != "" {
		fields = append(fields, zap.String("window_id", entry.WindowID))
	}
	for key, value := range entry.Context {
		switch v := value.(type) {
		case string:
			fields = append(fields, zap.String(key, v))
		case float64:
			fields = append(fields, zap.Float64(key, v))
		case bool:
			fields = append(fields, zap.Bool(key, v))
		default:
			fields = append(fields, zap.Any(key, v))
		}
	}

	switch entry.Level {
	case "error":
		logger.Error(entry.Message, fields...)
	case "warn":
		logger.Warn(entry.Message, fields...)
	case "debug", "verbose":
		logger.Debug(entry.Message, fields...)
	default:
		logger.Info(entry.Message, fields...)
	}
}
