package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"kanban-board-api/internal/database"
	"kanban-board-api/internal/models"
	"kanban-board-api/internal/realtime"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest represents the request payload for creating a task
type CreateTaskRequest struct {
	Title       string           `json:"title" binding:"required"`
	Description string           `json:"description" binding:"required"`
	Column      models.ColumnID  `json:"column" binding:"required,oneof=backlog in_progress review done"`
	Subtasks    []models.SubTask `json:"subtasks"`
}

// TaskHandler serves the task and column resources out of a Store. Every
// mutation reads the whole document, changes it and writes it back.
type TaskHandler struct {
	store database.Store
	hub   *realtime.Hub
	now   func() time.Time
}

// NewTaskHandler wires the handlers to store. hub may be nil when nobody
// listens for realtime events.
func NewTaskHandler(store database.Store, hub *realtime.Hub) *TaskHandler {
	return &TaskHandler{store: store, hub: hub, now: time.Now}
}

/*
*
GetTasks handles GET /api/tasks
Optional query params: column, status, q (title/description search),
_page and _limit. The filtered total is always sent in X-Total-Count.
*/
func (h *TaskHandler) GetTasks(c *gin.Context) {
	query := ParseTaskQuery(c.Request.URL.Query())
	doc := h.store.Read(c.Request.Context())

	filtered := query.Filter(doc.Tasks)
	c.Header("X-Total-Count", strconv.Itoa(len(filtered)))
	c.JSON(http.StatusOK, query.Window(filtered))
}

/*
*
CreateTask handles POST /api/tasks
The server assigns the id and the status mirrors the chosen column.
*/
func (h *TaskHandler) CreateTask(c *gin.Context) {
	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	doc := h.store.Read(ctx)
	now := h.now()

	task := models.Task{
		ID:          doc.NextTaskID(now),
		Title:       req.Title,
		Description: req.Description,
		Subtasks:    req.Subtasks,
	}
	task.MoveTo(req.Column)
	task.AssignSubTaskIDs(now)

	if err := task.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc.Tasks = append(doc.Tasks, task)
	if err := h.store.Write(ctx, doc); err != nil {
		log.Printf("Error creating task: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to create task",
		})
		return
	}

	h.hub.Publish(realtime.Event{Type: realtime.EventTaskCreated, TaskID: task.ID.String()})
	c.JSON(http.StatusCreated, task)
}

// GetTaskByID handles GET /api/tasks/:id
func (h *TaskHandler) GetTaskByID(c *gin.Context) {
	doc := h.store.Read(c.Request.Context())

	i, err := database.LookupTask(doc, models.StringID(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Task not found"})
		return
	}

	c.JSON(http.StatusOK, doc.Tasks[i])
}

// UpdateTask handles PUT and PATCH /api/tasks/:id
// The body is merged field by field onto the stored task; the id always
// comes from the stored record.
func (h *TaskHandler) UpdateTask(c *gin.Context) {
	var patch map[string]json.RawMessage
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": err.Error(),
		})
		return
	}

	ctx := c.Request.Context()
	doc := h.store.Read(ctx)

	i, err := database.LookupTask(doc, models.StringID(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Task not found",
		})
		return
	}

	updated, err := mergeTask(doc.Tasks[i], patch)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	updated.AssignSubTaskIDs(h.now())
	if err := updated.Validate(); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	doc.Tasks[i] = updated
	if err := h.store.Write(ctx, doc); err != nil {
		log.Printf("Error updating task %s: %v", updated.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to update task",
		})
		return
	}

	h.hub.Publish(realtime.Event{Type: realtime.EventTaskUpdated, TaskID: updated.ID.String()})
	c.JSON(http.StatusOK, updated)
}

// DeleteTask handles DELETE /api/tasks/:id
func (h *TaskHandler) DeleteTask(c *gin.Context) {
	ctx := c.Request.Context()
	doc := h.store.Read(ctx)

	i, err := database.LookupTask(doc, models.StringID(c.Param("id")))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"error": "Task not found",
		})
		return
	}

	removed := doc.Tasks[i]
	doc.Tasks = append(doc.Tasks[:i], doc.Tasks[i+1:]...)
	if err := h.store.Write(ctx, doc); err != nil {
		log.Printf("Error deleting task %s: %v", removed.ID, err)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Failed to delete task",
		})
		return
	}

	h.hub.Publish(realtime.Event{Type: realtime.EventTaskDeleted, TaskID: removed.ID.String()})
	c.JSON(http.StatusOK, gin.H{
		"message": "Task deleted successfully",
		"id":      removed.ID,
	})
}

// GetColumns handles GET /api/columns
// Falls back to the four standard columns when none are stored.
func (h *TaskHandler) GetColumns(c *gin.Context) {
	doc := h.store.Read(c.Request.Context())
	if len(doc.Columns) > 0 {
		c.JSON(http.StatusOK, doc.Columns)
		return
	}
	c.JSON(http.StatusOK, models.DefaultColumns())
}

// ResetBoard handles POST /api/reset
func (h *TaskHandler) ResetBoard(c *gin.Context) {
	if err := h.store.Reset(c.Request.Context()); err != nil {
		log.Printf("Error resetting board: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to reset board"})
		return
	}
	h.hub.Publish(realtime.Event{Type: realtime.EventBoardReset})
	c.JSON(http.StatusOK, gin.H{"message": "Board reset to default data"})
}

var errBadPatch = errors.New("invalid task fields")

// NormalizePatch prepares an update body: the id is dropped, and column and
// status are kept equal. Whichever of the two the patch names is applied to
// both; column wins when it names both.
func NormalizePatch(patch map[string]json.RawMessage) map[string]json.RawMessage {
	out := make(map[string]json.RawMessage, len(patch)+1)
	for k, v := range patch {
		if k == "id" {
			continue
		}
		out[k] = v
	}
	if col, ok := out["column"]; ok {
		out["status"] = col
	} else if status, ok := out["status"]; ok {
		out["column"] = status
	}
	return out
}

// ValidatePatch checks the fields a patch names against the rules every
// stored task follows. Fields the patch leaves out are not checked.
func ValidatePatch(patch map[string]json.RawMessage, now time.Time) error {
	placeholder := models.Task{Title: "-", Column: models.ColumnBacklog, Status: models.ColumnBacklog}
	merged, err := mergeTask(placeholder, patch)
	if err != nil {
		return err
	}
	merged.AssignSubTaskIDs(now)
	return merged.Validate()
}

// mergeTask applies patch onto task as a shallow merge.
func mergeTask(task models.Task, patch map[string]json.RawMessage) (models.Task, error) {
	base, err := json.Marshal(task)
	if err != nil {
		return models.Task{}, err
	}
	fields := make(map[string]json.RawMessage)
	if err := json.Unmarshal(base, &fields); err != nil {
		return models.Task{}, err
	}
	for k, v := range NormalizePatch(patch) {
		fields[k] = v
	}

	merged, err := json.Marshal(fields)
	if err != nil {
		return models.Task{}, err
	}
	var out models.Task
	if err := json.Unmarshal(merged, &out); err != nil {
		return models.Task{}, fmt.Errorf("%w: %v", errBadPatch, err)
	}
	out.ID = task.ID
	return out, nil
}
