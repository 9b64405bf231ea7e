package todo

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type Handler interface {
	ListTodos(c *gin.Context)
	GetTodo(c *gin.Context)
	CreateTodo(c *gin.Context)
	UpdateTodo(c *gin.Context)
	DeleteTodo(c *gin.Context)
}

type handler struct {
	service Service
	logger  *zap.SugaredLogger
}

func NewHandler(service Service, logger *zap.Logger) Handler {
	return &handler{service: service, logger: logger.Sugar()}
}

// @Summary List todos
// @Description Returns one page of todos ordered by id, 20 per page
// @Tags Todo
// @Produce json
// @Param page query int false "1-based page number" default(1)
// @Success 200 {array} Todo
// @Router /todos [get]
func (h *handler) ListTodos(c *gin.Context) {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}

	todos, err := h.service.List(c.Request.Context(), page)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todos)
}

// @Summary Get todo
// @Tags Todo
// @Produce json
// @Param id path int true "Todo ID"
// @Success 200 {object} Todo
// @Failure 404 {object} ErrorResponse
// @Router /todos/{id} [get]
func (h *handler) GetTodo(c *gin.Context) {
	id, ok := h.todoID(c)
	if !ok {
		return
	}

	todo, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, todo)
}

// @Summary Create todo
// @Tags Todo
// @Accept json
// @Produce json
// @Param todo body CreateTodoRequest true "Todo"
// @Success 201 {object} Todo
// @Failure 400 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /todos [post]
func (h *handler) CreateTodo(c *gin.Context) {
	var req CreateTodoRequest
	if !h.bind(c, &req) {
		return
	}

	todo, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, todo)
}

// @Summary Update todo
// @Tags Todo
// @Accept json
// @Param id path int true "Todo ID"
// @Param todo body UpdateTodoRequest true "Fields to change"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Failure 422 {object} ErrorResponse
// @Router /todos/{id} [put]
func (h *handler) UpdateTodo(c *gin.Context) {
	id, ok := h.todoID(c)
	if !ok {
		return
	}

	var req UpdateTodoRequest
	if !h.bind(c, &req) {
		return
	}

	if err := h.service.Update(c.Request.Context(), id, req); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// @Summary Delete todo
// @Tags Todo
// @Param id path int true "Todo ID"
// @Success 204
// @Failure 404 {object} ErrorResponse
// @Router /todos/{id} [delete]
func (h *handler) DeleteTodo(c *gin.Context) {
	id, ok := h.todoID(c)
	if !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		h.respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// todoID parses the :id path parameter. An id that cannot exist gets the
// same 404 as an id that does not.
func (h *handler) todoID(c *gin.Context) (uint64, bool) {
	raw := c.Param("id")
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		h.respondError(c, &NotFoundError{ID: raw})
		return 0, false
	}
	return id, true
}

// bind decodes the JSON body. An empty body decodes to the zero request so
// that validation, not decoding, reports the missing title.
func (h *handler) bind(c *gin.Context, obj interface{}) bool {
	if err := c.ShouldBindJSON(obj); err != nil && !errors.Is(err, io.EOF) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Message: "invalid request body: " + err.Error()})
		return false
	}
	return true
}

func (h *handler) respondError(c *gin.Context, err error) {
	var notFound *NotFoundError
	var invalid *ValidationError

	switch {
	case errors.As(err, &notFound):
		c.JSON(http.StatusNotFound, ErrorResponse{Message: notFound.Error()})
	case errors.As(err, &invalid):
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Message: invalid.Error()})
	default:
		h.logger.Errorw("Todo request failed",
			"method", c.Request.Method,
			"path", c.Request.URL.Path,
			"error", err,
		)
		c.JSON(http.StatusInternalServerError, ErrorResponse{Message: "internal server error"})
	}
}
