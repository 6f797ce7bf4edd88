// Package notes содержит HTTP-обработчики для управления заметками.
package notes

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"notesapp/internal/notes/adapters/http/dto"
	"notesapp/internal/notes/adapters/http/middleware"
	"notesapp/internal/notes/app"
	"notesapp/internal/notes/ports/services"
	"notesapp/pkg/db/postgres"
	"notesapp/pkg/logger"
)

// Константы ошибок и сообщений для логирования.
const (
	LogHandlerCreateNote      = "handling create note request"
	LogHandlerGetNote         = "handling get note request"
	LogHandlerListNotes       = "handling list notes request"
	LogHandlerListByCategory  = "handling list notes by category request"
	LogHandlerUpdateNote      = "handling update note request"
	LogHandlerDeleteNote      = "handling delete note request"
	LogRequestValidationError = "request validation failed"

	ErrMsgNoteNotFound       = "Note not found"
	ErrMsgInvalidRequestBody = "invalid request body"

	MsgNoteDeleted = "Note deleted"
)

// Route описывает один маршрут API заметок.
type Route struct {
	Method  string
	Path    string
	Handler fiber.Handler
}

// Handler обработчик HTTP-запросов для работы с заметками.
type Handler struct {
	notesService services.NoteService
	validate     *validator.Validate
}

// NewHandler создает новый экземпляр обработчика заметок.
func NewHandler(notesService services.NoteService) *Handler {
	return &Handler{
		notesService: notesService,
		validate:     newValidator(),
	}
}

// Routes возвращает маршруты в порядке регистрации.
// Путь категории стоит раньше параметризованного пути заметки.
func (h *Handler) Routes() []Route {
	return []Route{
		{Method: fiber.MethodGet, Path: "/notes/category/:category", Handler: h.ListNotesByCategory},
		{Method: fiber.MethodGet, Path: "/notes", Handler: h.ListNotes},
		{Method: fiber.MethodPost, Path: "/notes", Handler: h.CreateNote},
		{Method: fiber.MethodGet, Path: "/notes/:id", Handler: h.GetNote},
		{Method: fiber.MethodPut, Path: "/notes/:id", Handler: h.UpdateNote},
		{Method: fiber.MethodDelete, Path: "/notes/:id", Handler: h.DeleteNote},
	}
}

// ListNotes обрабатывает запрос на получение всех заметок.
func (h *Handler) ListNotes(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.ListNotes"))
	log.Debug(reqCtx, LogHandlerListNotes)

	notes, err := h.notesService.ListNotes(reqCtx)
	if err != nil {
		return handleError(reqCtx, ctx, err)
	}

	if err := ctx.JSON(notes); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// ListNotesByCategory обрабатывает запрос на получение заметок одной категории.
func (h *Handler) ListNotesByCategory(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	category := ctx.Params("category")
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.ListNotesByCategory"))
	log.Debug(reqCtx, LogHandlerListByCategory, zap.String("category", category))

	notes, err := h.notesService.ListNotesByCategory(reqCtx, category)
	if err != nil {
		return handleError(reqCtx, ctx, err)
	}

	if err := ctx.JSON(notes); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// GetNote обрабатывает запрос на получение заметки по ID.
func (h *Handler) GetNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.GetNote"))
	log.Debug(reqCtx, LogHandlerGetNote)

	id, ok := noteID(ctx)
	if !ok {
		return sendNotFound(ctx)
	}

	note, err := h.notesService.GetNote(reqCtx, id)
	if err != nil {
		return handleError(reqCtx, ctx, err)
	}

	if err := ctx.JSON(note); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// CreateNote обрабатывает запрос на создание новой заметки.
func (h *Handler) CreateNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.CreateNote"))
	log.Debug(reqCtx, LogHandlerCreateNote)

	var req dto.CreateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Warn(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}
	if err := h.validate.Struct(req); err != nil {
		log.Debug(reqCtx, LogRequestValidationError, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, validationMessage(err))
	}

	note, err := h.notesService.CreateNote(reqCtx, req.Title, req.Content, req.Category)
	if err != nil {
		return handleError(reqCtx, ctx, err)
	}

	if err := ctx.Status(fiber.StatusCreated).JSON(note); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// UpdateNote обрабатывает запрос на обновление заметки.
func (h *Handler) UpdateNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.UpdateNote"))
	log.Debug(reqCtx, LogHandlerUpdateNote)

	id, ok := noteID(ctx)
	if !ok {
		return sendNotFound(ctx)
	}

	var req dto.UpdateNoteRequest
	if err := ctx.Bind().Body(&req); err != nil {
		log.Warn(reqCtx, ErrMsgInvalidRequestBody, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, ErrMsgInvalidRequestBody)
	}
	if err := h.validate.Struct(req); err != nil {
		log.Debug(reqCtx, LogRequestValidationError, zap.Error(err))
		return sendError(ctx, fiber.StatusBadRequest, validationMessage(err))
	}

	note, err := h.notesService.UpdateNote(reqCtx, id, req.Title, req.Content, req.Category)
	if err != nil {
		return handleError(reqCtx, ctx, err)
	}

	if err := ctx.JSON(note); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// DeleteNote обрабатывает запрос на удаление заметки.
func (h *Handler) DeleteNote(ctx fiber.Ctx) error {
	reqCtx := middleware.RequestContext(ctx)
	log := logger.Log(reqCtx).With(zap.String("handler", "Handler.DeleteNote"))
	log.Debug(reqCtx, LogHandlerDeleteNote)

	id, ok := noteID(ctx)
	if !ok {
		return sendNotFound(ctx)
	}

	if err := h.notesService.DeleteNote(reqCtx, id); err != nil {
		return handleError(reqCtx, ctx, err)
	}

	if err := ctx.JSON(dto.MessageResponse{Message: MsgNoteDeleted}); err != nil {
		return fmt.Errorf("error sending response: %w", err)
	}
	return nil
}

// noteID разбирает параметр id. Нечисловой id означает несуществующую заметку.
func noteID(ctx fiber.Ctx) (int64, bool) {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil {
		return 0, false
	}
	return id, true
}

func sendNotFound(ctx fiber.Ctx) error {
	return sendError(ctx, fiber.StatusNotFound, ErrMsgNoteNotFound)
}

func sendError(ctx fiber.Ctx, status int, msg string) error {
	if err := ctx.Status(status).JSON(dto.ErrorResponse{Error: msg}); err != nil {
		return fmt.Errorf("failed to send error response: %w", err)
	}
	return nil
}

// handleError сопоставляет ошибки бизнес-логики с HTTP-статусами.
func handleError(reqCtx context.Context, ctx fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, app.ErrNotFound):
		return sendNotFound(ctx)
	case errors.Is(err, app.ErrInvalidParams):
		return sendError(ctx, fiber.StatusBadRequest, err.Error())
	default:
		info := postgres.DescribeError(err)
		logger.Log(reqCtx).Error(reqCtx, "request failed",
			zap.String("error_type", info.Type),
			zap.String("error_code", info.Code),
			zap.Error(err))
		return sendError(ctx, fiber.StatusInternalServerError, err.Error())
	}
}
