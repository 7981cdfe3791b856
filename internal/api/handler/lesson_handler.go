package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kursownik/api/internal/core/ports"
)

type LessonHandler struct {
	service ports.LessonService
}

func NewLessonHandler(service ports.LessonService) *LessonHandler {
	return &LessonHandler{service: service}
}

// Create handles POST /lesson.
//
// @Summary      Create a lesson
// @Tags         lesson
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createLessonRequest  true  "Lesson; order defaults to the end of the chapter"
// @Success      201   {object}  domain.Lesson
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /lesson [post]
func (h *LessonHandler) Create(c echo.Context) error {
	var req createLessonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	lesson, err := h.service.Create(c.Request().Context(), ports.CreateLessonInput{
		Name:        req.Name,
		Description: req.Description,
		ChapterID:   req.ChapterID,
		LessonOrder: req.LessonOrder,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, lesson)
}

// List handles GET /lesson.
//
// @Summary      List lessons visible to the caller
// @Tags         lesson
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Lesson
// @Failure      401  {object}  errorResponse
// @Router       /lesson [get]
func (h *LessonHandler) List(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	lessons, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(lessons))
}

// Get handles GET /lesson/:id.
//
// @Summary      Get a lesson
// @Tags         lesson
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Lesson ID"
// @Success      200  {object}  domain.Lesson
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /lesson/{id} [get]
func (h *LessonHandler) Get(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	lesson, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lesson)
}

// Patch handles PATCH /lesson/:id.
//
// @Summary      Update a lesson
// @Tags         lesson
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Lesson ID"
// @Param        body  body      updateLessonRequest  true  "Fields to change"
// @Success      200   {object}  domain.Lesson
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /lesson/{id} [patch]
func (h *LessonHandler) Patch(c echo.Context) error {
	var req updateLessonRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	lesson, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateLessonInput{
		Name:        req.Name,
		Description: req.Description,
		ChapterID:   req.ChapterID,
		LessonOrder: req.LessonOrder,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, lesson)
}

// Delete handles DELETE /lesson/:id.
//
// @Summary      Delete a lesson
// @Tags         lesson
// @Security     BearerAuth
// @Param        id  path  string  true  "Lesson ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /lesson/{id} [delete]
func (h *LessonHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
