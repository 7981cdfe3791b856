package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kursownik/api/internal/core/ports"
)

// ChapterHandler serves chapters. Reads are filtered by premium access.
type ChapterHandler struct {
	service ports.ChapterService
}

func NewChapterHandler(service ports.ChapterService) *ChapterHandler {
	return &ChapterHandler{service: service}
}

// Create handles POST /chapter.
//
// @Summary      Create a chapter
// @Tags         chapter
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createChapterRequest  true  "Chapter; order defaults to the end of the course"
// @Success      201   {object}  domain.Chapter
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /chapter [post]
func (h *ChapterHandler) Create(c echo.Context) error {
	var req createChapterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	chapter, err := h.service.Create(c.Request().Context(), ports.CreateChapterInput{
		Name:         req.Name,
		Description:  req.Description,
		CourseID:     req.CourseID,
		ChapterOrder: req.ChapterOrder,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, chapter)
}

// List handles GET /chapter.
//
// @Summary      List chapters visible to the caller
// @Tags         chapter
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.Chapter
// @Failure      401  {object}  errorResponse
// @Router       /chapter [get]
func (h *ChapterHandler) List(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	chapters, err := h.service.List(c.Request().Context(), caller)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(chapters))
}

// Get handles GET /chapter/:id.
//
// @Summary      Get a chapter with its lessons
// @Tags         chapter
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Chapter ID"
// @Success      200  {object}  chapterDetailResponse
// @Failure      401  {object}  errorResponse
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /chapter/{id} [get]
func (h *ChapterHandler) Get(c echo.Context) error {
	caller, err := currentUser(c)
	if err != nil {
		return err
	}

	detail, err := h.service.Get(c.Request().Context(), caller, c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toChapterDetail(detail))
}

// Patch handles PATCH /chapter/:id.
//
// @Summary      Update a chapter
// @Tags         chapter
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string                true  "Chapter ID"
// @Param        body  body      updateChapterRequest  true  "Fields to change"
// @Success      200   {object}  domain.Chapter
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /chapter/{id} [patch]
func (h *ChapterHandler) Patch(c echo.Context) error {
	var req updateChapterRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	chapter, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateChapterInput{
		Name:         req.Name,
		Description:  req.Description,
		CourseID:     req.CourseID,
		ChapterOrder: req.ChapterOrder,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, chapter)
}

// Delete handles DELETE /chapter/:id.
//
// @Summary      Delete a chapter and its lessons
// @Tags         chapter
// @Security     BearerAuth
// @Param        id  path  string  true  "Chapter ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /chapter/{id} [delete]
func (h *ChapterHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
