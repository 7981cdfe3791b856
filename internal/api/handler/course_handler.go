package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/kursownik/api/internal/core/ports"
)

// CourseHandler serves the public catalogue and its admin edits.
type CourseHandler struct {
	service ports.CourseService
}

func NewCourseHandler(service ports.CourseService) *CourseHandler {
	return &CourseHandler{service: service}
}

// Create handles POST /course.
//
// @Summary      Create a course
// @Tags         course
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createCourseRequest  true  "Course"
// @Success      201   {object}  domain.Course
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Router       /course [post]
func (h *CourseHandler) Create(c echo.Context) error {
	var req createCourseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	course, err := h.service.Create(c.Request().Context(), ports.CreateCourseInput{
		Name:        req.Name,
		Description: req.Description,
		ImageSrc:    req.ImageSrc,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, course)
}

// List handles GET /course.
//
// @Summary      List courses
// @Tags         course
// @Produce      json
// @Success      200  {array}  domain.Course
// @Router       /course [get]
func (h *CourseHandler) List(c echo.Context) error {
	courses, err := h.service.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, nonNil(courses))
}

// Get handles GET /course/:id.
//
// @Summary      Get a course with its chapters
// @Tags         course
// @Produce      json
// @Param        id   path      string  true  "Course ID"
// @Success      200  {object}  courseDetailResponse
// @Failure      404  {object}  errorResponse
// @Router       /course/{id} [get]
func (h *CourseHandler) Get(c echo.Context) error {
	detail, err := h.service.Get(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toCourseDetail(detail))
}

// Patch handles PATCH /course/:id.
//
// @Summary      Update a course
// @Tags         course
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string               true  "Course ID"
// @Param        body  body      updateCourseRequest  true  "Fields to change"
// @Success      200   {object}  domain.Course
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /course/{id} [patch]
func (h *CourseHandler) Patch(c echo.Context) error {
	var req updateCourseRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	course, err := h.service.Update(c.Request().Context(), c.Param("id"), ports.UpdateCourseInput{
		Name:        req.Name,
		Description: req.Description,
		ImageSrc:    req.ImageSrc,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, course)
}

// Delete handles DELETE /course/:id. Chapters and lessons go with it.
//
// @Summary      Delete a course
// @Tags         course
// @Security     BearerAuth
// @Param        id  path  string  true  "Course ID"
// @Success      204
// @Failure      403  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /course/{id} [delete]
func (h *CourseHandler) Delete(c echo.Context) error {
	if err := h.service.Delete(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
