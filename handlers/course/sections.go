package course

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/studynotion-api/services"
	"github.com/sahilchouksey/studynotion-api/utils/response"
	"github.com/sahilchouksey/studynotion-api/utils/validation"
)

// CreateSectionRequest represents the request body for creating a section
type CreateSectionRequest struct {
	SectionName string `json:"sectionName" form:"sectionName" validate:"required"`
	CourseID    uint   `json:"courseId" form:"courseId" validate:"required"`
}

// UpdateSectionRequest represents the request body for renaming a section
type UpdateSectionRequest struct {
	SectionName string `json:"sectionName" form:"sectionName" validate:"required"`
	SectionID   uint   `json:"sectionId" form:"sectionId" validate:"required"`
	CourseID    uint   `json:"courseId" form:"courseId"`
}

// DeleteSectionRequest represents the request body for deleting a section
type DeleteSectionRequest struct {
	SectionID uint `json:"sectionId" form:"sectionId" validate:"required"`
	CourseID  uint `json:"courseId" form:"courseId"`
}

// GetCourseDetails handles GET /api/v1/course/:courseId
func (h *CourseHandler) GetCourseDetails(c *fiber.Ctx) error {
	courseID := parseID(c.Params("courseId"))
	if courseID == 0 {
		return response.BadRequest(c, "Invalid course ID")
	}

	course, err := h.content.GetCourseDetails(c.UserContext(), courseID)
	if err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			return response.NotFound(c, "Could not find the course")
		}
		log.Printf("get course %d failed: %v", courseID, err)
		return response.InternalServerError(c, "Failed to fetch course")
	}

	return response.Success(c, course)
}

// CreateSection handles POST /api/v1/course/addSection
func (h *CourseHandler) CreateSection(c *fiber.Ctx) error {
	var req CreateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, "Missing required properties", validation.FormatValidationErrors(err))
	}

	course, err := h.content.CreateSection(c.UserContext(), req.CourseID, req.SectionName)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return response.ValidationError(c, "Missing required properties", nil)
		case errors.Is(err, services.ErrCourseNotFound):
			return response.NotFound(c, "Could not find the course")
		}
		log.Printf("create section failed: %v", err)
		return response.InternalServerError(c, "Internal server error")
	}

	return response.SuccessWithMessage(c, "Section created successfully", course)
}

// UpdateSection handles POST /api/v1/course/updateSection
func (h *CourseHandler) UpdateSection(c *fiber.Ctx) error {
	var req UpdateSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, "Missing required properties", validation.FormatValidationErrors(err))
	}

	section, course, err := h.content.UpdateSection(c.UserContext(), req.SectionID, req.SectionName, req.CourseID)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return response.ValidationError(c, "Missing required properties", nil)
		case errors.Is(err, services.ErrSectionNotFound):
			return response.NotFound(c, "Section not Found")
		}
		log.Printf("update section failed: %v", err)
		return response.InternalServerError(c, "Internal server error")
	}

	return response.SuccessWithMessage(c, section.SectionName, fiber.Map{
		"section": section,
		"course":  course,
	})
}

// DeleteSection handles POST /api/v1/course/deleteSection
func (h *CourseHandler) DeleteSection(c *fiber.Ctx) error {
	var req DeleteSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if err := h.validator.ValidateStruct(&req); err != nil {
		return response.ValidationError(c, "Missing required properties", validation.FormatValidationErrors(err))
	}

	course, err := h.content.DeleteSection(c.UserContext(), req.SectionID, req.CourseID)
	if err != nil {
		if errors.Is(err, services.ErrSectionNotFound) {
			return response.NotFound(c, "Section not Found")
		}
		log.Printf("delete section failed: %v", err)
		return response.InternalServerError(c, "Internal server error")
	}

	return response.SuccessWithMessage(c, "Section deleted", course)
}
