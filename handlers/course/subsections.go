package course

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/studynotion-api/services"
	"github.com/sahilchouksey/studynotion-api/utils/response"
)

// optionalForm returns a pointer to a submitted form value, nil when absent
func optionalForm(c *fiber.Ctx, key string) *string {
	raw := c.Request().PostArgs().Peek(key)
	if raw == nil {
		form, err := c.MultipartForm()
		if err != nil {
			return nil
		}
		values, ok := form.Value[key]
		if !ok || len(values) == 0 {
			return nil
		}
		return &values[0]
	}
	value := string(raw)
	return &value
}

// CreateSubSection handles POST /api/v1/course/addSubSection (multipart)
func (h *CourseHandler) CreateSubSection(c *fiber.Ctx) error {
	in := services.CreateSubSectionInput{
		SectionID:    parseID(c.FormValue("sectionId")),
		Title:        c.FormValue("title"),
		Description:  c.FormValue("description"),
		TimeDuration: c.FormValue("timeDuration"),
		Video:        videoFile(c),
	}

	if in.SectionID == 0 || in.Title == "" || in.Description == "" || in.Video == nil {
		return response.ValidationError(c, "All Fields are Required", nil)
	}

	section, err := h.content.CreateSubSection(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return response.ValidationError(c, "All Fields are Required", nil)
		case errors.Is(err, services.ErrSectionNotFound):
			return response.NotFound(c, "Section not found")
		case errors.Is(err, services.ErrUploadFailed):
			log.Printf("video upload failed: %v", err)
			return response.BadGateway(c, "Video upload failed")
		}
		log.Printf("create subsection failed: %v", err)
		return response.InternalServerError(c, "Internal server error")
	}

	return response.SuccessWithMessage(c, "SubSection created successfully", section)
}

// UpdateSubSection handles POST /api/v1/course/updateSubSection (multipart)
func (h *CourseHandler) UpdateSubSection(c *fiber.Ctx) error {
	in := services.UpdateSubSectionInput{
		SectionID:    parseID(c.FormValue("sectionId")),
		SubSectionID: parseID(c.FormValue("subSectionId")),
		Title:        optionalForm(c, "title"),
		Description:  optionalForm(c, "description"),
		TimeDuration: optionalForm(c, "timeDuration"),
		Video:        videoFile(c),
	}

	if in.SubSectionID == 0 {
		return response.ValidationError(c, "SubSection ID is required", nil)
	}

	section, err := h.content.UpdateSubSection(c.UserContext(), in)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrSubSectionNotFound):
			return response.NotFound(c, "SubSection not found")
		case errors.Is(err, services.ErrSectionNotFound):
			return response.NotFound(c, "Section not found")
		case errors.Is(err, services.ErrUploadFailed):
			log.Printf("video upload failed: %v", err)
			return response.BadGateway(c, "Video upload failed")
		}
		log.Printf("update subsection failed: %v", err)
		return response.InternalServerError(c, "An error occurred while updating the section")
	}

	return response.SuccessWithMessage(c, "Section updated successfully", section)
}

// DeleteSubSectionRequest represents the request body for deleting a lecture
type DeleteSubSectionRequest struct {
	SubSectionID uint `json:"subSectionId" form:"subSectionId"`
	SectionID    uint `json:"sectionId" form:"sectionId"`
}

// DeleteSubSection handles POST /api/v1/course/deleteSubSection
func (h *CourseHandler) DeleteSubSection(c *fiber.Ctx) error {
	var req DeleteSubSectionRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	if req.SubSectionID == 0 {
		return response.ValidationError(c, "SubSection ID is required", nil)
	}

	section, err := h.content.DeleteSubSection(c.UserContext(), req.SubSectionID, req.SectionID)
	if err != nil {
		if errors.Is(err, services.ErrSubSectionNotFound) {
			return response.NotFound(c, "SubSection not found")
		}
		log.Printf("delete subsection failed: %v", err)
		return response.InternalServerError(c, "An error occurred while deleting the SubSection")
	}

	return response.SuccessWithMessage(c, "SubSection deleted successfully", section)
}
