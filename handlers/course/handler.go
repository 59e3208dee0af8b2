package course

import (
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/studynotion-api/services"
	"github.com/sahilchouksey/studynotion-api/utils/validation"
)

// CourseHandler handles course content and review requests
type CourseHandler struct {
	content   *services.ContentService
	ratings   *services.RatingService
	validator *validation.Validator
}

// NewCourseHandler creates a new course handler
func NewCourseHandler(content *services.ContentService, ratings *services.RatingService) *CourseHandler {
	return &CourseHandler{
		content:   content,
		ratings:   ratings,
		validator: validation.NewValidator(),
	}
}

// parseID reads an unsigned id, returning 0 for anything unparsable
func parseID(value string) uint {
	id, err := strconv.ParseUint(value, 10, 64)
	if err != nil {
		return 0
	}
	return uint(id)
}

// videoFile returns the uploaded lecture video, if any
func videoFile(c *fiber.Ctx) *multipart.FileHeader {
	for _, field := range []string{"videoFile", "video"} {
		if file, err := c.FormFile(field); err == nil {
			return file
		}
	}
	return nil
}
