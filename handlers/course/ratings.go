package course

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/studynotion-api/services"
	"github.com/sahilchouksey/studynotion-api/utils/middleware"
	"github.com/sahilchouksey/studynotion-api/utils/response"
)

// CreateRatingRequest represents a new course review
type CreateRatingRequest struct {
	CourseID uint   `json:"courseId" form:"courseId"`
	Rating   int    `json:"rating" form:"rating"`
	Review   string `json:"review" form:"review"`
}

// courseIDFrom reads courseId from the query string, falling back to the body
func courseIDFrom(c *fiber.Ctx) uint {
	if id := parseID(c.Query("courseId")); id != 0 {
		return id
	}
	var body struct {
		CourseID uint `json:"courseId" form:"courseId"`
	}
	if len(c.Body()) > 0 {
		_ = c.BodyParser(&body)
	}
	return body.CourseID
}

// CreateRating handles POST /api/v1/course/createRating
func (h *CourseHandler) CreateRating(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req CreateRatingRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	review, err := h.ratings.CreateRating(c.UserContext(), userID, req.CourseID, req.Rating, req.Review)
	if err != nil {
		switch {
		case errors.Is(err, services.ErrValidation):
			return response.ValidationError(c, "Course ID is required", nil)
		case errors.Is(err, services.ErrInvalidRating):
			return response.BadRequest(c, "Rating must be between 1 and 5")
		case errors.Is(err, services.ErrNotEnrolled):
			return response.NotFound(c, "Student is not enrolled in the course")
		case errors.Is(err, services.ErrAlreadyReviewed):
			return response.Forbidden(c, "Course is already reviewed by the user")
		}
		log.Printf("create rating failed: %v", err)
		return response.InternalServerError(c, "Internal server error")
	}

	return response.SuccessWithMessage(c, "Rating and Review created Successfully", review)
}

// GetAverageRating handles GET /api/v1/course/getAverageRating
func (h *CourseHandler) GetAverageRating(c *fiber.Ctx) error {
	courseID := courseIDFrom(c)
	if courseID == 0 {
		return response.ValidationError(c, "Course ID is required", nil)
	}

	average, count, err := h.ratings.GetAverageRating(c.UserContext(), courseID)
	if err != nil {
		log.Printf("average rating failed: %v", err)
		return response.InternalServerError(c, "Internal server error")
	}

	if count == 0 {
		return response.SuccessWithMessage(c, "Average rating is 0, no ratings given till now", fiber.Map{
			"averageRating": 0,
		})
	}

	return response.Success(c, fiber.Map{
		"averageRating": average,
		"totalReviews":  count,
	})
}

// GetAllRatings handles GET /api/v1/course/getReviews
func (h *CourseHandler) GetAllRatings(c *fiber.Ctx) error {
	reviews, err := h.ratings.GetAllRatings(c.UserContext())
	if err != nil {
		log.Printf("list ratings failed: %v", err)
		return response.InternalServerError(c, "Internal server error")
	}

	return response.SuccessWithMessage(c, "All reviews fetched successfully", reviews)
}

// GetCourseReviews handles GET /api/v1/course/getCourseReviews
func (h *CourseHandler) GetCourseReviews(c *fiber.Ctx) error {
	courseID := courseIDFrom(c)
	if courseID == 0 {
		return response.ValidationError(c, "Course ID is required", nil)
	}

	reviews, err := h.ratings.GetCourseReviews(c.UserContext(), courseID)
	if err != nil {
		if errors.Is(err, services.ErrCourseNotFound) {
			return response.NotFound(c, "Course not found")
		}
		log.Printf("course reviews failed: %v", err)
		return response.InternalServerError(c, "Internal server error")
	}

	return response.Success(c, reviews)
}
