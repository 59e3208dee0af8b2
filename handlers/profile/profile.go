package profile

import (
	"errors"
	"log"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/studynotion-api/services"
	"github.com/sahilchouksey/studynotion-api/utils/middleware"
	"github.com/sahilchouksey/studynotion-api/utils/response"
)

// ProfileHandler handles profile and per-user course requests
type ProfileHandler struct {
	profiles *services.ProfileService
}

// NewProfileHandler creates a new profile handler
func NewProfileHandler(profiles *services.ProfileService) *ProfileHandler {
	return &ProfileHandler{profiles: profiles}
}

// UpdateProfileRequest represents profile changes. Absent fields are cleared.
type UpdateProfileRequest struct {
	DateOfBirth   *string `json:"dateOfBirth" form:"dateOfBirth"`
	About         *string `json:"about" form:"about"`
	ContactNumber *string `json:"contactNumber" form:"contactNumber"`
	Gender        *string `json:"gender" form:"gender"`
}

func userError(c *fiber.Ctx, err error, action string) error {
	if errors.Is(err, services.ErrUserNotFound) {
		return response.NotFound(c, "User not found")
	}
	log.Printf("%s failed: %v", action, err)
	return response.InternalServerError(c, "Internal server error")
}

// UpdateProfile handles PUT /api/v1/profile/updateProfile
func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return response.BadRequest(c, "Invalid request body")
	}

	user, err := h.profiles.UpdateProfile(c.UserContext(), userID, services.ProfileInput{
		DateOfBirth:   req.DateOfBirth,
		About:         req.About,
		ContactNumber: req.ContactNumber,
		Gender:        req.Gender,
	})
	if err != nil {
		return userError(c, err, "update profile")
	}

	return response.SuccessWithMessage(c, "Profile updated successfully", user)
}

// DeleteAccount handles DELETE /api/v1/profile/deleteProfile
func (h *ProfileHandler) DeleteAccount(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	if err := h.profiles.DeleteAccount(c.UserContext(), userID); err != nil {
		return userError(c, err, "delete account")
	}

	c.ClearCookie(middleware.TokenCookieName)

	return response.SuccessWithMessage(c, "User deleted successfully", nil)
}

// GetAllUserDetails handles GET /api/v1/profile/getUserDetails
func (h *ProfileHandler) GetAllUserDetails(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	user, err := h.profiles.GetAllUserDetails(c.UserContext(), userID)
	if err != nil {
		return userError(c, err, "get user details")
	}

	return response.SuccessWithMessage(c, "User Data fetched successfully", user)
}

// UpdateDisplayPicture handles PUT /api/v1/profile/updateDisplayPicture (multipart)
func (h *ProfileHandler) UpdateDisplayPicture(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	file, err := c.FormFile("displayPicture")
	if err != nil {
		return response.ValidationError(c, "Display picture is required", nil)
	}

	user, err := h.profiles.UpdateDisplayPicture(c.UserContext(), userID, file)
	if err != nil {
		if errors.Is(err, services.ErrUploadFailed) {
			log.Printf("display picture upload failed: %v", err)
			return response.BadGateway(c, "Image upload failed")
		}
		return userError(c, err, "update display picture")
	}

	return response.SuccessWithMessage(c, "Image Updated successfully", user)
}

// GetEnrolledCourses handles GET /api/v1/profile/getEnrolledCourses
func (h *ProfileHandler) GetEnrolledCourses(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	courses, err := h.profiles.GetEnrolledCourses(c.UserContext(), userID)
	if err != nil {
		return userError(c, err, "get enrolled courses")
	}

	return response.Success(c, courses)
}

// InstructorDashboard handles GET /api/v1/profile/instructorDashboard
func (h *ProfileHandler) InstructorDashboard(c *fiber.Ctx) error {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		return response.Unauthorized(c, "User not authenticated")
	}

	stats, err := h.profiles.InstructorDashboard(c.UserContext(), userID)
	if err != nil {
		return userError(c, err, "instructor dashboard")
	}

	return response.Success(c, stats)
}
