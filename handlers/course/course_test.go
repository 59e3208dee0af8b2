package course

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/studynotion-api/database"
	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/sahilchouksey/studynotion-api/services"
	"github.com/sahilchouksey/studynotion-api/services/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type stubUploader struct{}

func (stubUploader) Upload(ctx context.Context, folder string, file *multipart.FileHeader) (*media.UploadResult, error) {
	return &media.UploadResult{URL: "https://cdn.test/" + folder + "/" + file.Filename, Duration: 42}, nil
}

func newCourseApp(t *testing.T, userID *uint) (*fiber.App, *gorm.DB) {
	t.Helper()

	store, err := database.StartSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })
	db := store.GetDB().(*gorm.DB)

	handler := NewCourseHandler(
		services.NewContentService(db, stubUploader{}, "studynotion"),
		services.NewRatingService(db),
	)

	app := fiber.New()
	app.Use(func(c *fiber.Ctx) error {
		c.Locals("user_id", *userID)
		return c.Next()
	})
	app.Post("/addSection", handler.CreateSection)
	app.Post("/addSubSection", handler.CreateSubSection)
	app.Post("/createRating", handler.CreateRating)
	app.Get("/getAverageRating", handler.GetAverageRating)
	app.Get("/:courseId", handler.GetCourseDetails)
	return app, db
}

func decodeBody(t *testing.T, res *http.Response) map[string]interface{} {
	t.Helper()
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(res.Body).Decode(&out))
	return out
}

func jsonRequest(method, path, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	return req
}

func TestSectionAndLectureUpload(t *testing.T) {
	var userID uint = 1
	app, db := newCourseApp(t, &userID)

	course := &model.Course{CourseName: "Go Basics", InstructorID: 1, Price: 100}
	require.NoError(t, db.Omit("Instructor").Create(course).Error)

	res, err := app.Test(jsonRequest(http.MethodPost, "/addSection", `{"sectionName":"Intro","courseId":`+jsonID(course.ID)+`}`), -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	var section model.Section
	require.NoError(t, db.Where("course_id = ?", course.ID).First(&section).Error)

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	require.NoError(t, writer.WriteField("sectionId", jsonID(section.ID)))
	require.NoError(t, writer.WriteField("title", "Hello"))
	require.NoError(t, writer.WriteField("description", "First lecture"))
	part, err := writer.CreateFormFile("videoFile", "hello.mp4")
	require.NoError(t, err)
	part.Write([]byte("frames"))
	require.NoError(t, writer.Close())

	req := httptest.NewRequest(http.MethodPost, "/addSubSection", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	res, err = app.Test(req, -1)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	var lecture model.SubSection
	require.NoError(t, db.Where("section_id = ?", section.ID).First(&lecture).Error)
	assert.Equal(t, "https://cdn.test/studynotion/videos/hello.mp4", lecture.VideoURL)
	assert.Equal(t, "42", lecture.TimeDuration)

	// missing video
	buf.Reset()
	writer = multipart.NewWriter(&buf)
	writer.WriteField("sectionId", jsonID(section.ID))
	writer.WriteField("title", "No video")
	writer.WriteField("description", "x")
	writer.Close()
	req = httptest.NewRequest(http.MethodPost, "/addSubSection", &buf)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	res, err = app.Test(req, -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/"+jsonID(course.ID), nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/abc", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusBadRequest, res.StatusCode)
}

func TestCreateRatingStatusCodes(t *testing.T) {
	var userID uint = 7
	app, db := newCourseApp(t, &userID)

	course := &model.Course{CourseName: "Go Basics", InstructorID: 1, Price: 100}
	require.NoError(t, db.Omit("Instructor").Create(course).Error)
	body := `{"courseId":` + jsonID(course.ID) + `,"rating":5,"review":"Great"}`

	res, err := app.Test(jsonRequest(http.MethodPost, "/createRating", body), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	assert.Equal(t, "Student is not enrolled in the course", decodeBody(t, res)["message"])

	require.NoError(t, db.Omit("Course", "CourseProgress").Create(&model.Enrollment{UserID: userID, CourseID: course.ID}).Error)

	res, err = app.Test(jsonRequest(http.MethodPost, "/createRating", body), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	res, err = app.Test(jsonRequest(http.MethodPost, "/createRating", body), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)

	res, err = app.Test(httptest.NewRequest(http.MethodGet, "/getAverageRating?courseId="+jsonID(course.ID), nil), -1)
	require.NoError(t, err)
	data := decodeBody(t, res)["data"].(map[string]interface{})
	assert.Equal(t, float64(5), data["averageRating"])
	assert.Equal(t, float64(1), data["totalReviews"])
}

func jsonID(id uint) string {
	return strconv.FormatUint(uint64(id), 10)
}
