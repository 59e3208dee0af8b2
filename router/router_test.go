package router_test

import (
	"context"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/sahilchouksey/studynotion-api/api"
	"github.com/sahilchouksey/studynotion-api/config"
	"github.com/sahilchouksey/studynotion-api/database"
	"github.com/sahilchouksey/studynotion-api/router"
	"github.com/sahilchouksey/studynotion-api/services/media"
	"github.com/sahilchouksey/studynotion-api/services/payment"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopMailer struct{}

func (nopMailer) Send(ctx context.Context, to, subject, htmlBody string) error { return nil }

type nopUploader struct{}

func (nopUploader) Upload(ctx context.Context, folder string, file *multipart.FileHeader) (*media.UploadResult, error) {
	return &media.UploadResult{URL: "https://cdn.test/" + folder + "/" + file.Filename}, nil
}

type nopGateway struct{}

func (nopGateway) CreateOrder(ctx context.Context, req payment.OrderRequest) (*payment.Order, error) {
	return &payment.Order{ID: "order_1", Amount: req.Amount, Currency: req.Currency, Status: "created"}, nil
}

type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
	Error   *struct {
		Code string `json:"code"`
	} `json:"error"`
}

func newTestApp(t *testing.T) *fiber.App {
	t.Helper()

	store, err := database.StartSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	app := api.NewApp()
	router.SetupRoutes(app, store, router.Dependencies{
		Config: &config.EnviornmentVariable{
			JWT_SECRET:      "router-test-secret",
			JWT_EXPIRY:      time.Hour,
			OTP_TTL:         5 * time.Minute,
			ALLOWED_ORIGINS: "http://localhost:3000",
			FRONTEND_URL:    "http://localhost:3000",
			MEDIA_FOLDER:    "studynotion",
			RAZORPAY_SECRET: "secret",
		},
		Mailer:   nopMailer{},
		Uploader: nopUploader{},
		Gateway:  nopGateway{},
	})
	return app
}

func call(t *testing.T, app *fiber.App, method, path, body string, cookies ...*http.Cookie) (*http.Response, envelope) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for _, cookie := range cookies {
		req.AddCookie(cookie)
	}

	res, err := app.Test(req, -1)
	require.NoError(t, err)

	raw, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	var env envelope
	if len(raw) > 0 {
		require.NoError(t, json.Unmarshal(raw, &env), string(raw))
	}
	return res, env
}

func tokenCookie(t *testing.T, res *http.Response) *http.Cookie {
	t.Helper()
	for _, cookie := range res.Cookies() {
		if cookie.Name == "token" {
			return cookie
		}
	}
	t.Fatal("token cookie not set")
	return nil
}

func TestAuthFlow(t *testing.T) {
	app := newTestApp(t)

	res, env := call(t, app, http.MethodPost, "/api/v1/auth/sendotp", `{"email":"ada@example.com"}`)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	var sent struct {
		OTP string `json:"otp"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &sent))
	require.Len(t, sent.OTP, 6)

	res, env = call(t, app, http.MethodPost, "/api/v1/auth/signup", `{
		"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com",
		"password":"engine","confirmPassword":"engine","otp":"`+sent.OTP+`"}`)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, "User is registered successfully", env.Message)

	res, env = call(t, app, http.MethodPost, "/api/v1/auth/login", `{"email":"ada@example.com","password":"wrong"}`)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "Password is incorrect", env.Message)

	res, env = call(t, app, http.MethodPost, "/api/v1/auth/login", `{"email":"ada@example.com","password":"engine"}`)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, "User Login Success", env.Message)
	cookie := tokenCookie(t, res)
	assert.True(t, cookie.HttpOnly)

	res, env = call(t, app, http.MethodGet, "/api/v1/profile/getUserDetails", "", cookie)
	require.Equal(t, fiber.StatusOK, res.StatusCode)
	var user struct {
		Email       string `json:"email"`
		AccountType string `json:"accountType"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &user))
	assert.Equal(t, "ada@example.com", user.Email)
	assert.Equal(t, "Student", user.AccountType)

	// students cannot reach instructor routes
	res, _ = call(t, app, http.MethodGet, "/api/v1/profile/instructorDashboard", "", cookie)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	res, _ = call(t, app, http.MethodPost, "/api/v1/course/addSection", `{"sectionName":"Intro","courseId":1}`, cookie)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)

	res, _ = call(t, app, http.MethodPost, "/api/v1/auth/logout", "", cookie)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	res, env = call(t, app, http.MethodGet, "/api/v1/profile/getUserDetails", "", cookie)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "Token is Invalid", env.Message)
}

func TestSignupRejectsWrongOTP(t *testing.T) {
	app := newTestApp(t)

	res, _ := call(t, app, http.MethodPost, "/api/v1/auth/sendotp", `{"email":"ada@example.com"}`)
	require.Equal(t, fiber.StatusOK, res.StatusCode)

	res, env := call(t, app, http.MethodPost, "/api/v1/auth/signup", `{
		"firstName":"Ada","lastName":"Lovelace","email":"ada@example.com",
		"password":"engine","confirmPassword":"engine","otp":"000000x"}`)
	assert.Equal(t, fiber.StatusForbidden, res.StatusCode)
	assert.Equal(t, "Invalid OTP", env.Message)
}

func TestPublicRoutes(t *testing.T) {
	app := newTestApp(t)

	res, err := app.Test(httptest.NewRequest(http.MethodGet, "/ping", nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, res.StatusCode)

	res, env := call(t, app, http.MethodGet, "/api/v1/course/getAverageRating?courseId=1", "")
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.Equal(t, "Average rating is 0, no ratings given till now", env.Message)

	res, env = call(t, app, http.MethodGet, "/api/v1/course/getReviews", "")
	assert.Equal(t, fiber.StatusOK, res.StatusCode)
	assert.True(t, env.Success)

	res, _ = call(t, app, http.MethodGet, "/api/v1/course/42", "")
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)

	res, env = call(t, app, http.MethodPost, "/api/v1/payment/capturePayment", `{"courses":[1]}`)
	assert.Equal(t, fiber.StatusUnauthorized, res.StatusCode)
	assert.Equal(t, "JWT Token is missing", env.Message)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	app := newTestApp(t)

	res, env := call(t, app, http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, fiber.StatusNotFound, res.StatusCode)
	assert.False(t, env.Success)
	require.NotNil(t, env.Error)
	assert.Equal(t, "NOT_FOUND", env.Error.Code)
}
