package services

import (
	"context"
	"errors"
	"mime/multipart"
	"sync"
	"testing"

	"github.com/sahilchouksey/studynotion-api/database"
	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/sahilchouksey/studynotion-api/services/media"
	"github.com/sahilchouksey/studynotion-api/services/payment"
	"github.com/sahilchouksey/studynotion-api/utils/auth"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const testGatewaySecret = "test_gateway_secret"

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	store, err := database.StartSQLite(":memory:", nil)
	require.NoError(t, err)
	require.NoError(t, store.Init())
	t.Cleanup(func() { store.Close() })

	return store.GetDB().(*gorm.DB)
}

type sentMail struct {
	To      string
	Subject string
	Body    string
}

type fakeMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{To: to, Subject: subject, Body: htmlBody})
	return nil
}

func (m *fakeMailer) Sent() []sentMail {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]sentMail(nil), m.sent...)
}

type fakeGateway struct {
	requests []payment.OrderRequest
	err      error
}

func (g *fakeGateway) CreateOrder(ctx context.Context, req payment.OrderRequest) (*payment.Order, error) {
	if g.err != nil {
		return nil, g.err
	}
	g.requests = append(g.requests, req)
	return &payment.Order{
		ID:       "order_test_1",
		Entity:   "order",
		Amount:   req.Amount,
		Currency: req.Currency,
		Receipt:  req.Receipt,
		Status:   "created",
	}, nil
}

type fakeUploader struct {
	folders  []string
	duration float64
	err      error
}

func (u *fakeUploader) Upload(ctx context.Context, folder string, file *multipart.FileHeader) (*media.UploadResult, error) {
	if u.err != nil {
		return nil, u.err
	}
	u.folders = append(u.folders, folder)
	key := folder + "/" + file.Filename
	return &media.UploadResult{
		URL:      "https://cdn.test/" + key,
		Key:      key,
		Duration: u.duration,
	}, nil
}

var errSMTPDown = errors.New("smtp: connection refused")

func createUser(t *testing.T, db *gorm.DB, email, password, accountType string) *model.User {
	t.Helper()

	hash, err := auth.HashPassword(password)
	require.NoError(t, err)

	profile := &model.Profile{}
	require.NoError(t, db.Create(profile).Error)

	user := &model.User{
		FirstName:    "Test",
		LastName:     "User",
		Email:        email,
		PasswordHash: hash,
		AccountType:  accountType,
		Active:       true,
		Approved:     true,
		ProfileID:    profile.ID,
		Image:        model.DefaultAvatarURL("Test", "User"),
	}
	require.NoError(t, db.Omit("Profile").Create(user).Error)
	return user
}

func createCourse(t *testing.T, db *gorm.DB, instructorID uint, name string, price float64) *model.Course {
	t.Helper()

	course := &model.Course{
		CourseName:        name,
		CourseDescription: name + " description",
		InstructorID:      instructorID,
		Price:             price,
		Status:            model.CourseStatusPublished,
	}
	require.NoError(t, db.Omit("Instructor").Create(course).Error)
	return course
}

func videoHeader(name string) *multipart.FileHeader {
	return &multipart.FileHeader{Filename: name, Size: 1024}
}
