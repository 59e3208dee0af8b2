package database

import (
	"fmt"
	"log"
	"os"

	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/sahilchouksey/studynotion-api/utils/auth"
	"gorm.io/gorm"
)

// Seeder handles database seeding operations
type Seeder struct {
	db *gorm.DB
}

// NewSeeder creates a new seeder instance
func NewSeeder(db *gorm.DB) *Seeder {
	return &Seeder{db: db}
}

// SeedAll runs all seed functions
func (s *Seeder) SeedAll() error {
	log.Println("🌱 Starting database seeding...")

	instructor, err := s.SeedInstructor()
	if err != nil {
		return fmt.Errorf("failed to seed instructor: %w", err)
	}
	if instructor == nil {
		log.Println("✅ Database seeding completed (no instructor, courses skipped)")
		return nil
	}

	if err := s.SeedCourses(instructor); err != nil {
		return fmt.Errorf("failed to seed courses: %w", err)
	}

	log.Println("✅ Database seeding completed successfully!")
	return nil
}

// SeedInstructor creates the demo instructor account. It returns nil when the
// credentials are not configured.
func (s *Seeder) SeedInstructor() (*model.User, error) {
	email := os.Getenv("SEED_INSTRUCTOR_EMAIL")
	password := os.Getenv("SEED_INSTRUCTOR_PASSWORD")

	if email == "" || password == "" {
		log.Println("⚠️  SEED_INSTRUCTOR_EMAIL and SEED_INSTRUCTOR_PASSWORD not set, skipping instructor creation")
		return nil, nil
	}

	instructor, created, err := s.SeedAccount(Account{
		FirstName:   "Demo",
		LastName:    "Instructor",
		Email:       email,
		Password:    password,
		AccountType: model.AccountTypeInstructor,
	})
	if err != nil {
		return nil, err
	}

	if created {
		log.Printf("✅ Created instructor: %s\n", instructor.Email)
	} else {
		log.Println("⏭️  Instructor already exists, skipping...")
	}
	return instructor, nil
}

// Account is a login the seeder can create
type Account struct {
	FirstName   string
	LastName    string
	Email       string
	Password    string
	AccountType string
}

// SeedAccount creates an active, approved user with an empty profile.
// A user already holding the email is returned as is, with created false.
func (s *Seeder) SeedAccount(acct Account) (user *model.User, created bool, err error) {
	var existing model.User
	err = s.db.Where("email = ?", acct.Email).First(&existing).Error
	if err == nil {
		return &existing, false, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	passwordHash, err := auth.HashPassword(acct.Password)
	if err != nil {
		return nil, false, fmt.Errorf("failed to hash password: %w", err)
	}

	user = &model.User{
		FirstName:    acct.FirstName,
		LastName:     acct.LastName,
		Email:        acct.Email,
		PasswordHash: passwordHash,
		AccountType:  acct.AccountType,
		Active:       true,
		Approved:     true,
		Image:        model.DefaultAvatarURL(acct.FirstName, acct.LastName),
	}

	err = s.db.Transaction(func(tx *gorm.DB) error {
		profile := &model.Profile{}
		if err := tx.Create(profile).Error; err != nil {
			return err
		}
		user.ProfileID = profile.ID
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, false, err
	}
	return user, true, nil
}

// SeedCourses creates a few priced demo courses owned by the instructor
func (s *Seeder) SeedCourses(instructor *model.User) error {
	var count int64
	if err := s.db.Model(&model.Course{}).Where("instructor_id = ?", instructor.ID).Count(&count).Error; err != nil {
		return err
	}

	if count > 0 {
		log.Println("⏭️  Courses already exist, skipping...")
		return nil
	}

	courses := []model.Course{
		{
			CourseName:        "Go for Backend Engineers",
			CourseDescription: "Build production HTTP services with Go",
			WhatYouWillLearn:  "Routing, persistence, testing and deployment",
			Price:             1499,
			Tags:              []string{"go", "backend"},
			Status:            model.CourseStatusPublished,
		},
		{
			CourseName:        "PostgreSQL Fundamentals",
			CourseDescription: "Schema design and query tuning",
			WhatYouWillLearn:  "Indexes, transactions and constraints",
			Price:             999,
			Tags:              []string{"sql", "database"},
			Status:            model.CourseStatusPublished,
		},
		{
			CourseName:        "Web Security Basics",
			CourseDescription: "Authentication, sessions and common attacks",
			WhatYouWillLearn:  "JWT, cookies, CSRF and rate limiting",
			Price:             499,
			Tags:              []string{"security"},
			Status:            model.CourseStatusDraft,
		},
	}

	return s.db.Transaction(func(tx *gorm.DB) error {
		for i := range courses {
			courses[i].InstructorID = instructor.ID
			if err := tx.Create(&courses[i]).Error; err != nil {
				return err
			}

			section := model.Section{
				SectionName: "Introduction",
				CourseID:    &courses[i].ID,
				Position:    1,
			}
			if err := tx.Create(&section).Error; err != nil {
				return err
			}

			lecture := model.SubSection{
				SectionID:    &section.ID,
				Title:        "Welcome to " + courses[i].CourseName,
				Description:  "What this course covers",
				TimeDuration: "95",
				Position:     1,
			}
			if err := tx.Create(&lecture).Error; err != nil {
				return err
			}
		}

		log.Printf("✅ Created %d courses\n", len(courses))
		return nil
	})
}

// RunSeeds is a convenience function to run all seeds
func RunSeeds(db *gorm.DB) error {
	seeder := NewSeeder(db)
	return seeder.SeedAll()
}
