package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"mime/multipart"
	"path"
	"strconv"

	"github.com/sahilchouksey/studynotion-api/model"
	"github.com/sahilchouksey/studynotion-api/services/media"
	"github.com/sahilchouksey/studynotion-api/utils/validation"
	"gorm.io/gorm"
)

// CreateSubSectionInput is a new lecture with its video
type CreateSubSectionInput struct {
	SectionID    uint
	Title        string
	Description  string
	TimeDuration string
	Video        *multipart.FileHeader
}

// UpdateSubSectionInput carries optional lecture changes. Nil fields are left untouched.
type UpdateSubSectionInput struct {
	SectionID    uint
	SubSectionID uint
	Title        *string
	Description  *string
	TimeDuration *string
	Video        *multipart.FileHeader
}

// ContentService manages sections and subsections of a course
type ContentService struct {
	db          *gorm.DB
	uploader    media.Uploader
	mediaFolder string
}

// NewContentService creates a content service
func NewContentService(db *gorm.DB, uploader media.Uploader, mediaFolder string) *ContentService {
	return &ContentService{
		db:          db,
		uploader:    uploader,
		mediaFolder: mediaFolder,
	}
}

func byPosition(db *gorm.DB) *gorm.DB {
	return db.Order("position ASC, id ASC")
}

// loadCourse returns the course with instructor, sections and subsections
func loadCourse(ctx context.Context, db *gorm.DB, courseID uint) (*model.Course, error) {
	var course model.Course
	err := db.WithContext(ctx).
		Preload("Instructor").
		Preload("Sections", byPosition).
		Preload("Sections.SubSections", byPosition).
		First(&course, courseID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCourseNotFound
		}
		return nil, fmt.Errorf("failed to load course: %w", err)
	}
	return &course, nil
}

// loadSection returns the section with its subsections
func loadSection(ctx context.Context, db *gorm.DB, sectionID uint) (*model.Section, error) {
	var section model.Section
	err := db.WithContext(ctx).
		Preload("SubSections", byPosition).
		First(&section, sectionID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSectionNotFound
		}
		return nil, fmt.Errorf("failed to load section: %w", err)
	}
	return &section, nil
}

func nextPosition(tx *gorm.DB, table, parentColumn string, parentID uint) (int, error) {
	var maxPosition int
	err := tx.Table(table).
		Select("COALESCE(MAX(position), 0)").
		Where(parentColumn+" = ?", parentID).
		Row().
		Scan(&maxPosition)
	if err != nil {
		return 0, err
	}
	return maxPosition + 1, nil
}

// GetCourseDetails returns the fully populated course
func (s *ContentService) GetCourseDetails(ctx context.Context, courseID uint) (*model.Course, error) {
	if courseID == 0 {
		return nil, ErrValidation
	}
	return loadCourse(ctx, s.db, courseID)
}

// CreateSection appends a section to the course
func (s *ContentService) CreateSection(ctx context.Context, courseID uint, sectionName string) (*model.Course, error) {
	sectionName = validation.SanitizeString(sectionName)
	if courseID == 0 || sectionName == "" {
		return nil, ErrValidation
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&model.Course{}).Where("id = ?", courseID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrCourseNotFound
		}

		position, err := nextPosition(tx, "sections", "course_id", courseID)
		if err != nil {
			return err
		}

		section := &model.Section{
			SectionName: sectionName,
			CourseID:    &courseID,
			Position:    position,
		}
		return tx.Create(section).Error
	})
	if err != nil {
		return nil, err
	}

	return loadCourse(ctx, s.db, courseID)
}

// UpdateSection renames a section. The owning course is returned alongside
// when it can be resolved.
func (s *ContentService) UpdateSection(ctx context.Context, sectionID uint, sectionName string, courseID uint) (*model.Section, *model.Course, error) {
	sectionName = validation.SanitizeString(sectionName)
	if sectionID == 0 || sectionName == "" {
		return nil, nil, ErrValidation
	}

	section, err := loadSection(ctx, s.db, sectionID)
	if err != nil {
		return nil, nil, err
	}

	err = s.db.WithContext(ctx).Model(&model.Section{}).
		Where("id = ?", sectionID).
		Update("section_name", sectionName).Error
	if err != nil {
		return nil, nil, fmt.Errorf("failed to update section: %w", err)
	}
	section.SectionName = sectionName

	if courseID == 0 && section.CourseID != nil {
		courseID = *section.CourseID
	}
	if courseID == 0 {
		return section, nil, nil
	}

	course, err := loadCourse(ctx, s.db, courseID)
	if err != nil && !errors.Is(err, ErrCourseNotFound) {
		return nil, nil, err
	}
	return section, course, nil
}

// DeleteSection detaches the section, deletes its subsections and then the
// section itself, all in one transaction
func (s *ContentService) DeleteSection(ctx context.Context, sectionID, courseID uint) (*model.Course, error) {
	if sectionID == 0 {
		return nil, ErrValidation
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var section model.Section
		if err := tx.First(&section, sectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSectionNotFound
			}
			return err
		}
		if courseID == 0 && section.CourseID != nil {
			courseID = *section.CourseID
		}

		if err := tx.Model(&model.Section{}).Where("id = ?", sectionID).Update("course_id", nil).Error; err != nil {
			return err
		}

		if err := tx.Where("section_id = ?", sectionID).Delete(&model.SubSection{}).Error; err != nil {
			return err
		}

		return tx.Delete(&model.Section{}, sectionID).Error
	})
	if err != nil {
		return nil, err
	}

	if courseID == 0 {
		return nil, nil
	}
	return loadCourse(ctx, s.db, courseID)
}

func (s *ContentService) uploadVideo(ctx context.Context, video *multipart.FileHeader) (*media.UploadResult, error) {
	result, err := s.uploader.Upload(ctx, path.Join(s.mediaFolder, "videos"), video)
	if err != nil {
		log.Printf("Video upload of %s failed: %v", video.Filename, err)
		return nil, fmt.Errorf("%w: %w", ErrUploadFailed, err)
	}
	return result, nil
}

func durationOf(result *media.UploadResult, fallback string) string {
	if result.Duration > 0 {
		return strconv.FormatFloat(result.Duration, 'f', -1, 64)
	}
	return validation.SanitizeString(fallback)
}

// CreateSubSection uploads the video and appends a lecture to the section
func (s *ContentService) CreateSubSection(ctx context.Context, in CreateSubSectionInput) (*model.Section, error) {
	in.Title = validation.SanitizeString(in.Title)
	in.Description = validation.SanitizeString(in.Description)
	if in.SectionID == 0 || in.Title == "" || in.Description == "" || in.Video == nil {
		return nil, ErrValidation
	}

	if _, err := loadSection(ctx, s.db, in.SectionID); err != nil {
		return nil, err
	}

	upload, err := s.uploadVideo(ctx, in.Video)
	if err != nil {
		return nil, err
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		position, err := nextPosition(tx, "sub_sections", "section_id", in.SectionID)
		if err != nil {
			return err
		}

		subSection := &model.SubSection{
			SectionID:    &in.SectionID,
			Title:        in.Title,
			Description:  in.Description,
			TimeDuration: durationOf(upload, in.TimeDuration),
			VideoURL:     upload.URL,
			Position:     position,
		}
		return tx.Create(subSection).Error
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create subsection: %w", err)
	}

	return loadSection(ctx, s.db, in.SectionID)
}

// UpdateSubSection applies the provided fields and re-uploads the video when a new one is given
func (s *ContentService) UpdateSubSection(ctx context.Context, in UpdateSubSectionInput) (*model.Section, error) {
	if in.SubSectionID == 0 {
		return nil, ErrValidation
	}

	var subSection model.SubSection
	if err := s.db.WithContext(ctx).First(&subSection, in.SubSectionID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrSubSectionNotFound
		}
		return nil, fmt.Errorf("failed to load subsection: %w", err)
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = validation.SanitizeString(*in.Title)
	}
	if in.Description != nil {
		updates["description"] = validation.SanitizeString(*in.Description)
	}
	if in.Video != nil {
		upload, err := s.uploadVideo(ctx, in.Video)
		if err != nil {
			return nil, err
		}
		fallback := subSection.TimeDuration
		if in.TimeDuration != nil {
			fallback = *in.TimeDuration
		}
		updates["video_url"] = upload.URL
		updates["time_duration"] = durationOf(upload, fallback)
	} else if in.TimeDuration != nil {
		updates["time_duration"] = validation.SanitizeString(*in.TimeDuration)
	}

	if len(updates) > 0 {
		err := s.db.WithContext(ctx).Model(&model.SubSection{}).
			Where("id = ?", subSection.ID).
			Updates(updates).Error
		if err != nil {
			return nil, fmt.Errorf("failed to update subsection: %w", err)
		}
	}

	sectionID := in.SectionID
	if sectionID == 0 && subSection.SectionID != nil {
		sectionID = *subSection.SectionID
	}
	return loadSection(ctx, s.db, sectionID)
}

// DeleteSubSection removes a lecture and returns the remaining section
func (s *ContentService) DeleteSubSection(ctx context.Context, subSectionID, sectionID uint) (*model.Section, error) {
	if subSectionID == 0 {
		return nil, ErrValidation
	}

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var subSection model.SubSection
		if err := tx.First(&subSection, subSectionID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrSubSectionNotFound
			}
			return err
		}
		if sectionID == 0 && subSection.SectionID != nil {
			sectionID = *subSection.SectionID
		}
		return tx.Delete(&model.SubSection{}, subSectionID).Error
	})
	if err != nil {
		return nil, err
	}

	return loadSection(ctx, s.db, sectionID)
}
