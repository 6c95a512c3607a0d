package service

import (
	"context"

	"puttbot/models"
)

// DefaultCourse is used when the catalog is empty
var DefaultCourse = models.Course{Name: "Host's choice"}

// courseService implements the CourseService interface
type courseService struct {
	uowFactory UnitOfWorkFactory
}

// NewCourseService creates a new course service
func NewCourseService(uowFactory UnitOfWorkFactory) CourseService {
	return &courseService{uowFactory: uowFactory}
}

// RandomCourse picks a course from the catalog
func (s *courseService) RandomCourse(ctx context.Context) (*models.Course, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, storeErr("begin transaction", err)
	}
	defer uow.Rollback()

	course, err := uow.CourseRepository().GetRandom(ctx)
	if err != nil {
		return nil, storeErr("pick course", err)
	}
	if course == nil {
		fallback := DefaultCourse
		return &fallback, nil
	}
	return course, nil
}
