package repository

import (
	"context"
	"errors"
	"fmt"

	"puttbot/database"
	"puttbot/models"

	"github.com/jackc/pgx/v5"
)

// CourseRepository implements the CourseRepository interface
type CourseRepository struct {
	q queryable
}

// NewCourseRepository creates a new course repository
func NewCourseRepository(db *database.DB) *CourseRepository {
	return &CourseRepository{q: db.Pool}
}

func newCourseRepositoryWithTx(tx queryable) *CourseRepository {
	return &CourseRepository{q: tx}
}

// GetAll returns the catalog ordered by name
func (r *CourseRepository) GetAll(ctx context.Context) ([]*models.Course, error) {
	rows, err := r.q.Query(ctx, `SELECT name, image_url FROM courses ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list courses: %w", err)
	}

	courses, err := pgx.CollectRows(rows, pgx.RowToAddrOfStructByName[models.Course])
	if err != nil {
		return nil, fmt.Errorf("failed to scan courses: %w", err)
	}
	return courses, nil
}

// GetRandom returns a random course, nil when the catalog is empty
func (r *CourseRepository) GetRandom(ctx context.Context) (*models.Course, error) {
	var c models.Course
	err := r.q.QueryRow(ctx, `SELECT name, image_url FROM courses ORDER BY random() LIMIT 1`).Scan(&c.Name, &c.ImageURL)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to pick course: %w", err)
	}
	return &c, nil
}
