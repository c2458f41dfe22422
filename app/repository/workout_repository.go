package repository

import (
	"github.com/fitpulseapp/fitpulse/app/models"
	"gorm.io/gorm"
)

// workoutRepository implements the WorkoutRepository interface
type workoutRepository struct {
	db *gorm.DB
}

// NewWorkoutRepository creates a new workout repository instance
func NewWorkoutRepository(db *gorm.DB) WorkoutRepository {
	return &workoutRepository{db: db}
}

// CreateWorkout creates a new workout in the database
func (r *workoutRepository) CreateWorkout(workout *models.Workout) error {
	return r.db.Create(workout).Error
}

// GetWorkoutByID retrieves a workout by its ID
func (r *workoutRepository) GetWorkoutByID(id string) (*models.Workout, error) {
	var workout models.Workout
	err := r.db.Where("id = ?", id).First(&workout).Error
	if err != nil {
		return nil, err
	}
	return &workout, nil
}

// ListWorkoutsByUser retrieves a paginated list of a user's workouts
func (r *workoutRepository) ListWorkoutsByUser(userID uint, offset, limit int) ([]models.Workout, error) {
	var workouts []models.Workout
	err := r.db.Where("user_id = ?", userID).
		Order("created_at DESC").Offset(offset).Limit(limit).Find(&workouts).Error
	return workouts, err
}

// CountWorkoutsByUser returns the number of workouts a user has logged
func (r *workoutRepository) CountWorkoutsByUser(userID uint) (int64, error) {
	var count int64
	err := r.db.Model(&models.Workout{}).Where("user_id = ?", userID).Count(&count).Error
	return count, err
}

// ListExercises returns the exercise catalog
func (r *workoutRepository) ListExercises() ([]models.Exercise, error) {
	var exercises []models.Exercise
	err := r.db.Order("name ASC").Find(&exercises).Error
	return exercises, err
}
