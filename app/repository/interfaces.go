package repository

import (
	"github.com/fitpulseapp/fitpulse/app/models"
	"gorm.io/gorm"
)

// UserRepository defines the interface for user-related database operations
type UserRepository interface {
	Create(user *models.User) error
	GetByID(id uint) (*models.User, error)
	GetByEmail(email string) (*models.User, error)
	GetByActivationToken(token string) (*models.User, error)
	GetByPasswordResetToken(token string) (*models.User, error)
	Update(user *models.User) error
	Delete(id uint) error
	List(offset, limit int) ([]models.User, error)
	Count() (int64, error)
}

// WorkoutRepository defines the interface for workout tracking operations
type WorkoutRepository interface {
	CreateWorkout(workout *models.Workout) error
	GetWorkoutByID(id string) (*models.Workout, error)
	ListWorkoutsByUser(userID uint, offset, limit int) ([]models.Workout, error)
	CountWorkoutsByUser(userID uint) (int64, error)
	ListExercises() ([]models.Exercise, error)
}

// Repositories struct holds all repository instances
type Repositories struct {
	User    UserRepository
	Workout WorkoutRepository
}

// NewRepositories creates a new instance of all repositories
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:    NewUserRepository(db),
		Workout: NewWorkoutRepository(db),
	}
}
