package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Workout tracking rows, driven by the JSON API. The dashboard itself
// renders curated content instead of these rows.

type WorkoutPlan struct {
	ID            string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	UserID        uint      `gorm:"not null;index" json:"user_id"`
	Name          string    `gorm:"type:varchar(150);not null" json:"name"`
	Description   string    `gorm:"type:text" json:"description"`
	Difficulty    string    `gorm:"type:varchar(20);default:null" json:"difficulty,omitempty"`
	DurationWeeks int       `gorm:"default:null" json:"duration_weeks,omitempty"`
	CreatedAt     time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt     time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (w *WorkoutPlan) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

type Workout struct {
	ID              string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	PlanID          string     `gorm:"type:varchar(36);default:null;index" json:"plan_id,omitempty"`
	UserID          uint       `gorm:"not null;index" json:"user_id"`
	Name            string     `gorm:"type:varchar(150);not null" json:"name"`
	Description     string     `gorm:"type:text" json:"description"`
	DurationMinutes int        `gorm:"default:null" json:"duration_minutes,omitempty"`
	CaloriesBurned  int        `gorm:"default:null" json:"calories_burned,omitempty"`
	Completed       bool       `gorm:"default:false" json:"completed"`
	ScheduledDate   *time.Time `gorm:"type:timestamp;default:null" json:"scheduled_date,omitempty"`
	CompletedDate   *time.Time `gorm:"type:timestamp;default:null" json:"completed_date,omitempty"`
	CreatedAt       time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time  `gorm:"autoUpdateTime" json:"updated_at"`
}

func (w *Workout) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}

type Exercise struct {
	ID           string         `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name         string         `gorm:"type:varchar(150);not null" json:"name"`
	Description  string         `gorm:"type:text" json:"description"`
	MuscleGroup  string         `gorm:"type:varchar(100);default:null" json:"muscle_group,omitempty"`
	Equipment    datatypes.JSON `gorm:"type:json" json:"equipment,omitempty"`
	Difficulty   string         `gorm:"type:varchar(20);default:null" json:"difficulty,omitempty"`
	Instructions datatypes.JSON `gorm:"type:json" json:"instructions,omitempty"`
	VideoURL     string         `gorm:"type:varchar(500);default:null" json:"video_url,omitempty"`
	CreatedAt    time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

func (e *Exercise) BeforeCreate(tx *gorm.DB) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	return nil
}

type WorkoutExercise struct {
	ID              string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	WorkoutID       string    `gorm:"type:varchar(36);not null;index" json:"workout_id"`
	ExerciseID      string    `gorm:"type:varchar(36);not null;index" json:"exercise_id"`
	Sets            int       `gorm:"default:null" json:"sets,omitempty"`
	Reps            int       `gorm:"default:null" json:"reps,omitempty"`
	Weight          *float64  `gorm:"type:decimal(6,2);default:null" json:"weight,omitempty"`
	DurationSeconds int       `gorm:"default:null" json:"duration_seconds,omitempty"`
	RestSeconds     int       `gorm:"default:null" json:"rest_seconds,omitempty"`
	OrderIndex      int       `gorm:"not null;default:0" json:"order_index"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (w *WorkoutExercise) BeforeCreate(tx *gorm.DB) error {
	if w.ID == "" {
		w.ID = uuid.NewString()
	}
	return nil
}
