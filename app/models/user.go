package models

import (
	"crypto/rand"
	"encoding/hex"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	ROLE_USER  = "user"
	ROLE_ADMIN = "admin"

	STATUS_ACTIVE   = "active"
	STATUS_INACTIVE = "inactive"
	STATUS_DISABLED = "disabled"
)

const (
	FitnessLevelBeginner     = "beginner"
	FitnessLevelIntermediate = "intermediate"
	FitnessLevelAdvanced     = "advanced"
)

type User struct {
	ID                  uint           `gorm:"primaryKey" json:"id"`
	FirstName           string         `gorm:"type:varchar(100)" json:"first_name" validate:"required,min=1,max=100"`
	LastName            string         `gorm:"type:varchar(100)" json:"last_name" validate:"required,min=1,max=100"`
	Email               string         `gorm:"uniqueIndex;type:varchar(200)" json:"email" validate:"required,email,min=5,max=200"`
	Password            string         `gorm:"type:text" json:"-" validate:"required,min=6"`
	Role                string         `gorm:"type:varchar(50);default:'user'" json:"role" validate:"oneof=user admin"`
	Status              string         `gorm:"type:varchar(50);default:'inactive'" json:"status" validate:"oneof=active inactive disabled"`
	AvatarURL           string         `gorm:"type:varchar(255);default:null" json:"avatar_url" validate:"max=255"`
	HeightCM            *float64       `gorm:"column:height_cm;type:decimal(5,1);default:null" json:"height,omitempty"`
	WeightKG            *float64       `gorm:"column:weight_kg;type:decimal(5,1);default:null" json:"weight,omitempty"`
	FitnessLevel        string         `gorm:"type:varchar(20);default:null" json:"fitness_level" validate:"omitempty,oneof=beginner intermediate advanced"`
	FitnessGoals        datatypes.JSON `gorm:"type:json" json:"fitness_goals,omitempty"`
	ActivationToken     string         `gorm:"type:varchar(100);index" json:"-"`
	ActivationSentAt    *time.Time     `gorm:"type:timestamp;default:null" json:"-"`
	PasswordResetToken  string         `gorm:"type:varchar(100);default:null;index" json:"-"`
	PasswordResetSentAt *time.Time     `gorm:"type:timestamp;default:null" json:"-"`
	LastLoginAt         *time.Time     `gorm:"type:timestamp;default:null" json:"last_login_at"`
	CreatedAt           time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt           time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`
}

func (u *User) Validate() error {
	v := validator.New()

	return v.Struct(u)
}

// FullName joins first and last name for display.
func (u *User) FullName() string {
	if u.FirstName == "" {
		return u.LastName
	}
	if u.LastName == "" {
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}

func CreateUser(firstName, lastName, email, password string) (*User, error) {
	// Validate against the raw password, not the fixed-length hash.
	u := &User{
		FirstName: firstName,
		LastName:  lastName,
		Email:     email,
		Password:  password,
		Role:      ROLE_USER,
		Status:    STATUS_INACTIVE,
	}

	if err := u.Validate(); err != nil {
		return nil, err
	}

	pw, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	u.Password = pw

	return u, nil
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)

	return string(bytes), err
}

// CheckPasswordHash compares the given password with the stored hash.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))

	return err == nil
}

// GenerateToken creates a random hex token for activation and reset mails.
func GenerateToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
