package models

import "time"

// User is an account holder of the dashboard.
type User struct {
	ID           string    `json:"id" bson:"_id"`
	Email        string    `json:"email" bson:"email"`
	FullName     string    `json:"fullName" bson:"full_name"`
	PhoneNumber  string    `json:"phoneNumber" bson:"phone_number"`
	ProductID    string    `json:"productId,omitempty" bson:"product_id,omitempty"`
	PasswordHash string    `json:"-" bson:"password_hash"`
	CreatedAt    time.Time `json:"createdAt" bson:"created_at"`
	UpdatedAt    time.Time `json:"updatedAt" bson:"updated_at"`
}

// SignUpRequest is the payload of an account registration.
type SignUpRequest struct {
	Email       string `json:"email" binding:"required"`
	Password    string `json:"password" binding:"required"`
	FullName    string `json:"fullName" binding:"required"`
	PhoneNumber string `json:"phoneNumber" binding:"required"`
	ProductKey  string `json:"productKey" binding:"required"`
}

// SignInRequest is the payload of a login.
type SignInRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// AuthResponse is returned after a successful sign up or sign in.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// ProfileUpdate carries editable profile fields.
type ProfileUpdate struct {
	FullName    *string `json:"fullName"`
	PhoneNumber *string `json:"phoneNumber"`
}

// PasswordChange is the payload of a password update.
type PasswordChange struct {
	CurrentPassword string `json:"currentPassword" binding:"required"`
	NewPassword     string `json:"newPassword" binding:"required"`
}
