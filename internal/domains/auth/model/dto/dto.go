package dto

import (
	"eventdesk/infras/jwt"
	userModel "eventdesk/internal/domains/user/model"
	"eventdesk/shared/constant"
	gModel "eventdesk/shared/model"
	"eventdesk/shared/timezone"
	"strings"
	"time"

	"github.com/google/uuid"
)

type RegisterRequest struct {
	Email     string `json:"email"      validate:"required,email,max=100"`
	Password  string `json:"password"   validate:"required,min=8,max=72"`
	FullName  string `json:"full_name"  validate:"required,max=100"`
	ContactNo string `json:"contact_no" validate:"omitempty,max=20"`
}

// ToUserModel builds an active requestor account. Admin roles are granted out of band.
func (r *RegisterRequest) ToUserModel(hashedPassword string) userModel.User {
	return userModel.User{
		ID:        uuid.NewString(),
		Email:     NormalizeEmail(r.Email),
		Password:  hashedPassword,
		Role:      constant.RoleUser,
		FullName:  strings.TrimSpace(r.FullName),
		ContactNo: strings.TrimSpace(r.ContactNo),
		Active:    true,
		Metadata:  gModel.NewMetadata(constant.ContextGuest, timezone.Now()),
	}
}

func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type UpdateLastLoginRequest struct {
	LastLogin time.Time `db:"last_login"`
}

type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in"`
}

func (t *TokenResponse) FromTokenPair(tokenPair *jwt.TokenPair) {
	t.AccessToken = tokenPair.AccessToken
	t.RefreshToken = tokenPair.RefreshToken
	t.TokenType = tokenPair.TokenType
	t.ExpiresIn = tokenPair.ExpiresIn
}

type LoginResponse struct {
	TokenResponse
	User UserResponse `json:"user"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

type ChangePasswordRequest struct {
	CurrentPassword string `json:"current_password" validate:"required"`
	NewPassword     string `json:"new_password"     validate:"required,min=8,max=72,nefield=CurrentPassword"`
}

type UpdatePasswordRequest struct {
	Password string `db:"password"`
}

type UserResponse struct {
	ID        string  `json:"id"`
	Email     string  `json:"email"`
	FullName  string  `json:"full_name"`
	ContactNo string  `json:"contact_no"`
	Role      string  `json:"role"`
	LastLogin *string `json:"last_login"`
}

func (u *UserResponse) FromModel(user userModel.User) {
	u.ID = user.ID
	u.Email = user.Email
	u.FullName = user.FullName
	u.ContactNo = user.ContactNo
	u.Role = user.Role

	if user.LastLogin != nil {
		lastLogin := timezone.Format(*user.LastLogin, constant.DateFormat)
		u.LastLogin = &lastLogin
	}
}
