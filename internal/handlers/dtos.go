package handlers

import (
	"strings"
	"time"

	"github.com/BradenHooton/bookshare/internal/models"
	"github.com/BradenHooton/bookshare/internal/services"
)

// Request DTOs

// LoginRequest represents the request body for login
type LoginRequest struct {
	Login    string `json:"login" validate:"required,login"`
	Password string `json:"password" validate:"required,min=6"`
}

// RegisterRequest represents the request body for registration
type RegisterRequest struct {
	Login    string `json:"login" validate:"required,login,max=50"`
	Password string `json:"password" validate:"required,min=6"`
	FullName string `json:"full_name" validate:"required,cyrillic_name,max=150"`
	Phone    string `json:"phone" validate:"required,phone_ru"`
	Email    string `json:"email" validate:"required,email,max=254"`
}

func (r *RegisterRequest) normalize() {
	r.Login = strings.TrimSpace(r.Login)
	r.FullName = strings.TrimSpace(r.FullName)
	r.Phone = strings.TrimSpace(r.Phone)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// CreateCardRequest represents the request body for a new card
type CreateCardRequest struct {
	Title     string  `json:"title" validate:"required,min=2,max=100"`
	Author    string  `json:"author" validate:"required,min=2,max=100"`
	Type      *int    `json:"type" validate:"required,oneof=0 1"`
	Publisher *string `json:"publisher" validate:"omitempty,min=2,max=100"`
	Year      *int    `json:"year" validate:"omitempty,gte=1800,not_future_year"`
	Binding   *string `json:"binding" validate:"omitempty,max=50"`
	Condition *string `json:"condition" validate:"omitempty,max=200"`
}

func (r *CreateCardRequest) normalize() {
	r.Title = strings.TrimSpace(r.Title)
	r.Author = strings.TrimSpace(r.Author)
	r.Publisher = trimOptional(r.Publisher)
	r.Binding = trimOptional(r.Binding)
	r.Condition = trimOptional(r.Condition)
}

func (r *CreateCardRequest) toInput() services.CardInput {
	return services.CardInput{
		Title:     r.Title,
		Author:    r.Author,
		Type:      models.CardType(*r.Type),
		Publisher: r.Publisher,
		Year:      r.Year,
		Binding:   r.Binding,
		Condition: r.Condition,
	}
}

// UpdateCardRequest represents a partial card update. Absent fields are left as is.
type UpdateCardRequest struct {
	Title     *string `json:"title" validate:"omitempty,min=2,max=100"`
	Author    *string `json:"author" validate:"omitempty,min=2,max=100"`
	Type      *int    `json:"type" validate:"omitempty,oneof=0 1"`
	Publisher *string `json:"publisher" validate:"omitempty,min=2,max=100"`
	Year      *int    `json:"year" validate:"omitempty,gte=1800,not_future_year"`
	Binding   *string `json:"binding" validate:"omitempty,max=50"`
	Condition *string `json:"condition" validate:"omitempty,max=200"`
}

func (r *UpdateCardRequest) normalize() {
	if r.Title != nil {
		v := strings.TrimSpace(*r.Title)
		r.Title = &v
	}
	if r.Author != nil {
		v := strings.TrimSpace(*r.Author)
		r.Author = &v
	}
	r.Publisher = trimOptional(r.Publisher)
	r.Binding = trimOptional(r.Binding)
	r.Condition = trimOptional(r.Condition)
}

func (r *UpdateCardRequest) toPatch() models.CardPatch {
	patch := models.CardPatch{
		Title:     r.Title,
		Author:    r.Author,
		Publisher: r.Publisher,
		Year:      r.Year,
		Binding:   r.Binding,
		Condition: r.Condition,
	}
	if r.Type != nil {
		t := models.CardType(*r.Type)
		patch.Type = &t
	}
	return patch
}

// ReasonRequest carries the reason of a rejection or an admin deletion
type ReasonRequest struct {
	Reason string `json:"reason" validate:"required,min=5,max=500"`
}

// Response DTOs

// UserResponse is the public view of an account
type UserResponse struct {
	ID        string    `json:"id"`
	Login     string    `json:"login"`
	FullName  string    `json:"full_name"`
	Phone     string    `json:"phone"`
	Email     string    `json:"email"`
	Admin     bool      `json:"admin"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
}

// AdminUserResponse adds the card count shown on the admin users page
type AdminUserResponse struct {
	UserResponse
	CardCount int64 `json:"card_count"`
}

// AuthResponse is returned by login and register
type AuthResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// CardOwnerResponse is the owner summary embedded in a card
type CardOwnerResponse struct {
	ID       string `json:"id"`
	FullName string `json:"full_name"`
}

// CardResponse is the public view of a card
type CardResponse struct {
	ID           string             `json:"id"`
	UserID       string             `json:"user_id"`
	Status       models.CardStatus  `json:"status"`
	StatusName   string             `json:"status_name"`
	RemoveReason *string            `json:"remove_reason,omitempty"`
	Title        string             `json:"title"`
	Type         models.CardType    `json:"type"`
	Author       string             `json:"author"`
	Publisher    *string            `json:"publisher,omitempty"`
	Year         *int               `json:"year,omitempty"`
	Binding      *string            `json:"binding,omitempty"`
	Condition    *string            `json:"condition,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
	Owner        *CardOwnerResponse `json:"user,omitempty"`
}

func userToResponse(u *models.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Login:     u.Login,
		FullName:  u.FullName,
		Phone:     u.Phone,
		Email:     u.Email,
		Admin:     u.IsAdmin(),
		Status:    u.Status,
		CreatedAt: u.CreatedAt,
	}
}

func cardToResponse(c *models.Card) CardResponse {
	resp := CardResponse{
		ID:           c.ID,
		UserID:       c.UserID,
		Status:       c.Status,
		StatusName:   c.Status.String(),
		RemoveReason: c.RemoveReason,
		Title:        c.Title,
		Type:         c.Type,
		Author:       c.Author,
		Publisher:    c.Publisher,
		Year:         c.Year,
		Binding:      c.Binding,
		Condition:    c.Condition,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if c.Owner != nil {
		resp.Owner = &CardOwnerResponse{ID: c.Owner.ID, FullName: c.Owner.FullName}
	}
	return resp
}

func cardsToResponse(cards []*models.Card) []CardResponse {
	out := make([]CardResponse, len(cards))
	for i, c := range cards {
		out[i] = cardToResponse(c)
	}
	return out
}
