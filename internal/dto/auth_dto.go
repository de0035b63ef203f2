package dto

import "time"

type RegisterRequest struct {
	Name     string `json:"name" form:"name"`
	Surname  string `json:"surname" form:"surname"`
	CNP      string `json:"cnp" form:"cnp"`
	IDCard   string `json:"id_card" form:"id_card"`
	Phone    string `json:"phone" form:"phone"`
	Email    string `json:"email" form:"email"`
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
	Address  string `json:"address" form:"address"`
	City     string `json:"city" form:"city"`
	County   string `json:"county" form:"county"`
}

type LoginRequest struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

type ErrorResponse struct {
	Error   bool   `json:"error"`
	Message string `json:"message"`
}

type HealthResponse struct {
	Status       string `json:"status"`
	Timestamp    string `json:"timestamp"`
	DB           string `json:"db"`
	Participants int64  `json:"participants"`
}

type EnrollmentResponse struct {
	TaskID     string     `json:"task_id"`
	Username   string     `json:"username"`
	Status     string     `json:"status"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}
