package todo

import "time"

type Todo struct {
	ID        uint64    `json:"id" gorm:"primaryKey"`
	Title     string    `json:"title" gorm:"not null"`
	CreatedBy string    `json:"created_by" gorm:"index"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// CreateTodoRequest is the POST /todos payload. Title is a pointer so an
// explicit null is told apart from a decoding error.
type CreateTodoRequest struct {
	Title     *string `json:"title"`
	CreatedBy string  `json:"created_by"`
}

// UpdateTodoRequest is the PUT /todos/:id payload; nil fields are left unchanged.
type UpdateTodoRequest struct {
	Title *string `json:"title"`
}

type ErrorResponse struct {
	Message string `json:"message"`
}
