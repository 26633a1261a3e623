// Package dto provides Data Transfer Objects for API requests and responses.
package dto

import (
	"time"

	"github.com/filedrop/filedrop/internal/model"
)

// RegisterFileRequest represents the body of POST /files/upload. The file
// bytes themselves go straight to blob storage; this only registers the
// resulting pointer.
type RegisterFileRequest struct {
	FileName string `json:"file_name"`
	Suffix   string `json:"suffix"`
	AWSURL   string `json:"aws_url"`
}

// FileResponse represents a file record in API responses.
type FileResponse struct {
	ID        string    `json:"id"`
	UniqueID  string    `json:"unique_id"`
	FileName  string    `json:"file_name"`
	Suffix    string    `json:"suffix"`
	AWSURL    string    `json:"aws_url"`
	DirectURL string    `json:"direct_url"`
	CreatedAt time.Time `json:"created_at"`
}

// FileListResponse represents the caller's files.
type FileListResponse struct {
	Success bool           `json:"success"`
	Files   []FileResponse `json:"files"`
	Count   int            `json:"count"`
}

// RegisterFileResponse wraps a freshly registered file record.
type RegisterFileResponse struct {
	Success bool         `json:"success"`
	File    FileResponse `json:"file"`
}

// MessageResponse is a generic success acknowledgement.
type MessageResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

// AuthURLResponse carries the provider consent URL for starting a login.
type AuthURLResponse struct {
	Success bool   `json:"success"`
	AuthURL string `json:"auth_url"`
}

// UserResponse represents the caller's profile.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	Picture   string    `json:"picture,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ErrorResponse represents an API error.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// ToFileResponse converts a File model to a FileResponse DTO.
func ToFileResponse(file *model.File) FileResponse {
	return FileResponse{
		ID:        file.ID,
		UniqueID:  file.PublicName(),
		FileName:  file.FileName,
		Suffix:    file.Suffix,
		AWSURL:    file.StorageURL,
		DirectURL: "/files/" + file.PublicName(),
		CreatedAt: file.CreatedAt,
	}
}

// ToFileListResponse converts a list of files to a FileListResponse DTO.
func ToFileListResponse(files []*model.File) FileListResponse {
	out := make([]FileResponse, 0, len(files))
	for _, f := range files {
		out = append(out, ToFileResponse(f))
	}
	return FileListResponse{
		Success: true,
		Files:   out,
		Count:   len(out),
	}
}

// ToUserResponse converts a User model to a UserResponse DTO.
func ToUserResponse(user *model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Picture:   user.Picture,
		CreatedAt: user.CreatedAt,
	}
}
