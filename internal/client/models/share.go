package models

import "github.com/dmitrijs2005/spillway/internal/timex"

type SharePermission string

const (
	PermissionRead   SharePermission = "READ"
	PermissionModify SharePermission = "MODIFY"
	PermissionAdmin  SharePermission = "ADMIN"
)

type Share struct {
	ID                 string              `json:"id"`
	VideoID            string              `json:"videoId"`
	VideoTitle         string              `json:"videoTitle,omitempty"`
	SharedByUsername   string              `json:"sharedByUsername,omitempty"`
	SharedWithUsername string              `json:"sharedWithUsername,omitempty"`
	Permission         SharePermission     `json:"permission,omitempty"`
	CreatedAt          timex.LocalDateTime `json:"createdAt"`
	ExpiresAt          timex.LocalDateTime `json:"expiresAt"`
	Active             bool                `json:"active"`
	IsValid            bool                `json:"isValid"`
}

type ShareRequest struct {
	VideoID            string               `json:"videoId"`
	SharedWithUsername string               `json:"sharedWithUsername"`
	Permission         SharePermission      `json:"permission,omitempty"`
	ExpiresAt          *timex.LocalDateTime `json:"expiresAt,omitempty"`
}
