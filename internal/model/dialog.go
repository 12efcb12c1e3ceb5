package model

import "time"

// Dialog is a conversation thread inside a project. UpdatedAt moves on every
// mutation of the dialog or its messages, so listing by updated_at yields
// most-recently-active order.
type Dialog struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ProjectID uint      `gorm:"not null;index" json:"project_id"`
	Title     string    `gorm:"size:255" json:"title"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Project  Project   `gorm:"foreignKey:ProjectID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Messages []Message `gorm:"foreignKey:DialogID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
}

func (d *Dialog) OwningProjectID() uint {
	return d.ProjectID
}
