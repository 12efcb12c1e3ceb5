package model

import "time"

const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// Message is a single entry in a dialog. SenderID is nil for
// assistant-authored messages. Conversation order is created_at ascending.
type Message struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	DialogID  uint      `gorm:"not null;index" json:"dialog_id"`
	SenderID  *uint     `gorm:"index" json:"sender_id"`
	Role      string    `gorm:"size:20;not null;default:user" json:"role"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	CreatedAt time.Time `json:"created_at"`

	Dialog Dialog `gorm:"foreignKey:DialogID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE" json:"-"`
	Sender *User  `gorm:"foreignKey:SenderID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL" json:"-"`
}

// OwningProjectID requires Dialog to be preloaded; a zero return denies access.
func (m *Message) OwningProjectID() uint {
	return m.Dialog.ProjectID
}
