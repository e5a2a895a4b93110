package model

import (
	"time"

	"github.com/google/uuid"
)

// Comment is written by a client and may be answered once by an administrator.
type Comment struct {
	BaseModel
	UserID      uuid.UUID  `gorm:"type:uuid;not null;index" json:"user_id"`
	User        *User      `gorm:"foreignKey:UserID" json:"-"`
	Text        string     `gorm:"type:varchar(500);not null" json:"text"`
	Reply       *string    `gorm:"type:varchar(500)" json:"reply,omitempty"`
	RepliedAt   *time.Time `json:"replied_at,omitempty"`
	RepliedByID *uuid.UUID `gorm:"type:uuid" json:"replied_by_id,omitempty"`
	RepliedBy   *User      `gorm:"foreignKey:RepliedByID" json:"-"`
}

func (c *Comment) IsAnswered() bool {
	return c.Reply != nil
}

type CommentResponse struct {
	ID        uuid.UUID  `json:"id"`
	Text      string     `json:"text"`
	CreatedAt time.Time  `json:"created_at"`
	Author    *UserRef   `json:"author,omitempty"`
	Answered  bool       `json:"answered"`
	Reply     *string    `json:"reply,omitempty"`
	RepliedAt *time.Time `json:"replied_at,omitempty"`
	RepliedBy *UserRef   `json:"replied_by,omitempty"`
}

func (c *Comment) ToResponse() CommentResponse {
	return CommentResponse{
		ID:        c.ID,
		Text:      c.Text,
		CreatedAt: c.CreatedAt,
		Author:    c.User.Ref(),
		Answered:  c.IsAnswered(),
		Reply:     c.Reply,
		RepliedAt: c.RepliedAt,
		RepliedBy: c.RepliedBy.Ref(),
	}
}
