package identity

import "time"

// ChatLink binds a conversational session token to exactly one employee.
type ChatLink struct {
	EmployeeID      int64     `gorm:"column:employee_id;primaryKey;autoIncrement:false"`
	SessionToken    string    `gorm:"column:session_token;size:128;uniqueIndex;not null"`
	LinkedAt        time.Time `gorm:"column:linked_at;not null"`
	LastInteraction time.Time `gorm:"column:last_interaction;not null"`
}

func (ChatLink) TableName() string { return "employee_chat_links" }
