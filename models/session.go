package models

import "time"

// Session is a server-side login session. The cookie only carries a signed
// reference to it, so a session can expire or be revoked independently of
// the stage key.
type Session struct {
	ID        string     `json:"id" gorm:"primarykey;type:varchar(36)"`
	AdminID   uint       `json:"adminId" gorm:"not null;index"`
	Admin     *Admin     `json:"-" gorm:"foreignKey:AdminID;constraint:OnDelete:CASCADE"`
	ExpiresAt time.Time  `json:"expiresAt" gorm:"not null;index"`
	RevokedAt *time.Time `json:"revokedAt"`
	UserAgent string     `json:"userAgent"`
	IPAddress string     `json:"ipAddress" gorm:"type:varchar(64)"`
	CreatedAt time.Time  `json:"createdAt"`
}

func (Session) TableName() string {
	return "admin_sessions"
}

// Active reports whether the session can still authenticate requests at now.
func (s *Session) Active(now time.Time) bool {
	return s.RevokedAt == nil && now.Before(s.ExpiresAt)
}

// IssuedSession is a freshly created session and the token that refers to it.
type IssuedSession struct {
	Session *Session
	Token   string
}
