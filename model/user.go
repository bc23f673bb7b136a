package model

// User owns posts. Rows are provisioned out of band (see cmd/seed); the
// write pipeline only ever reads a user back by access token, it never
// creates or mutates one.
//
// AccessToken is the opaque bearer credential presented on every
// request. It is unique, so a token maps to exactly one user.
type User struct {
	Id          int64  `gorm:"primaryKey" json:"id"`
	Email       string `gorm:"size:255;uniqueIndex" json:"email"`
	AccessToken string `gorm:"size:30;uniqueIndex" json:"-"`
}
