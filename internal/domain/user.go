package domain

import "time"

type User struct {
	ID        int32     `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Location  string    `json:"location"`
	Verified  bool      `json:"verified"`
	CreatedOn time.Time `json:"created_on"`
}
