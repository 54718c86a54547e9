package entity

// User is the minimal profile projection this service reads. Accounts and
// credentials are owned by the authentication service.
type User struct {
	BaseEntity
	Name   string `json:"name" gorm:"type:varchar(255)"`
	Avatar string `json:"avatar,omitempty" gorm:"type:text"`
}
