package entity

type UserRole string

const (
	RoleUser   UserRole = "User"
	RoleExpert UserRole = "Expert"
)

const DefaultProfilePictureURL = "https://static.vecteezy.com/system/resources/thumbnails/009/292/244/small/default-avatar-icon-of-social-media-user-vector.jpg"

type User struct {
	Base
	FullName          string   `db:"full_name"`
	Email             string   `db:"email"`
	PasswordHash      string   `db:"password_hash"`
	Role              UserRole `db:"role"`
	ProfilePictureURL string   `db:"profile_picture_url"`
	Bio               *string  `db:"bio"`
}
