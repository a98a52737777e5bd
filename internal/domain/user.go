package domain

type UserID string

type User struct {
	ID        UserID
	FirstName string
	LastName  string
	Phone     string
	Email     string
	Language  string
	AvatarURL string
	Rating    float64
}

func (u User) FullName() string {
	switch {
	case u.FirstName == "":
		return u.LastName
	case u.LastName == "":
		return u.FirstName
	}
	return u.FirstName + " " + u.LastName
}
