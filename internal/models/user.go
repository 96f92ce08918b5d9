package models

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleBuyer  UserRole = "buyer"
	UserRoleSeller UserRole = "seller"
)

func (r UserRole) Valid() bool {
	return r == UserRoleBuyer || r == UserRoleSeller
}

type EducationEntry struct {
	Country        string `json:"country"`
	University     string `json:"university"`
	Degree         string `json:"degree"`
	Major          string `json:"major"`
	GraduationYear string `json:"graduationYear"`
}

type SkillEntry struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Efficiency  int    `json:"efficiency"`
}

type ContactInfo struct {
	Email     string `json:"email,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Portfolio string `json:"portfolio,omitempty"`
	Whatsapp  string `json:"whatsapp,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

type ContactLinkType string

const (
	ContactLinkEmail     ContactLinkType = "email"
	ContactLinkLinkedin  ContactLinkType = "linkedin"
	ContactLinkPortfolio ContactLinkType = "portfolio"
	ContactLinkWhatsapp  ContactLinkType = "whatsapp"
	ContactLinkInstagram ContactLinkType = "instagram"
	ContactLinkWebsite   ContactLinkType = "website"
	ContactLinkOther     ContactLinkType = "other"
)

func (t ContactLinkType) Valid() bool {
	switch t {
	case ContactLinkEmail, ContactLinkLinkedin, ContactLinkPortfolio,
		ContactLinkWhatsapp, ContactLinkInstagram, ContactLinkWebsite, ContactLinkOther:
		return true
	default:
		return false
	}
}

type ContactLink struct {
	Type  ContactLinkType `json:"type"`
	Value string          `json:"value"`
}

type User struct {
	BaseModel
	Name         string           `json:"name" gorm:"type:varchar(100);not null"`
	Email        string           `json:"email" gorm:"type:varchar(255);uniqueIndex;not null"`
	PasswordHash string           `json:"-" gorm:"type:text;not null"`
	Role         UserRole         `json:"role" gorm:"type:varchar(20);not null"`
	ProfilePic   *string          `json:"profilePic,omitempty" gorm:"type:text"`
	Headline     *string          `json:"headline,omitempty" gorm:"type:varchar(200)"`
	Education    []EducationEntry `json:"education" gorm:"serializer:json"`
	Skills       []SkillEntry     `json:"skills" gorm:"serializer:json"`
	ContactInfo  ContactInfo      `json:"contactInfo" gorm:"serializer:json"`
	Contacts     []ContactLink    `json:"contacts" gorm:"serializer:json"`
	Artworks     []Artwork        `json:"-" gorm:"foreignKey:ArtistID"`
}

// PublicUser is the projection returned by login and register.
type PublicUser struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       UserRole  `json:"role"`
	ProfilePic *string   `json:"profilePic,omitempty"`
}

func (u *User) Public() PublicUser {
	return PublicUser{
		ID:         u.ID,
		Name:       u.Name,
		Email:      u.Email,
		Role:       u.Role,
		ProfilePic: u.ProfilePic,
	}
}

// UserRef is a read-only slice of the users table used when expanding
// artist, buyer, and seller references.
type UserRef struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Email string    `json:"email"`
}

func (UserRef) TableName() string { return "users" }
