package validation

import (
	"fmt"
	"strings"
	"time"

	"github.com/artmarket/backend/internal/models"
)

// Closed enumerations for artwork attributes. Inputs are Title Cased before
// being matched against these.
var (
	Mediums = []string{
		"Canvas", "Paper", "Wood", "Metal", "Glass",
		"Fabric", "Stone", "Ceramic", "Digital", "Plastic",
	}
	Sizes  = []string{"Small", "Medium", "Large"}
	Styles = []string{
		"Abstract", "Figurative", "Expressionism", "Impressionism",
		"Fine Art", "Contemporary", "Modern", "Classical",
	}
	Techniques = []string{
		"Oil Painting", "Watercolor", "Acrylic", "Digital", "Charcoal",
		"Ink", "Mixed Media", "Collage", "Spray Paint", "Pastel",
	}
)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

func Registration(in *RegisterInput) []FieldError {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = NormalizeEmail(in.Email)

	v := New()
	v.PersonName("name", in.Name)
	if v.Email("email", in.Email) {
		v.Length("email", in.Email, 0, 100, "Email is too long")
	}
	v.Length("password", in.Password, 8, 128, "Password must be between 8 and 128 characters")
	v.OneOf("role", in.Role, []string{"buyer", "seller"}, "Role must be either buyer or seller")
	return v.Errors()
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func Login(in *LoginInput) []FieldError {
	in.Email = NormalizeEmail(in.Email)

	v := New()
	v.Email("email", in.Email)
	v.Check("password", in.Password != "", "Password is required")
	return v.Errors()
}

type ArtworkCreateInput struct {
	Title       string  `json:"title" form:"title"`
	Description string  `json:"description" form:"description"`
	Category    string  `json:"category" form:"category"`
	Price       float64 `json:"price" form:"price"`
	Medium      string  `json:"medium" form:"medium"`
	Size        string  `json:"size" form:"size"`
	Style       string  `json:"style" form:"style"`
	Technique   string  `json:"technique" form:"technique"`
	ImageURL    string  `json:"imageUrl" form:"imageUrl"`
}

func ArtworkCreation(in *ArtworkCreateInput) []FieldError {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)
	in.Category = strings.TrimSpace(in.Category)
	in.Medium = TitleCase(in.Medium)
	in.Size = TitleCase(in.Size)
	in.Style = TitleCase(in.Style)
	in.Technique = TitleCase(in.Technique)

	v := New()
	v.Length("title", in.Title, 1, 100, "Title must be between 1 and 100 characters")
	v.Length("description", in.Description, 10, 1000, "Description must be between 10 and 1000 characters")
	v.FloatRange("price", in.Price, 0.01, 1000000, "Price must be a positive number between 0.01 and 1,000,000")
	v.OneOf("medium", in.Medium, Mediums, "Invalid medium selected")
	v.OneOf("size", in.Size, Sizes, "Invalid size selected")
	v.OneOf("style", in.Style, Styles, "Invalid style selected")
	v.OneOf("technique", in.Technique, Techniques, "Invalid technique selected")

	in.Title = Escape(in.Title)
	in.Description = Escape(in.Description)
	return v.Errors()
}

type ArtworkUpdateInput struct {
	Title       *string  `json:"title" form:"title"`
	Description *string  `json:"description" form:"description"`
	Category    *string  `json:"category" form:"category"`
	Price       *float64 `json:"price" form:"price"`
	ImageURL    *string  `json:"imageUrl" form:"imageUrl"`
}

func ArtworkUpdate(in *ArtworkUpdateInput) []FieldError {
	v := New()
	if in.Title != nil {
		trimmed := strings.TrimSpace(*in.Title)
		v.Length("title", trimmed, 1, 100, "Title must be between 1 and 100 characters")
		escaped := Escape(trimmed)
		in.Title = &escaped
	}
	if in.Description != nil {
		trimmed := strings.TrimSpace(*in.Description)
		v.Length("description", trimmed, 10, 1000, "Description must be between 10 and 1000 characters")
		escaped := Escape(trimmed)
		in.Description = &escaped
	}
	if in.Price != nil {
		v.FloatRange("price", *in.Price, 0.01, 1000000, "Price must be a positive number between 0.01 and 1,000,000")
	}
	return v.Errors()
}

type ArtworkQueryInput struct {
	Artist    string
	Medium    string
	Size      string
	Style     string
	Technique string
	Price     string
}

func ArtworkQuery(in *ArtworkQueryInput) []FieldError {
	v := New()
	if in.Medium != "" {
		v.OneOf("medium", TitleCase(in.Medium), Mediums, "Invalid medium filter")
	}
	if in.Size != "" {
		v.OneOf("size", TitleCase(in.Size), Sizes, "Invalid size filter")
	}
	if in.Style != "" {
		v.OneOf("style", TitleCase(in.Style), Styles, "Invalid style filter")
	}
	if in.Technique != "" {
		v.OneOf("technique", TitleCase(in.Technique), Techniques, "Invalid technique filter")
	}
	return v.Errors()
}

type PurchaseInput struct {
	ArtworkID  string `json:"artworkId"`
	BuyerName  string `json:"buyerName"`
	BuyerEmail string `json:"buyerEmail"`
}

func PurchaseCreation(in *PurchaseInput) []FieldError {
	in.BuyerName = strings.TrimSpace(in.BuyerName)
	in.BuyerEmail = NormalizeEmail(in.BuyerEmail)

	v := New()
	v.Check("artworkId", strings.TrimSpace(in.ArtworkID) != "", "Invalid artwork ID")
	if in.BuyerName != "" {
		v.Length("buyerName", in.BuyerName, 2, 50, "Buyer name must be between 2 and 50 characters")
		in.BuyerName = Escape(in.BuyerName)
	}
	if in.BuyerEmail != "" {
		v.Email("buyerEmail", in.BuyerEmail)
	}
	return v.Errors()
}

type ProfileUpdateInput struct {
	Name       *string `json:"name" form:"name"`
	Headline   *string `json:"headline" form:"headline"`
	ProfilePic *string `json:"profilePic" form:"profilePic"`
}

func ProfileUpdate(in *ProfileUpdateInput) []FieldError {
	v := New()
	if in.Name != nil {
		trimmed := strings.TrimSpace(*in.Name)
		v.PersonName("name", trimmed)
		in.Name = &trimmed
	}
	if in.Headline != nil {
		trimmed := strings.TrimSpace(*in.Headline)
		v.Length("headline", trimmed, 5, 200, "Headline must be between 5 and 200 characters")
		escaped := Escape(trimmed)
		in.Headline = &escaped
	}
	return v.Errors()
}

func Education(entries []models.EducationEntry) []FieldError {
	v := New()
	v.Check("education", len(entries) <= 10, "Education must be an array with maximum 10 entries")
	for i := range entries {
		entry := &entries[i]
		entry.Country = Escape(strings.TrimSpace(entry.Country))
		entry.University = Escape(strings.TrimSpace(entry.University))
		entry.Degree = Escape(strings.TrimSpace(entry.Degree))
		entry.Major = Escape(strings.TrimSpace(entry.Major))

		v.Length(field(i, "education", "country"), entry.Country, 2, 50, "Country must be between 2 and 50 characters")
		v.Length(field(i, "education", "university"), entry.University, 2, 100, "University must be between 2 and 100 characters")
		v.Length(field(i, "education", "degree"), entry.Degree, 2, 100, "Degree must be between 2 and 100 characters")
		v.Length(field(i, "education", "major"), entry.Major, 2, 100, "Major must be between 2 and 100 characters")
		v.IntStringRange(field(i, "education", "graduationYear"), entry.GraduationYear, 1950, maxGraduationYear(), "Graduation year is out of range")
	}
	return v.Errors()
}

func Skills(entries []models.SkillEntry) []FieldError {
	v := New()
	v.Check("skills", len(entries) <= 20, "Skills must be an array with maximum 20 entries")
	for i := range entries {
		entry := &entries[i]
		entry.Name = Escape(strings.TrimSpace(entry.Name))
		entry.Description = Escape(strings.TrimSpace(entry.Description))

		v.Length(field(i, "skills", "name"), entry.Name, 2, 50, "Skill name must be between 2 and 50 characters")
		if entry.Description != "" {
			v.Length(field(i, "skills", "description"), entry.Description, 5, 200, "Skill description must be between 5 and 200 characters")
		}
		v.IntRange(field(i, "skills", "efficiency"), entry.Efficiency, 0, 100, "Efficiency must be between 0 and 100")
	}
	return v.Errors()
}

func ContactInfo(info *models.ContactInfo) []FieldError {
	v := New()
	info.Email = NormalizeEmail(info.Email)
	info.Linkedin = strings.TrimSpace(info.Linkedin)
	info.Portfolio = strings.TrimSpace(info.Portfolio)
	info.Whatsapp = strings.TrimSpace(info.Whatsapp)
	info.Instagram = strings.TrimSpace(info.Instagram)

	if info.Email != "" {
		v.Email("contactInfo.email", info.Email)
	}
	if info.Whatsapp != "" {
		v.Phone("contactInfo.whatsapp", info.Whatsapp)
	}
	if info.Linkedin != "" {
		v.Length("contactInfo.linkedin", info.Linkedin, 5, 200, "LinkedIn URL must be reasonable length")
	}
	if info.Portfolio != "" {
		v.Length("contactInfo.portfolio", info.Portfolio, 5, 200, "Portfolio URL must be reasonable length")
	}
	if info.Instagram != "" {
		v.Length("contactInfo.instagram", info.Instagram, 2, 200, "Instagram handle/URL must be reasonable length")
	}
	return v.Errors()
}

func ContactLinks(links []models.ContactLink) []FieldError {
	v := New()
	for i := range links {
		link := &links[i]
		link.Value = strings.TrimSpace(link.Value)
		v.Check(field(i, "contacts", "type"), link.Type.Valid(), "Invalid contact link type")
		v.Check(field(i, "contacts", "value"), link.Value != "", "Contact link value is required")
	}
	return v.Errors()
}

func maxGraduationYear() int {
	return time.Now().Year() + 10
}

func field(index int, prefix, name string) string {
	return fmt.Sprintf("%s[%d].%s", prefix, index, name)
}
