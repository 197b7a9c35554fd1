package domain

import (
	"context"
	"strings"
	"time"
)

// Owner is the slice of the owning Identity joined into profile responses.
type Owner struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Avatar string `json:"avatar"`
}

type Social struct {
	Youtube   string `json:"youtube,omitempty"`
	Twitter   string `json:"twitter,omitempty"`
	Facebook  string `json:"facebook,omitempty"`
	Linkedin  string `json:"linkedin,omitempty"`
	Instagram string `json:"instagram,omitempty"`
}

// Merge copies every non-empty link of other over s.
func (s *Social) Merge(other Social) {
	if other.Youtube != "" {
		s.Youtube = other.Youtube
	}
	if other.Twitter != "" {
		s.Twitter = other.Twitter
	}
	if other.Facebook != "" {
		s.Facebook = other.Facebook
	}
	if other.Linkedin != "" {
		s.Linkedin = other.Linkedin
	}
	if other.Instagram != "" {
		s.Instagram = other.Instagram
	}
}

func (s Social) IsZero() bool {
	return s == Social{}
}

type Experience struct {
	ID          string     `json:"id"`
	Title       string     `json:"title"`
	Company     string     `json:"company"`
	Location    string     `json:"location,omitempty"`
	From        time.Time  `json:"from"`
	To          *time.Time `json:"to"`
	Current     bool       `json:"current"`
	Description string     `json:"description,omitempty"`
}

type Education struct {
	ID           string     `json:"id"`
	School       string     `json:"school"`
	Degree       string     `json:"degree"`
	FieldOfStudy string     `json:"fieldofstudy"`
	From         time.Time  `json:"from"`
	To           *time.Time `json:"to"`
	Current      bool       `json:"current"`
	Description  string     `json:"description,omitempty"`
}

// Profile is the public record of one account. Experience and Education are
// kept most recent first.
type Profile struct {
	ID         string       `json:"id"`
	User       Owner        `json:"user"`
	Handle     string       `json:"handle"`
	Company    string       `json:"company,omitempty"`
	Website    string       `json:"website,omitempty"`
	Location   string       `json:"location,omitempty"`
	Bio        string       `json:"bio,omitempty"`
	Status     string       `json:"status"`
	Skills     []string     `json:"skills"`
	Social     Social       `json:"social"`
	Experience []Experience `json:"experience"`
	Education  []Education  `json:"education"`
	CreatedAt  time.Time    `json:"date"`
	UpdatedAt  time.Time    `json:"updated_at"`
}

func (p *Profile) AddExperience(e Experience) {
	p.Experience = append([]Experience{e}, p.Experience...)
}

func (p *Profile) AddEducation(e Education) {
	p.Education = append([]Education{e}, p.Education...)
}

// RemoveExperience drops the entry with the given id. An unknown id leaves
// the list untouched and reports false.
func (p *Profile) RemoveExperience(id string) bool {
	for i := range p.Experience {
		if p.Experience[i].ID == id {
			p.Experience = append(p.Experience[:i], p.Experience[i+1:]...)
			return true
		}
	}
	return false
}

// RemoveEducation drops the entry with the given id. An unknown id leaves
// the list untouched and reports false.
func (p *Profile) RemoveEducation(id string) bool {
	for i := range p.Education {
		if p.Education[i].ID == id {
			p.Education = append(p.Education[:i], p.Education[i+1:]...)
			return true
		}
	}
	return false
}

// ProfileFields is a partial update. A nil pointer (or nil Skills, or an
// empty Social link) means the field was not submitted and is kept as is.
type ProfileFields struct {
	Handle   *string
	Company  *string
	Website  *string
	Location *string
	Bio      *string
	Status   *string
	Skills   []string
	Social   Social
}

// Apply writes the submitted fields onto p.
func (f ProfileFields) Apply(p *Profile) {
	assign(&p.Handle, f.Handle)
	assign(&p.Company, f.Company)
	assign(&p.Website, f.Website)
	assign(&p.Location, f.Location)
	assign(&p.Bio, f.Bio)
	assign(&p.Status, f.Status)
	if f.Skills != nil {
		p.Skills = f.Skills
	}
	p.Social.Merge(f.Social)
}

func assign(dst *string, src *string) {
	if src != nil {
		*dst = *src
	}
}

// ParseSkills splits a comma separated list exactly as submitted; entries are
// not trimmed.
func ParseSkills(s string) []string {
	return strings.Split(s, ",")
}

// ProfileInput is the create-or-update payload.
type ProfileInput struct {
	Handle    string `json:"handle" form:"handle" validate:"required,min=2,max=40"`
	Company   string `json:"company" form:"company"`
	Website   string `json:"website" form:"website" validate:"omitempty,loose_url"`
	Location  string `json:"location" form:"location"`
	Bio       string `json:"bio" form:"bio"`
	Status    string `json:"status" form:"status" validate:"required"`
	Skills    string `json:"skills" form:"skills" validate:"required"`
	Youtube   string `json:"youtube" form:"youtube" validate:"omitempty,loose_url"`
	Twitter   string `json:"twitter" form:"twitter" validate:"omitempty,loose_url"`
	Facebook  string `json:"facebook" form:"facebook" validate:"omitempty,loose_url"`
	Linkedin  string `json:"linkedin" form:"linkedin" validate:"omitempty,loose_url"`
	Instagram string `json:"instagram" form:"instagram" validate:"omitempty,loose_url"`
}

// Fields keeps only what was actually submitted; empty strings count as absent.
func (in ProfileInput) Fields() ProfileFields {
	f := ProfileFields{
		Handle:   present(in.Handle),
		Company:  present(in.Company),
		Website:  present(in.Website),
		Location: present(in.Location),
		Bio:      present(in.Bio),
		Status:   present(in.Status),
		Social: Social{
			Youtube:   in.Youtube,
			Twitter:   in.Twitter,
			Facebook:  in.Facebook,
			Linkedin:  in.Linkedin,
			Instagram: in.Instagram,
		},
	}
	if in.Skills != "" {
		f.Skills = ParseSkills(in.Skills)
	}
	return f
}

func present(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

type ExperienceInput struct {
	Title       string `json:"title" form:"title" validate:"required"`
	Company     string `json:"company" form:"company" validate:"required"`
	Location    string `json:"location" form:"location"`
	From        string `json:"from" form:"from" validate:"required,valid_date"`
	To          string `json:"to" form:"to" validate:"omitempty,valid_date"`
	Current     bool   `json:"current" form:"current"`
	Description string `json:"description" form:"description"`
}

type EducationInput struct {
	School       string `json:"school" form:"school" validate:"required"`
	Degree       string `json:"degree" form:"degree" validate:"required"`
	FieldOfStudy string `json:"fieldofstudy" form:"fieldofstudy" validate:"required"`
	From         string `json:"from" form:"from" validate:"required,valid_date"`
	To           string `json:"to" form:"to" validate:"omitempty,valid_date"`
	Current      bool   `json:"current" form:"current"`
	Description  string `json:"description" form:"description"`
}

type ProfileRepository interface {
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	GetByHandle(ctx context.Context, handle string) (*Profile, error)
	List(ctx context.Context) ([]Profile, error)
	Create(ctx context.Context, profile *Profile) error
	Update(ctx context.Context, userID string, fields ProfileFields) (*Profile, error)
	SaveEntries(ctx context.Context, profile *Profile) error
	DeleteByUserID(ctx context.Context, userID string) error
}

type ProfileUsecase interface {
	// Public operations
	ListProfiles(ctx context.Context) ([]Profile, error)
	GetByHandle(ctx context.Context, handle string) (*Profile, error)
	GetByUserID(ctx context.Context, userID string) (*Profile, error)
	// Owner operations (protected)
	GetOwnProfile(ctx context.Context, userID string) (*Profile, error)
	SaveProfile(ctx context.Context, userID string, input ProfileInput) (*Profile, error)
	AddExperience(ctx context.Context, userID string, input ExperienceInput) (*Profile, error)
	AddEducation(ctx context.Context, userID string, input EducationInput) (*Profile, error)
	RemoveExperience(ctx context.Context, userID, experienceID string) (*Profile, error)
	RemoveEducation(ctx context.Context, userID, educationID string) (*Profile, error)
	DeleteAccount(ctx context.Context, userID string) error
}
