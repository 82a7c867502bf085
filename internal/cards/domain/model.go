package domain

import "time"

// Profile is a contact-detail set owned by a user. It is storage-agnostic
// and shared across the repository and HTTP layers.
type Profile struct {
	PublicID   string    `json:"public_id"`
	Slug       string    `json:"slug"`
	Prefix     string    `json:"prefix,omitempty"`
	FirstName  string    `json:"first_name"`
	LastName   string    `json:"last_name"`
	Title      string    `json:"title,omitempty"`
	Company    string    `json:"company,omitempty"`
	Department string    `json:"department,omitempty"`
	Email      string    `json:"email,omitempty"`
	Phone      string    `json:"phone,omitempty"`
	Website    string    `json:"website,omitempty"`
	Address    string    `json:"address,omitempty"`
	Bio        string    `json:"bio,omitempty"`
	IsDefault  bool      `json:"is_default"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// Design is a visual variant of a profile. The presentation fields are
// opaque to the backend; the frontend renders them.
type Design struct {
	PublicID        string    `json:"public_id"`
	ProfilePublicID string    `json:"profile_id"`
	Name            string    `json:"name,omitempty"`
	Template        string    `json:"template,omitempty"`
	ColorScheme     string    `json:"color_scheme,omitempty"`
	Font            string    `json:"font,omitempty"`
	Layout          string    `json:"layout,omitempty"`
	LogoURL         string    `json:"logo_url,omitempty"`
	IsPrimary       bool      `json:"is_primary"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// PublicCard is what the unauthenticated share link returns: the profile's
// contact fields plus its primary design, if one is set.
type PublicCard struct {
	Profile Profile `json:"profile"`
	Design  *Design `json:"design,omitempty"`
}

// ProfilePatch carries a partial update. Nil fields leave the stored value
// untouched.
type ProfilePatch struct {
	Prefix     *string `json:"prefix"`
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Title      *string `json:"title"`
	Company    *string `json:"company"`
	Department *string `json:"department"`
	Email      *string `json:"email"`
	Phone      *string `json:"phone"`
	Website    *string `json:"website"`
	Address    *string `json:"address"`
	Bio        *string `json:"bio"`
	IsDefault  *bool   `json:"is_default"`
}

// Empty reports whether the patch changes nothing.
func (p ProfilePatch) Empty() bool {
	return p.Prefix == nil && p.FirstName == nil && p.LastName == nil &&
		p.Title == nil && p.Company == nil && p.Department == nil &&
		p.Email == nil && p.Phone == nil && p.Website == nil &&
		p.Address == nil && p.Bio == nil && p.IsDefault == nil
}

// DesignPatch carries a partial update for a design.
type DesignPatch struct {
	ProfilePublicID *string `json:"profile_id"`
	Name            *string `json:"name"`
	Template        *string `json:"template"`
	ColorScheme     *string `json:"color_scheme"`
	Font            *string `json:"font"`
	Layout          *string `json:"layout"`
	LogoURL         *string `json:"logo_url"`
	IsPrimary       *bool   `json:"is_primary"`
}

func (p DesignPatch) Empty() bool {
	return p.ProfilePublicID == nil && p.Name == nil && p.Template == nil &&
		p.ColorScheme == nil && p.Font == nil && p.Layout == nil &&
		p.LogoURL == nil && p.IsPrimary == nil
}
