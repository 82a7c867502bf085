package http

type createProfileReq struct {
	Prefix     string `json:"prefix"`
	FirstName  string `json:"first_name"`
	LastName   string `json:"last_name"`
	Title      string `json:"title"`
	Company    string `json:"company"`
	Department string `json:"department"`
	Email      string `json:"email"`
	Phone      string `json:"phone"`
	Website    string `json:"website"`
	Address    string `json:"address"`
	Bio        string `json:"bio"`
	IsDefault  bool   `json:"is_default"`
}

type createDesignReq struct {
	ProfileID   string `json:"profile_id"`
	Name        string `json:"name"`
	Template    string `json:"template"`
	ColorScheme string `json:"color_scheme"`
	Font        string `json:"font"`
	Layout      string `json:"layout"`
	LogoURL     string `json:"logo_url"`
	IsPrimary   bool   `json:"is_primary"`
}
