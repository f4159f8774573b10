package dto

// swagger:model
type RegisterRequest struct {
	Nickname string `json:"nickname" example:"shadowfan"`
	Password string `json:"password" example:"secret"`
	Telegram string `json:"telegram,omitempty" example:"@shadowfan"`
	SiteURL  string `json:"site_url,omitempty" example:"https://shadow.example"`
}

// swagger:model
type LoginRequest struct {
	Nickname string `json:"nickname" example:"shadowfan"`
	Password string `json:"password" example:"secret"`
}

// swagger:model
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" example:"eyJhbGciOiJIUzI1NiJ9..."`
}

// swagger:model
type SessionRequest struct {
	Nickname string `json:"nickname" example:"shadowfan"`
	Telegram string `json:"telegram,omitempty" example:"@shadowfan"`
	SiteURL  string `json:"site_url,omitempty" example:"https://shadow.example"`
}
