package auth

type (
	SignUpRequest struct {
		Email       string  `json:"email"`
		Password    string  `json:"password"`
		PhoneNumber *string `json:"phoneNumber,omitempty"`
	}
	LoginRequest struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	TokenResponse struct {
		AccessToken string `json:"access_token"`
		TokenType   string `json:"token_type"`
		ExpiresIn   int    `json:"expires_in"`
	}
)
