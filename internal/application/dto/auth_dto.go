package dto

// RegisterRequest Body für POST /api/auth/register. Legt den Benutzer und
// dessen Mandanten (Firma) in einem Schritt an.
type RegisterRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	CompanyName string `json:"company_name"`
}

// LoginRequest Body für POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse Token plus Kontext des angemeldeten Benutzers.
type AuthResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"user_id"`
	TenantID string `json:"tenant_id"`
	Email    string `json:"email"`
}
