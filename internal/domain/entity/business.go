package entity

// BusinessProfile identidad del negocio emisor (perfil del usuario actual).
type BusinessProfile struct {
	ID              string
	BusinessName    string
	BusinessAddress string
	BusinessPhone   string
	BusinessEmail   string
}
