package utils

const (
	OrganizationName                      = "Kabadi"
	CORSLowSecurityAllowedOriginLocalhost = "http://localhost:*"

	EnvProduction  = "production"
	EnvDevelopment = "development"
)
