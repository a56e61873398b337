package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityAccess                      // Access token required
)

// EndpointSecurityConfig maps "METHOD route-template" to the required level.
// Routes missing from the map require an access token.
var EndpointSecurityConfig = map[string]SecurityLevel{
	"POST /api/v1/auth/register":       SecurityPublic,
	"POST /api/v1/auth/login":          SecurityPublic,
	"GET /api/v1/health":               SecurityPublic,
	"GET /api/v1/properties/available": SecurityPublic,
	"GET /uploads/{key:.+}":            SecurityPublic,
}

// GetSecurityLevel returns the security level required by the route.
func GetSecurityLevel(method, pathTemplate string) SecurityLevel {
	if level, ok := EndpointSecurityConfig[method+" "+pathTemplate]; ok {
		return level
	}
	return SecurityAccess
}
