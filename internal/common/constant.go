package common

// AccessTokenHeaderName is the HTTP header used to carry the access token on
// authenticated requests.
const AccessTokenHeaderName = "Authorization"

// Roles stored on profile rows. Installers scan and record vehicles; admins
// additionally manage the catalog and purchase orders.
const (
	RoleAdmin     = "admin"
	RoleInstaller = "installer"
)
