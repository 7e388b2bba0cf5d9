package auth

import svc "github.com/JVC-Brevium/MultiTenant-Supabase-Auth/internal/http/services/auth"

type Controllers struct {
	ClientToken *ClientTokenController
	Identity    *IdentityController
}

func NewControllers(s svc.Services) *Controllers {
	return &Controllers{
		ClientToken: NewClientTokenController(s.ClientToken),
		Identity:    NewIdentityController(s),
	}
}
