package response

import "github.com/NiksFok/conf-bot/internal/domain"

type RegisterResponse struct {
	User  domain.User `json:"user"`
	Token string      `json:"token"`
}
