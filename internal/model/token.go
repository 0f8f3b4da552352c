package model

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// TokenManager signs and validates access/refresh tokens.
type TokenManager interface {
	GenerateAccessToken(user User) (string, error)
	GenerateRefreshToken(userID primitive.ObjectID) (string, error)
	ParseAccessToken(token string) (Actor, error)
	ParseRefreshToken(token string) (primitive.ObjectID, error)
}

// TokenPair is the result of issuing or rotating a session.
type TokenPair struct {
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
