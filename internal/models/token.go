package models

type TokenPair struct {
	AccessToken  string
	RefreshToken string
	TokenType    string
}
