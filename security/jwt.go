package security

import (
	"errors"
	"github.com/golang-jwt/jwt/v5"
	"real-time-dm-api/config/common"
	"time"
)

const (
	claimUserID = "user_id"
	audience    = "real-time-dm-api"
)

var ErrMissingUserID = errors.New("token carries no user id")

// JWT validates the session tokens issued by the authentication service.
type JWT struct {
	config *common.Config
}

func NewJWT(config *common.Config) *JWT {
	return &JWT{config: config}
}

// GenerateToken signs a token for userID. Tokens are normally issued by the
// authentication service; this is used by tooling and tests.
func (j *JWT) GenerateToken(userID string, ttl time.Duration) (string, error) {
	secretKey := j.config.GetJwtConfig()

	claims := jwt.MapClaims{
		claimUserID: userID,
		"aud":       audience,
		"iss":       audience,
		"iat":       time.Now().Unix(),
		"exp":       time.Now().Add(ttl).Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS512, claims)
	return token.SignedString(secretKey)
}

func (j *JWT) VerifyJwtToken(token string) (jwt.MapClaims, error) {
	secretKey := j.config.GetJwtConfig()

	tokenParse, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return secretKey, nil
	})

	if err != nil {
		return nil, err
	}

	if claims, ok := tokenParse.Claims.(jwt.MapClaims); ok && tokenParse.Valid {
		return claims, nil
	}

	return nil, jwt.ErrTokenInvalidClaims
}

func (j *JWT) GetUserIdFromToken(token string) (string, error) {
	claims, err := j.VerifyJwtToken(token)
	if err != nil {
		return "", err
	}
	return UserIDFromClaims(claims)
}

func UserIDFromClaims(claims jwt.Claims) (string, error) {
	mapClaims, ok := claims.(jwt.MapClaims)
	if !ok {
		return "", ErrMissingUserID
	}
	userID, ok := mapClaims[claimUserID].(string)
	if !ok || userID == "" {
		return "", ErrMissingUserID
	}
	return userID, nil
}
