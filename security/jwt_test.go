package security

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
	"real-time-dm-api/config/common"
)

func newJWT(secret string) *JWT {
	v := viper.New()
	v.Set("JWT_SECRET", secret)
	return NewJWT(common.NewConfig(v))
}

func TestJWT_RoundTrip(t *testing.T) {
	req := require.New(t)
	j := newJWT("secret")

	token, err := j.GenerateToken("u1", time.Hour)
	req.NoError(err)

	userID, err := j.GetUserIdFromToken(token)
	req.NoError(err)
	req.Equal("u1", userID)
}

func TestJWT_Rejects_Other_Secret(t *testing.T) {
	req := require.New(t)
	token, err := newJWT("secret").GenerateToken("u1", time.Hour)
	req.NoError(err)

	_, err = newJWT("other").GetUserIdFromToken(token)
	req.Error(err)
}

func TestJWT_Rejects_Expired(t *testing.T) {
	req := require.New(t)
	j := newJWT("secret")
	token, err := j.GenerateToken("u1", -time.Minute)
	req.NoError(err)

	_, err = j.GetUserIdFromToken(token)
	req.ErrorIs(err, jwt.ErrTokenExpired)
}

func TestUserIDFromClaims_Missing(t *testing.T) {
	req := require.New(t)
	_, err := UserIDFromClaims(jwt.MapClaims{"sub": "u1"})
	req.ErrorIs(err, ErrMissingUserID)
	_, err = UserIDFromClaims(&jwt.RegisteredClaims{})
	req.ErrorIs(err, ErrMissingUserID)
}
