package echoapi

import (
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/pkg/errors"

	"github.com/trezcool/shule/core"
	"github.com/trezcool/shule/core/roster"
)

var (
	// appJWTConfig is the default JWT auth middleware config. The SigningKey
	// is set from the loaded config at server setup.
	appJWTConfig = middleware.JWTConfig{
		SigningMethod: middleware.AlgorithmHS256,
		ContextKey:    "staffToken",
		Claims:        new(Claims),
	}
	contextStaffKey = "staff"
)

// Claims represents the authorization claims transmitted via a JWT.
type Claims struct {
	jwt.StandardClaims
	OrigIssuedAt  int64  `json:"oriat,omitempty"`
	Name          string `json:"name,omitempty"`
	Role          string `json:"role,omitempty"`
	AssignedClass string `json:"assigned_class,omitempty"` // -> CLASS ATTENDANCE
	IsAdmin       bool   `json:"is_admin,omitempty"`       // -> ADMIN PORTAL
}

func GetStaffClaims(s roster.Staff, origIat ...int64) *Claims {
	now := time.Now()
	nownix := now.Unix()

	var oriat int64
	if len(origIat) > 0 {
		oriat = origIat[0]
	} else {
		oriat = nownix
	}

	claims := &Claims{
		StandardClaims: jwt.StandardClaims{
			Issuer:    core.Conf.AppName,
			Subject:   s.ID,
			Audience:  "Shule",
			ExpiresAt: now.Add(core.Conf.Server.JWTExpirationDelta).Unix(),
			IssuedAt:  nownix,
		},
		OrigIssuedAt:  oriat,
		Name:          s.Name,
		Role:          string(s.Role),
		AssignedClass: string(s.AssignedClass),
		IsAdmin:       s.Role.IsAdmin(),
	}
	return claims
}

func authenticate(id, pin string, svc *roster.Service) (*Claims, error) {
	s, err := svc.GetStaffByID(id)
	if err != nil {
		if errors.Cause(err) == roster.ErrStaffNotFound {
			return nil, errAuthenticationFailed
		}
		return nil, errors.Wrap(err, "finding staff by ID")
	}
	if !s.CheckPIN(pin) {
		return nil, errAuthenticationFailed
	}
	return GetStaffClaims(s), nil
}

// GenerateToken generates a signed JWT token string representing the staff Claims.
func GenerateToken(claims *Claims) (string, error) {
	method := jwt.GetSigningMethod(appJWTConfig.SigningMethod)
	token := jwt.NewWithClaims(method, claims)

	ss, err := token.SignedString(appJWTConfig.SigningKey)
	if err != nil {
		return "", errors.New("signing token")
	}
	return ss, nil
}

func getContextClaims(ctx echo.Context) (Claims, error) {
	if token, ok := ctx.Get(appJWTConfig.ContextKey).(*jwt.Token); ok {
		if claims, ok := token.Claims.(*Claims); ok {
			return *claims, nil
		}
	}
	return Claims{}, errUnauthorized
}

func getContextStaff(ctx echo.Context, svc *roster.Service, clms ...Claims) (roster.Staff, error) {
	if s, ok := ctx.Get(contextStaffKey).(roster.Staff); ok {
		return s, nil
	}

	var claims Claims
	var err error
	if len(clms) > 0 {
		claims = clms[0]
	} else {
		claims, err = getContextClaims(ctx)
		if err != nil {
			return roster.Staff{}, errors.Wrap(err, "getting context claims")
		}
	}

	s, err := svc.GetStaffByID(claims.Subject)
	if err != nil {
		return roster.Staff{}, errors.Wrap(err, "finding staff by ID")
	}
	ctx.Set(contextStaffKey, s)
	return s, nil
}

func refreshToken(ctx echo.Context, svc *roster.Service) (string, error) {
	claims, err := getContextClaims(ctx)
	if err != nil {
		return "", errors.Wrap(err, "getting context claims")
	}

	s, err := getContextStaff(ctx, svc, claims)
	if err != nil {
		return "", errors.Wrap(err, "getting context staff")
	}

	// check if refresh has not expired
	expTime := time.Unix(claims.OrigIssuedAt, 0).Add(core.Conf.Server.JWTRefreshExpirationDelta)
	if time.Now().After(expTime) {
		return "", errRefreshExpired
	}

	newClaims := GetStaffClaims(s, claims.OrigIssuedAt)
	token, err := GenerateToken(newClaims)
	return token, errors.Wrap(err, "generating token")
}
