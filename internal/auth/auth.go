package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/golang-jwt/jwt/v5"
	"github.com/jackc/pgx/v5"

	"github.com/ojlab/judged/internal/store"
)

// ErrTokenMissing means the Authorization header was absent or not a
// two-part "Bearer <token>" value.
var ErrTokenMissing = errors.New("token missing")

// ErrTokenInvalid covers every verification failure: bad signature, wrong
// algorithm, expired or malformed token, missing subject claim, or a subject
// that resolves to no known user. Callers report it as one class; the
// wrapped cause is for logs only.
var ErrTokenInvalid = errors.New("token invalid")

// Verifier validates bearer tokens signed with the shared HS256 secret and
// resolves them to users.
type Verifier struct {
	secret  []byte
	queries store.Querier
}

func NewVerifier(secret []byte, queries store.Querier) *Verifier {
	return &Verifier{secret: secret, queries: queries}
}

// Verify parses the Authorization header value and returns the user named by
// the token's user_id claim.
func (v *Verifier) Verify(ctx context.Context, header string) (*store.User, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 {
		return nil, ErrTokenMissing
	}

	token, err := jwt.Parse(parts[1], func(t *jwt.Token) (interface{}, error) {
		return v.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	if err != nil {
		// Each failure category is named so it can be logged, but all of
		// them report as ErrTokenInvalid to the caller.
		switch {
		case errors.Is(err, jwt.ErrTokenMalformed):
			return nil, fmt.Errorf("%w: malformed: %v", ErrTokenInvalid, err)
		case errors.Is(err, jwt.ErrTokenExpired):
			return nil, fmt.Errorf("%w: expired: %v", ErrTokenInvalid, err)
		case errors.Is(err, jwt.ErrTokenSignatureInvalid):
			return nil, fmt.Errorf("%w: bad signature: %v", ErrTokenInvalid, err)
		case errors.Is(err, jwt.ErrTokenUnverifiable):
			return nil, fmt.Errorf("%w: unverifiable: %v", ErrTokenInvalid, err)
		default:
			return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
		}
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return nil, fmt.Errorf("%w: unexpected claims type", ErrTokenInvalid)
	}
	rawID, ok := claims["user_id"]
	if !ok {
		return nil, fmt.Errorf("%w: no user_id claim", ErrTokenInvalid)
	}
	idNum, ok := rawID.(float64) // JSON numbers decode as float64
	if !ok {
		return nil, fmt.Errorf("%w: user_id claim is not a number", ErrTokenInvalid)
	}

	user, err := v.queries.GetUserByID(ctx, int64(idNum))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			// A verified token naming an unknown user is reported the same
			// as a forged one.
			return nil, fmt.Errorf("%w: unknown user %d", ErrTokenInvalid, int64(idNum))
		}
		return nil, err
	}
	return &user, nil
}
