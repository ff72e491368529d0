package usecase

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"
)

const (
	AdminSubject = "admin"
	AdminRole    = "ADMIN"
)

// JWTを発行する約束
type AccessTokenIssuer interface {
	Issue(subject string, role string, now time.Time) (token string, expiresAt time.Time, err error)
}

// 入力パスコードと保存したハッシュを比べる約束
type PasswordVerifier interface {
	Verify(plain string, hashed string) bool
}

// bcryptハッシュと平文を比較
type BcryptPasswordVerifier struct{}

func NewBcryptPasswordVerifier() *BcryptPasswordVerifier {
	return &BcryptPasswordVerifier{}
}

func (v *BcryptPasswordVerifier) Verify(plain string, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}

type AdminSessionOutput struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"`
}

type AdminSessionUsecase struct {
	passcodeHash string
	verifier     PasswordVerifier
	issuer       AccessTokenIssuer
	clock        Clock
	logger       *slog.Logger
}

func NewAdminSessionUsecase(
	passcodeHash string,
	verifier PasswordVerifier,
	issuer AccessTokenIssuer,
	clock Clock,
	logger *slog.Logger,
) *AdminSessionUsecase {
	return &AdminSessionUsecase{
		passcodeHash: passcodeHash,
		verifier:     verifier,
		issuer:       issuer,
		clock:        clock,
		logger:       logger,
	}
}

// Login はパスコードが合えば管理者用のアクセストークンを返す。
func (u *AdminSessionUsecase) Login(ctx context.Context, passcode string) (AdminSessionOutput, error) {
	if strings.TrimSpace(passcode) == "" || len(passcode) > 128 {
		return AdminSessionOutput{}, NewHTTPError(http.StatusBadRequest, "passcode required")
	}
	if !u.verifier.Verify(passcode, u.passcodeHash) {
		u.logger.Warn("admin login failed")
		return AdminSessionOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid passcode")
	}

	now := u.clock.Now()
	token, exp, err := u.issuer.Issue(AdminSubject, AdminRole, now)
	if err != nil {
		return AdminSessionOutput{}, NewHTTPError(http.StatusInternalServerError, "token error")
	}

	return AdminSessionOutput{
		AccessToken: token,
		ExpiresIn:   int(exp.Sub(now).Seconds()),
	}, nil
}
