package usecase

import (
	"context"
	"net/http"
	"net/mail"
	"strings"
	"time"

	"app/internal/domain/model"
	repo "app/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

// アクセストークンを発行する約束（実装はmain側のJWT issuer）
type TokenIssuer interface {
	Issue(userID string, role model.Role, tokenVersion int, now time.Time) (string, time.Time, error)
}

type AuthUsecase struct {
	users  repo.UserRepository
	issuer TokenIssuer
	idGen  IDGenerator
	clock  Clock
	cost   int
}

func NewAuthUsecase(users repo.UserRepository, issuer TokenIssuer, idGen IDGenerator, clock Clock) *AuthUsecase {
	return &AuthUsecase{users: users, issuer: issuer, idGen: idGen, clock: clock, cost: bcrypt.DefaultCost}
}

type RegisterInput struct {
	Email    string
	Password string
}

type UserOutput struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type LoginInput struct {
	Email    string
	Password string
}

type LoginOutput struct {
	Token     string     `json:"token"`
	ExpiresAt time.Time  `json:"expires_at"`
	User      UserOutput `json:"user"`
}

// Register は会員登録。email形式・最低8文字・重複チェック。
func (u *AuthUsecase) Register(ctx context.Context, in RegisterInput) (UserOutput, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || !isEmailLike(email) {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "invalid email")
	}
	if len(in.Password) < 8 {
		return UserOutput{}, NewHTTPError(http.StatusBadRequest, "password too short")
	}

	existing, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if existing != nil {
		return UserOutput{}, NewHTTPError(http.StatusConflict, "email already used")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), u.cost)
	if err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	now := u.clock.Now()
	user := &model.User{
		ID:           u.idGen.NewID(),
		Email:        email,
		PasswordHash: string(hashed),
		Role:         model.RoleUser,
		TokenVersion: 0,
		IsActive:     true,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := u.users.Create(ctx, user); err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return toUserOutput(user), nil
}

// Login は認証してアクセストークンを返す。失敗理由は出し分けない（401で統一）。
func (u *AuthUsecase) Login(ctx context.Context, in LoginInput) (LoginOutput, error) {
	email := strings.TrimSpace(in.Email)
	if email == "" || in.Password == "" {
		return LoginOutput{}, NewHTTPError(http.StatusBadRequest, "email and password are required")
	}

	user, err := u.users.FindByEmail(ctx, email)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil || !user.IsActive {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(in.Password)); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusUnauthorized, "invalid credentials")
	}

	now := u.clock.Now()
	token, expiresAt, err := u.issuer.Issue(user.ID, user.Role, user.TokenVersion, now)
	if err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "internal error")
	}

	user.LastLoginAt = &now
	if err := u.users.Update(ctx, user); err != nil {
		return LoginOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}

	return LoginOutput{Token: token, ExpiresAt: expiresAt, User: toUserOutput(user)}, nil
}

// Logout はtoken_versionを進めて既発行トークンを全部無効にする。
func (u *AuthUsecase) Logout(ctx context.Context, userID string) error {
	if userID == "" {
		return NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	if err := u.users.IncrementTokenVersion(ctx, userID); err != nil {
		if err == repo.ErrUserNotFound {
			return NewHTTPError(http.StatusUnauthorized, "unauthorized")
		}
		return NewHTTPError(http.StatusInternalServerError, "db error")
	}
	return nil
}

// Me はセッションのユーザー情報。
func (u *AuthUsecase) Me(ctx context.Context, userID string) (UserOutput, error) {
	if userID == "" {
		return UserOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}

	user, err := u.users.FindByID(ctx, userID)
	if err != nil {
		return UserOutput{}, NewHTTPError(http.StatusInternalServerError, "db error")
	}
	if user == nil {
		return UserOutput{}, NewHTTPError(http.StatusUnauthorized, "unauthorized")
	}
	return toUserOutput(user), nil
}

func toUserOutput(u *model.User) UserOutput {
	return UserOutput{ID: u.ID, Email: u.Email, Role: string(u.Role)}
}

// 簡易メール形式をチェック
func isEmailLike(s string) bool {
	_, err := mail.ParseAddress(s)
	return err == nil
}
