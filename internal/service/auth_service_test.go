package service

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/wavecast/wavecast/internal/config"
	"github.com/wavecast/wavecast/internal/models"
	"github.com/wavecast/wavecast/internal/repository"

	"github.com/glebarez/sqlite"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

func authTestConfig() *config.Config {
	return &config.Config{
		JWT: config.JWTConfig{SecretKey: "auth-service-test-secret-key-0123456789"},
		Security: config.SecurityConfig{
			PasswordPolicy: config.PasswordPolicyConfig{
				MinLength:     8,
				RequireLetter: true,
				RequireNumber: true,
			},
		},
		Mail: config.MailConfig{
			PasswordResetURL: "http://localhost:5173/reset-password",
			SignInURL:        "http://localhost:5173/sign-in",
			VerifyCode: config.VerifyCodeConfig{
				TTLSeconds: 3600,
				Length:     6,
			},
		},
	}
}

func setupAuthServiceTest(t *testing.T) (*AuthService, *gorm.DB) {
	t.Helper()
	dsn := fmt.Sprintf("file:auth_service_test_%d?mode=memory&cache=shared", time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{},
		&models.SessionToken{},
		&models.EmailVerificationToken{},
		&models.PasswordResetToken{},
		&models.UserFollow{},
	); err != nil {
		t.Fatalf("auto migrate failed: %v", err)
	}
	models.DB = db

	cfg := authTestConfig()
	svc := NewAuthService(
		cfg,
		repository.NewUserRepository(db),
		repository.NewSessionTokenRepository(db),
		repository.NewVerificationTokenRepository(db),
		repository.NewPasswordResetTokenRepository(db),
		nil,
		NewMailService(&cfg.Mail),
		NewMediaService(&config.MediaConfig{Dir: t.TempDir()}),
	)
	return svc, db
}

func seedVerificationCode(t *testing.T, db *gorm.DB, userID uint, code string, createdAt time.Time) {
	t.Helper()
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		t.Fatalf("hash code failed: %v", err)
	}
	if err := db.Where("user_id = ?", userID).Delete(&models.EmailVerificationToken{}).Error; err != nil {
		t.Fatalf("clear old code failed: %v", err)
	}
	record := models.EmailVerificationToken{
		UserID:    userID,
		TokenHash: string(hashed),
		CreatedAt: createdAt,
	}
	if err := db.Create(&record).Error; err != nil {
		t.Fatalf("seed verification code failed: %v", err)
	}
}

func TestAuthServiceSignupCreatesUserAndCode(t *testing.T) {
	svc, db := setupAuthServiceTest(t)

	user, err := svc.Signup("Alice", "Alice@Example.COM", "password123")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if user == nil || user.ID == 0 {
		t.Fatalf("invalid signup result: %+v", user)
	}
	if user.Email != "alice@example.com" {
		t.Fatalf("expected normalized email, got: %s", user.Email)
	}
	if user.Verified {
		t.Fatal("new user should be unverified")
	}

	var records []models.EmailVerificationToken
	if err := db.Where("user_id = ?", user.ID).Find(&records).Error; err != nil {
		t.Fatalf("query verification tokens failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 verification token, got: %d", len(records))
	}

	// 落库的必须是验证码哈希，绝不能是明文数字
	stored := records[0].TokenHash
	if !strings.HasPrefix(stored, "$2") {
		t.Fatalf("expected bcrypt hash, got: %q", stored)
	}
	if regexp.MustCompile(`^\d{6}$`).MatchString(stored) {
		t.Fatalf("token stored as plaintext code: %q", stored)
	}
}

func TestAuthServiceSignupValidation(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	if _, err := svc.Signup("al", "short@example.com", "password123"); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got: %v", err)
	}
	if _, err := svc.Signup("Alice", "not-an-email", "password123"); !errors.Is(err, ErrInvalidEmail) {
		t.Fatalf("expected ErrInvalidEmail, got: %v", err)
	}
	if _, err := svc.Signup("Alice", "weak@example.com", "short1"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword for short password, got: %v", err)
	}
	if _, err := svc.Signup("Alice", "weak@example.com", "onlyletters"); !errors.Is(err, ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword for letters only, got: %v", err)
	}

	if _, err := svc.Signup("Alice", "dup@example.com", "password123"); err != nil {
		t.Fatalf("first signup failed: %v", err)
	}
	if _, err := svc.Signup("Bob", "DUP@example.com", "password456"); !errors.Is(err, ErrEmailExists) {
		t.Fatalf("expected ErrEmailExists, got: %v", err)
	}
}

func TestAuthServiceVerifyEmailLifecycle(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	user, err := svc.Signup("Alice", "verify@example.com", "password123")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	seedVerificationCode(t, db, user.ID, "654321", time.Now())

	if err := svc.VerifyEmail(user.ID, "000000"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for wrong code, got: %v", err)
	}
	if err := svc.VerifyEmail(user.ID, "654321"); err != nil {
		t.Fatalf("verify email failed: %v", err)
	}

	var check models.User
	if err := db.First(&check, user.ID).Error; err != nil {
		t.Fatalf("query user failed: %v", err)
	}
	if !check.Verified {
		t.Fatal("user should be verified")
	}

	// 验证码单次有效
	if err := svc.VerifyEmail(user.ID, "654321"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on reuse, got: %v", err)
	}
}

func TestAuthServiceVerifyEmailExpiredCode(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	user, err := svc.Signup("Alice", "expired@example.com", "password123")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	seedVerificationCode(t, db, user.ID, "654321", time.Now().Add(-2*time.Hour))

	if err := svc.VerifyEmail(user.ID, "654321"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for expired code, got: %v", err)
	}

	// 过期记录应被顺手清理
	var count int64
	if err := db.Model(&models.EmailVerificationToken{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count verification tokens failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected expired token removed, got: %d", count)
	}
}

func TestAuthServiceResendVerificationReplacesCode(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	user, err := svc.Signup("Alice", "resend@example.com", "password123")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	var before models.EmailVerificationToken
	if err := db.Where("user_id = ?", user.ID).First(&before).Error; err != nil {
		t.Fatalf("query first token failed: %v", err)
	}

	if err := svc.ResendVerification(user.ID); err != nil {
		t.Fatalf("resend verification failed: %v", err)
	}

	var records []models.EmailVerificationToken
	if err := db.Where("user_id = ?", user.ID).Find(&records).Error; err != nil {
		t.Fatalf("query tokens failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected single token after resend, got: %d", len(records))
	}
	if records[0].TokenHash == before.TokenHash {
		t.Fatal("resend should replace the old code")
	}
}

func TestAuthServiceResendVerificationRejectsVerifiedOrUnknown(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	user, err := svc.Signup("Alice", "done@example.com", "password123")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	if err := db.Model(&models.User{}).Where("id = ?", user.ID).Update("verified", true).Error; err != nil {
		t.Fatalf("mark verified failed: %v", err)
	}

	if err := svc.ResendVerification(user.ID); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for verified user, got: %v", err)
	}
	if err := svc.ResendVerification(99999); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for unknown user, got: %v", err)
	}
}

func TestAuthServiceSignInAndMultiDeviceLogout(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	user, err := svc.Signup("Alice", "signin@example.com", "password123")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if _, _, err := svc.SignIn("signin@example.com", "wrong-pass-1"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got: %v", err)
	}
	if _, _, err := svc.SignIn("nobody@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got: %v", err)
	}

	_, tokenA, err := svc.SignIn("signin@example.com", "password123")
	if err != nil {
		t.Fatalf("first signin failed: %v", err)
	}
	_, tokenB, err := svc.SignIn("SignIn@Example.com", "password123")
	if err != nil {
		t.Fatalf("second signin failed: %v", err)
	}
	if tokenA == "" || tokenB == "" {
		t.Fatal("tokens should not be empty")
	}

	var count int64
	if err := db.Model(&models.SessionToken{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count sessions failed: %v", err)
	}
	if count != 2 {
		t.Fatalf("expected 2 sessions, got: %d", count)
	}

	// 单设备退出只删一条
	if err := svc.Logout(user.ID, tokenA, false); err != nil {
		t.Fatalf("logout failed: %v", err)
	}
	if err := db.Model(&models.SessionToken{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count sessions failed: %v", err)
	}
	if count != 1 {
		t.Fatalf("expected 1 session after logout, got: %d", count)
	}

	// 全端退出清空
	if err := svc.Logout(user.ID, tokenB, true); err != nil {
		t.Fatalf("logout all failed: %v", err)
	}
	if err := db.Model(&models.SessionToken{}).Where("user_id = ?", user.ID).Count(&count).Error; err != nil {
		t.Fatalf("count sessions failed: %v", err)
	}
	if count != 0 {
		t.Fatalf("expected 0 sessions after logout all, got: %d", count)
	}
}

func TestAuthServiceSessionJWTRoundTrip(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)

	token, err := svc.GenerateSessionJWT(42)
	if err != nil {
		t.Fatalf("generate token failed: %v", err)
	}
	claims, err := svc.ParseSessionJWT(token)
	if err != nil {
		t.Fatalf("parse token failed: %v", err)
	}
	if claims.UserID != 42 {
		t.Fatalf("expected user_id=42, got: %d", claims.UserID)
	}

	if _, err := svc.ParseSessionJWT("not-a-jwt"); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for garbage token, got: %v", err)
	}

	other := NewAuthService(
		&config.Config{JWT: config.JWTConfig{SecretKey: "a-completely-different-secret-key-value"}},
		nil, nil, nil, nil, nil, nil, nil,
	)
	if _, err := other.ParseSessionJWT(token); !errors.Is(err, ErrUnauthorized) {
		t.Fatalf("expected ErrUnauthorized for wrong key, got: %v", err)
	}
}

func TestAuthServicePasswordResetFlow(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	user, err := svc.Signup("Alice", "reset@example.com", "password123")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}
	_, _, err = svc.SignIn("reset@example.com", "password123")
	if err != nil {
		t.Fatalf("signin failed: %v", err)
	}

	if err := svc.ForgetPassword("nobody@example.com"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown email, got: %v", err)
	}
	if err := svc.ForgetPassword("reset@example.com"); err != nil {
		t.Fatalf("forget password failed: %v", err)
	}

	var record models.PasswordResetToken
	if err := db.Where("user_id = ?", user.ID).First(&record).Error; err != nil {
		t.Fatalf("query reset token failed: %v", err)
	}

	if err := svc.VerifyResetToken(user.ID, "bogus-token"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken for bogus token, got: %v", err)
	}
	if err := svc.VerifyResetToken(user.ID, record.Token); err != nil {
		t.Fatalf("verify reset token failed: %v", err)
	}

	// 新密码不得与旧密码相同
	if err := svc.ResetPassword(user.ID, record.Token, "password123"); !errors.Is(err, ErrSamePassword) {
		t.Fatalf("expected ErrSamePassword, got: %v", err)
	}
	if err := svc.ResetPassword(user.ID, record.Token, "newpassword456"); err != nil {
		t.Fatalf("reset password failed: %v", err)
	}

	// 令牌单次有效
	if err := svc.ResetPassword(user.ID, record.Token, "anotherpass789"); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected ErrInvalidToken on reuse, got: %v", err)
	}

	// 重置后所有会话强制下线
	var sessions int64
	if err := db.Model(&models.SessionToken{}).Where("user_id = ?", user.ID).Count(&sessions).Error; err != nil {
		t.Fatalf("count sessions failed: %v", err)
	}
	if sessions != 0 {
		t.Fatalf("expected sessions revoked after reset, got: %d", sessions)
	}

	if _, _, err := svc.SignIn("reset@example.com", "password123"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("old password should be rejected, got: %v", err)
	}
	if _, _, err := svc.SignIn("reset@example.com", "newpassword456"); err != nil {
		t.Fatalf("signin with new password failed: %v", err)
	}
}

func TestAuthServiceForgetPasswordReplacesToken(t *testing.T) {
	svc, db := setupAuthServiceTest(t)
	user, err := svc.Signup("Alice", "replace@example.com", "password123")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if err := svc.ForgetPassword("replace@example.com"); err != nil {
		t.Fatalf("first forget password failed: %v", err)
	}
	var first models.PasswordResetToken
	if err := db.Where("user_id = ?", user.ID).First(&first).Error; err != nil {
		t.Fatalf("query first token failed: %v", err)
	}

	if err := svc.ForgetPassword("replace@example.com"); err != nil {
		t.Fatalf("second forget password failed: %v", err)
	}
	var records []models.PasswordResetToken
	if err := db.Where("user_id = ?", user.ID).Find(&records).Error; err != nil {
		t.Fatalf("query tokens failed: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected single reset token, got: %d", len(records))
	}
	if records[0].Token == first.Token {
		t.Fatal("second request should replace the old token")
	}

	// 旧令牌立即失效
	if err := svc.VerifyResetToken(user.ID, first.Token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected old token invalid, got: %v", err)
	}
}

func TestAuthServiceProfileAndFollow(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	alice, err := svc.Signup("Alice", "alice@example.com", "password123")
	if err != nil {
		t.Fatalf("signup alice failed: %v", err)
	}
	bob, err := svc.Signup("Bobby", "bob@example.com", "password123")
	if err != nil {
		t.Fatalf("signup bob failed: %v", err)
	}

	if _, err := svc.ToggleFollow(alice.ID, alice.ID); !errors.Is(err, ErrInvalidRequest) {
		t.Fatalf("expected ErrInvalidRequest for self follow, got: %v", err)
	}
	if _, err := svc.ToggleFollow(alice.ID, 99999); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown followee, got: %v", err)
	}

	following, err := svc.ToggleFollow(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("toggle follow failed: %v", err)
	}
	if !following {
		t.Fatal("expected following=true after first toggle")
	}

	profile, err := svc.Profile(bob.ID)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if profile.Followers != 1 {
		t.Fatalf("expected 1 follower, got: %d", profile.Followers)
	}

	aliceProfile, err := svc.Profile(alice.ID)
	if err != nil {
		t.Fatalf("profile failed: %v", err)
	}
	if aliceProfile.Followings != 1 {
		t.Fatalf("expected 1 following, got: %d", aliceProfile.Followings)
	}

	following, err = svc.ToggleFollow(alice.ID, bob.ID)
	if err != nil {
		t.Fatalf("toggle follow failed: %v", err)
	}
	if following {
		t.Fatal("expected following=false after second toggle")
	}
}

func TestAuthServiceUpdateProfileName(t *testing.T) {
	svc, _ := setupAuthServiceTest(t)
	user, err := svc.Signup("Alice", "rename@example.com", "password123")
	if err != nil {
		t.Fatalf("signup failed: %v", err)
	}

	if _, err := svc.UpdateProfile(user.ID, "ab", nil); !errors.Is(err, ErrInvalidName) {
		t.Fatalf("expected ErrInvalidName, got: %v", err)
	}

	profile, err := svc.UpdateProfile(user.ID, "  Alice Cooper  ", nil)
	if err != nil {
		t.Fatalf("update profile failed: %v", err)
	}
	if profile.Name != "Alice Cooper" {
		t.Fatalf("expected trimmed name, got: %q", profile.Name)
	}
}
