package service

import (
	"context"
	"mime/multipart"
	"net/mail"
	"strconv"
	"strings"
	"time"

	"github.com/wavecast/wavecast/internal/cache"
	"github.com/wavecast/wavecast/internal/config"
	"github.com/wavecast/wavecast/internal/constants"
	"github.com/wavecast/wavecast/internal/logger"
	"github.com/wavecast/wavecast/internal/models"
	"github.com/wavecast/wavecast/internal/queue"
	"github.com/wavecast/wavecast/internal/repository"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// AuthService 账号与会话服务
type AuthService struct {
	cfg          *config.Config
	userRepo     repository.UserRepository
	sessionRepo  repository.SessionTokenRepository
	verifyRepo   repository.VerificationTokenRepository
	resetRepo    repository.PasswordResetTokenRepository
	queueClient  *queue.Client
	mailService  *MailService
	mediaService *MediaService
}

// NewAuthService 创建账号服务
func NewAuthService(
	cfg *config.Config,
	userRepo repository.UserRepository,
	sessionRepo repository.SessionTokenRepository,
	verifyRepo repository.VerificationTokenRepository,
	resetRepo repository.PasswordResetTokenRepository,
	queueClient *queue.Client,
	mailService *MailService,
	mediaService *MediaService,
) *AuthService {
	return &AuthService{
		cfg:          cfg,
		userRepo:     userRepo,
		sessionRepo:  sessionRepo,
		verifyRepo:   verifyRepo,
		resetRepo:    resetRepo,
		queueClient:  queueClient,
		mailService:  mailService,
		mediaService: mediaService,
	}
}

// SessionClaims 会话令牌声明
// 令牌本身不过期，有效性由会话记录决定
type SessionClaims struct {
	UserID uint `json:"user_id"`
	jwt.RegisteredClaims
}

// ProfileView 对外返回的用户资料
type ProfileView struct {
	ID         uint   `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email"`
	Verified   bool   `json:"verified"`
	AvatarURL  string `json:"avatar,omitempty"`
	Followers  int64  `json:"followers"`
	Followings int64  `json:"followings"`
}

// GenerateSessionJWT 签发会话令牌
func (s *AuthService) GenerateSessionJWT(userID uint) (string, error) {
	// jti 保证同一秒内的多端登录也能拿到不同令牌
	claims := SessionClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:       uuid.NewString(),
			IssuedAt: jwt.NewNumericDate(time.Now()),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWT.SecretKey))
}

// ParseSessionJWT 解析会话令牌
func (s *AuthService) ParseSessionJWT(tokenString string) (*SessionClaims, error) {
	parser := jwt.NewParser(jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}))
	claims := &SessionClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return []byte(s.cfg.JWT.SecretKey), nil
	})
	if err != nil {
		return nil, ErrUnauthorized
	}
	if parsed, ok := token.Claims.(*SessionClaims); ok && token.Valid {
		return parsed, nil
	}
	return nil, ErrUnauthorized
}

// Signup 用户注册，创建账号并发送邮箱验证码
func (s *AuthService) Signup(name, email, password string) (*models.User, error) {
	name = strings.TrimSpace(name)
	if len(name) < 3 {
		return nil, ErrInvalidName
	}
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, err
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, password); err != nil {
		return nil, err
	}

	exist, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, err
	}
	if exist != nil {
		return nil, ErrEmailExists
	}

	hashed, err := HashPassword(password)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		Name:         name,
		Email:        normalized,
		PasswordHash: hashed,
	}
	if err := s.userRepo.Create(user); err != nil {
		return nil, err
	}

	if err := s.issueVerificationCode(user); err != nil {
		return nil, err
	}
	return user, nil
}

// VerifyEmail 校验邮箱验证码并标记账号已验证
// 验证码一次性使用，成功后立即删除
func (s *AuthService) VerifyEmail(userID uint, code string) error {
	code = strings.TrimSpace(code)
	if userID == 0 || code == "" {
		return ErrInvalidToken
	}

	record, err := s.verifyRepo.GetLiveByUserID(userID, s.verifyCodeTTL())
	if err != nil {
		return err
	}
	if record == nil {
		return ErrInvalidToken
	}
	if bcrypt.CompareHashAndPassword([]byte(record.TokenHash), []byte(code)) != nil {
		return ErrInvalidToken
	}

	if err := s.userRepo.MarkVerified(userID); err != nil {
		return err
	}
	return s.verifyRepo.DeleteByUserID(userID)
}

// ResendVerification 重发邮箱验证码，旧码作废
func (s *AuthService) ResendVerification(userID uint) error {
	if userID == 0 {
		return ErrInvalidRequest
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidRequest
	}
	if user.Verified {
		return ErrInvalidRequest
	}
	return s.issueVerificationCode(user)
}

// ForgetPassword 生成密码重置令牌并发送重置链接
func (s *AuthService) ForgetPassword(email string) error {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return err
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrNotFound
	}

	token, err := randomResetToken()
	if err != nil {
		return err
	}
	record := &models.PasswordResetToken{
		UserID: user.ID,
		Token:  token,
	}
	if err := s.resetRepo.ReplaceForUser(record); err != nil {
		return err
	}

	link := s.buildResetLink(token, user.ID)
	s.enqueueMail(queue.MailDeliverPayload{
		To:       user.Email,
		Kind:     constants.MailKindResetLink,
		UserName: user.Name,
		Link:     link,
	})
	return nil
}

// VerifyResetToken 校验重置令牌是否有效
func (s *AuthService) VerifyResetToken(userID uint, token string) error {
	token = strings.TrimSpace(token)
	if userID == 0 || token == "" {
		return ErrInvalidToken
	}
	record, err := s.resetRepo.GetByUserID(userID)
	if err != nil {
		return err
	}
	if record == nil || record.Token != token {
		return ErrInvalidToken
	}
	return nil
}

// ResetPassword 使用重置令牌设置新密码
// 成功后令牌作废，所有会话强制下线
func (s *AuthService) ResetPassword(userID uint, token, newPassword string) error {
	if err := s.VerifyResetToken(userID, token); err != nil {
		return err
	}
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return err
	}
	if user == nil {
		return ErrInvalidToken
	}
	if VerifyPassword(newPassword, user.PasswordHash) {
		return ErrSamePassword
	}
	if err := validatePassword(s.cfg.Security.PasswordPolicy, newPassword); err != nil {
		return err
	}

	hashed, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.PasswordHash = hashed
	if err := s.userRepo.Update(user); err != nil {
		return err
	}
	if err := s.resetRepo.DeleteByUserID(userID); err != nil {
		return err
	}
	if err := s.revokeAllSessions(userID); err != nil {
		return err
	}

	s.enqueueMail(queue.MailDeliverPayload{
		To:       user.Email,
		Kind:     constants.MailKindResetDone,
		UserName: user.Name,
		Link:     s.cfg.Mail.SignInURL,
	})
	return nil
}

// SignIn 用户登录，签发令牌并登记会话
func (s *AuthService) SignIn(email, password string) (*models.User, string, error) {
	normalized, err := normalizeEmail(email)
	if err != nil {
		return nil, "", ErrInvalidCredentials
	}
	user, err := s.userRepo.GetByEmail(normalized)
	if err != nil {
		return nil, "", err
	}
	if user == nil {
		return nil, "", ErrInvalidCredentials
	}
	if !VerifyPassword(password, user.PasswordHash) {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.GenerateSessionJWT(user.ID)
	if err != nil {
		return nil, "", err
	}
	if err := s.sessionRepo.Create(&models.SessionToken{
		UserID: user.ID,
		Token:  token,
	}); err != nil {
		return nil, "", err
	}
	_ = cache.SetSessionState(context.Background(), token, cache.BuildSessionState(user))

	return user, token, nil
}

// Logout 退出当前会话，fromAll 为 true 时退出全部设备
func (s *AuthService) Logout(userID uint, token string, fromAll bool) error {
	if userID == 0 {
		return ErrUnauthorized
	}
	if fromAll {
		return s.revokeAllSessions(userID)
	}
	if err := s.sessionRepo.DeleteByToken(userID, token); err != nil {
		return err
	}
	return cache.DelSessionState(context.Background(), token)
}

// Profile 构建用户公开资料
func (s *AuthService) Profile(userID uint) (*ProfileView, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	followers, err := s.userRepo.CountFollowers(userID)
	if err != nil {
		return nil, err
	}
	followings, err := s.userRepo.CountFollowing(userID)
	if err != nil {
		return nil, err
	}
	return &ProfileView{
		ID:         user.ID,
		Name:       user.Name,
		Email:      user.Email,
		Verified:   user.Verified,
		AvatarURL:  user.AvatarURL,
		Followers:  followers,
		Followings: followings,
	}, nil
}

// UpdateProfile 更新昵称与头像，旧头像文件会被删除
func (s *AuthService) UpdateProfile(userID uint, name string, avatar *multipart.FileHeader) (*ProfileView, error) {
	user, err := s.userRepo.GetByID(userID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}

	name = strings.TrimSpace(name)
	if len(name) < 3 {
		return nil, ErrInvalidName
	}
	user.Name = name

	// 头像存储失败不阻断资料更新
	if avatar != nil {
		obj, err := s.mediaService.Upload(avatar, constants.MediaSceneAvatar)
		if err != nil {
			logger.Warnw("auth_update_profile_avatar_upload_failed", "user_id", userID, "error", err)
		} else {
			if user.AvatarPublicID != "" {
				if delErr := s.mediaService.Delete(user.AvatarPublicID); delErr != nil {
					logger.Warnw("auth_update_profile_avatar_delete_failed", "user_id", userID, "error", delErr)
				}
			}
			user.AvatarURL = obj.URL
			user.AvatarPublicID = obj.PublicID
		}
	}

	if err := s.userRepo.Update(user); err != nil {
		return nil, err
	}
	return s.Profile(userID)
}

// ToggleFollow 切换关注关系
func (s *AuthService) ToggleFollow(followerID, followeeID uint) (bool, error) {
	if followerID == 0 || followerID == followeeID {
		return false, ErrInvalidRequest
	}
	followee, err := s.userRepo.GetByID(followeeID)
	if err != nil {
		return false, err
	}
	if followee == nil {
		return false, ErrNotFound
	}
	return s.userRepo.ToggleFollow(followerID, followeeID)
}

// GetUserByID 获取用户信息
func (s *AuthService) GetUserByID(id uint) (*models.User, error) {
	if id == 0 {
		return nil, ErrNotFound
	}
	return s.userRepo.GetByID(id)
}

func (s *AuthService) issueVerificationCode(user *models.User) error {
	code, err := randomNumericCode(s.verifyCodeLength())
	if err != nil {
		return err
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	record := &models.EmailVerificationToken{
		UserID:    user.ID,
		TokenHash: string(hashed),
	}
	if err := s.verifyRepo.ReplaceForUser(record); err != nil {
		return err
	}

	s.enqueueMail(queue.MailDeliverPayload{
		To:       user.Email,
		Kind:     constants.MailKindVerification,
		UserName: user.Name,
		Code:     code,
	})
	return nil
}

// enqueueMail 邮件投递尽力而为，失败不影响主流程
func (s *AuthService) enqueueMail(payload queue.MailDeliverPayload) {
	if s.queueClient != nil && s.queueClient.Enabled() {
		if err := s.queueClient.EnqueueMailDeliver(payload); err == nil {
			return
		}
	}
	if s.mailService != nil {
		_ = s.mailService.Send(payload.To, MailContentInput{
			Kind:     payload.Kind,
			UserName: payload.UserName,
			Code:     payload.Code,
			Link:     payload.Link,
		})
	}
}

func (s *AuthService) revokeAllSessions(userID uint) error {
	tokens, err := s.sessionRepo.ListForUser(userID)
	if err != nil {
		return err
	}
	if err := s.sessionRepo.DeleteAllForUser(userID); err != nil {
		return err
	}
	raw := make([]string, 0, len(tokens))
	for _, t := range tokens {
		raw = append(raw, t.Token)
	}
	return cache.DelSessionStates(context.Background(), raw)
}

func (s *AuthService) buildResetLink(token string, userID uint) string {
	base := strings.TrimSpace(s.cfg.Mail.PasswordResetURL)
	if base == "" {
		return ""
	}
	sep := "?"
	if strings.Contains(base, "?") {
		sep = "&"
	}
	return base + sep + "token=" + token + "&userId=" + strconv.FormatUint(uint64(userID), 10)
}

func (s *AuthService) verifyCodeTTL() time.Duration {
	ttl := s.cfg.Mail.VerifyCode.TTLSeconds
	if ttl <= 0 {
		ttl = 3600
	}
	return time.Duration(ttl) * time.Second
}

func (s *AuthService) verifyCodeLength() int {
	length := s.cfg.Mail.VerifyCode.Length
	if length < 4 || length > 10 {
		return 6
	}
	return length
}

func normalizeEmail(email string) (string, error) {
	normalized := strings.ToLower(strings.TrimSpace(email))
	if normalized == "" {
		return "", ErrInvalidEmail
	}
	if _, err := mail.ParseAddress(normalized); err != nil {
		return "", ErrInvalidEmail
	}
	return normalized, nil
}
