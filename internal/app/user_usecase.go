// Package app реализует бизнес-логику сервиса управления задачами.
package app

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"math"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"gotasker/internal/domain/entities"
	"gotasker/internal/domain/services"
	"gotasker/internal/ports/api"
	"gotasker/internal/ports/cache"
	"gotasker/internal/ports/repositories"
	svc "gotasker/internal/ports/services"
	"gotasker/pkg/logger"
)

const (
	methodRegister       = "Register"
	methodLogin          = "Login"
	methodResolveSession = "ResolveSession"
	methodLogout         = "Logout"
	methodLogoutAll      = "LogoutAll"
	methodUpdate         = "Update"
	methodDelete         = "Delete"
	methodUploadAvatar   = "UploadAvatar"
	methodDeleteAvatar   = "DeleteAvatar"
	methodGetAvatar      = "GetAvatar"
	methodIssueToken     = "issueToken"

	msgStartRegistration  = "starting user registration"
	msgInvalidName        = "empty name provided"
	msgInvalidEmailFormat = "invalid email format"
	msgInvalidAge         = "negative age provided"
	msgInvalidPassword    = "invalid password"
	msgUserRegistered     = "user registered successfully"
	msgLoginAttempt       = "login attempt"
	msgLoginNonExistent   = "login attempt with non-existent email"
	msgLoginBadPassword   = "login attempt with invalid password"
	msgUserLoggedIn       = "user logged in successfully"
	msgSessionRevoked     = "presented token is not in the session list"
	msgUserLoggedOut      = "user logged out successfully"
	msgAllSessionsClosed  = "all user sessions closed"
	msgRejectedUpdateKey  = "update contains a non-whitelisted key"
	msgUserUpdated        = "user updated successfully"
	msgUserDeleted        = "user deleted, owned tasks cascaded"
	msgAvatarStored       = "avatar normalized and stored"
	msgAvatarDeleted      = "avatar cleared"
	msgAvatarCacheHit     = "avatar served from cache"

	msgErrHashPassword    = "failed to hash password"
	msgErrCreateUser      = "failed to create user"
	msgErrIssueToken      = "failed to issue session token"
	msgErrFindingUser     = "error finding user"
	msgErrVerifyPassword  = "error verifying password"
	msgErrSessionLookup   = "error checking session token"
	msgErrRevokingToken   = "failed to revoke session token"
	msgErrUpdatingUser    = "failed to update user"
	msgErrDeletingUser    = "failed to delete user"
	msgErrStoringAvatar   = "failed to store avatar"
	msgErrAvatarCache     = "avatar cache unavailable"
	msgErrNormalizeAvatar = "failed to normalize avatar"

	errCtxValidatingName     = "validating name"
	errCtxValidatingEmail    = "validating email"
	errCtxValidatingAge      = "validating age"
	errCtxHashingPassword    = "hashing password"
	errCtxCreatingUser       = "creating user"
	errCtxIssuingToken       = "issuing token"
	errCtxInvalidCredentials = "invalid credentials"
	errCtxFindingUser        = "finding user"
	errCtxVerifyingPassword  = "verifying password"
	errCtxValidatingToken    = "validating token"
	errCtxCheckingSession    = "checking session"
	errCtxRevokingToken      = "revoking token"
	errCtxValidatingUpdates  = "validating updates"
	errCtxUpdatingUser       = "updating user"
	errCtxDeletingUser       = "deleting user"
	errCtxValidatingUpload   = "validating upload"
	errCtxNormalizingAvatar  = "normalizing avatar"
	errCtxStoringAvatar      = "storing avatar"
	errCtxLoadingAvatar      = "loading avatar"
)

// avatarCacheKeyPrefix - префикс ключа кэша аватаров.
const avatarCacheKeyPrefix = "avatar:"

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

// Расширения файлов, допустимые для аватара.
var allowedAvatarExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
}

// Поля пользователя, разрешенные к изменению через Update.
var allowedUserUpdates = map[string]struct{}{
	"name":     {},
	"email":    {},
	"password": {},
	"age":      {},
}

// UserUseCaseImpl реализует интерфейс api.UserUseCase.
type UserUseCaseImpl struct {
	userRepo    repositories.UserRepository
	sessionRepo repositories.SessionRepository
	passwordSvc svc.PasswordService
	tokenSvc    svc.TokenService
	imageSvc    svc.ImageService
	avatarCache cache.Cache
}

// NewUserUseCase создает новый экземпляр пользовательского сервиса.
func NewUserUseCase(
	userRepo repositories.UserRepository,
	sessionRepo repositories.SessionRepository,
	passwordSvc svc.PasswordService,
	tokenSvc svc.TokenService,
	imageSvc svc.ImageService,
	avatarCache cache.Cache,
) api.UserUseCase {
	return &UserUseCaseImpl{
		userRepo:    userRepo,
		sessionRepo: sessionRepo,
		passwordSvc: passwordSvc,
		tokenSvc:    tokenSvc,
		imageSvc:    imageSvc,
		avatarCache: avatarCache,
	}
}

// Register создает нового пользователя и выдает ему токен сессии.
func (u *UserUseCaseImpl) Register(ctx context.Context, name, email string, age int, password string) (*entities.User, string, error) {
	log := logger.Log(ctx).With(zap.String("method", methodRegister), zap.String("email", email))
	log.Debug(ctx, msgStartRegistration)

	name = strings.TrimSpace(name)
	if name == "" {
		log.Debug(ctx, msgInvalidName)
		return nil, "", fmt.Errorf("%s: %w", errCtxValidatingName, entities.ErrEmptyName)
	}

	email, err := normalizeEmail(email)
	if err != nil {
		log.Debug(ctx, msgInvalidEmailFormat)
		return nil, "", fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
	}

	if age < 0 {
		log.Debug(ctx, msgInvalidAge)
		return nil, "", fmt.Errorf("%s: %w", errCtxValidatingAge, entities.ErrNegativeAge)
	}

	hashedPassword, err := u.passwordSvc.Hash(ctx, strings.TrimSpace(password))
	if err != nil {
		log.Debug(ctx, msgInvalidPassword, zap.Error(err))
		return nil, "", fmt.Errorf("%s: %w", errCtxHashingPassword, err)
	}

	newUser := &entities.User{
		Name:         name,
		Email:        email,
		Age:          age,
		PasswordHash: hashedPassword,
	}

	createdUser, err := u.userRepo.Create(ctx, newUser)
	if err != nil {
		log.Error(ctx, msgErrCreateUser, zap.Error(err))
		return nil, "", fmt.Errorf("%s: %w", errCtxCreatingUser, err)
	}

	log.Info(ctx, msgUserRegistered, zap.String("userID", createdUser.ID))

	token, err := u.issueToken(ctx, createdUser.ID)
	if err != nil {
		log.Error(ctx, msgErrIssueToken, zap.Error(err), zap.String("userID", createdUser.ID))
		return nil, "", fmt.Errorf("%s: %w", errCtxIssuingToken, err)
	}

	return createdUser, token, nil
}

// Login аутентифицирует пользователя по email и паролю. Неизвестный email и
// неверный пароль возвращают одну и ту же непрозрачную ошибку.
func (u *UserUseCaseImpl) Login(ctx context.Context, email, password string) (*entities.User, string, error) {
	log := logger.Log(ctx).With(zap.String("method", methodLogin), zap.String("email", email))
	log.Debug(ctx, msgLoginAttempt)

	user, err := u.userRepo.FindByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		if errors.Is(err, entities.ErrUserNotFound) {
			log.Debug(ctx, msgLoginNonExistent)
			return nil, "", fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrUnableToLogin)
		}
		log.Error(ctx, msgErrFindingUser, zap.Error(err))
		return nil, "", fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	valid, err := u.passwordSvc.Verify(ctx, password, user.PasswordHash)
	if err != nil {
		log.Error(ctx, msgErrVerifyPassword, zap.Error(err), zap.String("userID", user.ID))
		return nil, "", fmt.Errorf("%s: %w", errCtxVerifyingPassword, err)
	}
	if !valid {
		log.Debug(ctx, msgLoginBadPassword, zap.String("userID", user.ID))
		return nil, "", fmt.Errorf("%s: %w", errCtxInvalidCredentials, services.ErrUnableToLogin)
	}

	token, err := u.issueToken(ctx, user.ID)
	if err != nil {
		log.Error(ctx, msgErrIssueToken, zap.Error(err), zap.String("userID", user.ID))
		return nil, "", fmt.Errorf("%s: %w", errCtxIssuingToken, err)
	}

	log.Info(ctx, msgUserLoggedIn, zap.String("userID", user.ID))
	return user, token, nil
}

// ResolveSession проверяет подпись токена, загружает пользователя и
// подтверждает, что токен не отозван.
func (u *UserUseCaseImpl) ResolveSession(ctx context.Context, token string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodResolveSession))

	userID, err := u.tokenSvc.ValidateSessionToken(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxValidatingToken, err)
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	exists, err := u.sessionRepo.Exists(ctx, userID, token)
	if err != nil {
		log.Error(ctx, msgErrSessionLookup, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingSession, err)
	}
	if !exists {
		log.Debug(ctx, msgSessionRevoked, zap.String("userID", userID))
		return nil, fmt.Errorf("%s: %w", errCtxCheckingSession, services.ErrTokenRevoked)
	}

	return user, nil
}

// Logout удаляет текущий токен из списка сессий пользователя.
func (u *UserUseCaseImpl) Logout(ctx context.Context, userID, token string) error {
	log := logger.Log(ctx).With(zap.String("method", methodLogout), zap.String("userID", userID))

	if err := u.sessionRepo.Revoke(ctx, userID, token); err != nil {
		log.Error(ctx, msgErrRevokingToken, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxRevokingToken, err)
	}

	log.Info(ctx, msgUserLoggedOut)
	return nil
}

// LogoutAll очищает список сессий пользователя, закрывая все устройства.
func (u *UserUseCaseImpl) LogoutAll(ctx context.Context, userID string) error {
	log := logger.Log(ctx).With(zap.String("method", methodLogoutAll), zap.String("userID", userID))

	if err := u.sessionRepo.RevokeAll(ctx, userID); err != nil {
		log.Error(ctx, msgErrRevokingToken, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxRevokingToken, err)
	}

	log.Info(ctx, msgAllSessionsClosed)
	return nil
}

// Update применяет изменения к пользователю. Любой ключ вне разрешенного
// набора отклоняет запрос целиком до каких-либо изменений.
func (u *UserUseCaseImpl) Update(ctx context.Context, userID string, updates map[string]any) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodUpdate), zap.String("userID", userID))

	for key := range updates {
		if _, ok := allowedUserUpdates[key]; !ok {
			log.Debug(ctx, msgRejectedUpdateKey, zap.String("key", key))
			return nil, fmt.Errorf("%s: %w", errCtxValidatingUpdates, entities.ErrInvalidUpdateKey)
		}
	}

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	if raw, ok := updates["name"]; ok {
		name, ok := raw.(string)
		name = strings.TrimSpace(name)
		if !ok || name == "" {
			return nil, fmt.Errorf("%s: %w", errCtxValidatingName, entities.ErrEmptyName)
		}
		user.Name = name
	}

	if raw, ok := updates["email"]; ok {
		email, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%s: %w", errCtxValidatingEmail, entities.ErrInvalidEmail)
		}
		normalized, err := normalizeEmail(email)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxValidatingEmail, err)
		}
		user.Email = normalized
	}

	if raw, ok := updates["age"]; ok {
		age, err := intFromJSON(raw)
		if err != nil || age < 0 {
			return nil, fmt.Errorf("%s: %w", errCtxValidatingAge, entities.ErrNegativeAge)
		}
		user.Age = age
	}

	if raw, ok := updates["password"]; ok {
		password, ok := raw.(string)
		if !ok {
			return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, services.ErrInvalidPassword)
		}
		hashed, err := u.passwordSvc.Hash(ctx, strings.TrimSpace(password))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", errCtxHashingPassword, err)
		}
		user.PasswordHash = hashed
	}

	updated, err := u.userRepo.Update(ctx, user)
	if err != nil {
		log.Error(ctx, msgErrUpdatingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxUpdatingUser, err)
	}

	log.Info(ctx, msgUserUpdated)
	return updated, nil
}

// Delete удаляет пользователя; его задачи и сессии удаляются каскадно.
func (u *UserUseCaseImpl) Delete(ctx context.Context, userID string) (*entities.User, error) {
	log := logger.Log(ctx).With(zap.String("method", methodDelete), zap.String("userID", userID))

	user, err := u.userRepo.FindByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxFindingUser, err)
	}

	if err := u.userRepo.Delete(ctx, userID); err != nil {
		log.Error(ctx, msgErrDeletingUser, zap.Error(err))
		return nil, fmt.Errorf("%s: %w", errCtxDeletingUser, err)
	}

	u.invalidateAvatarCache(ctx, userID)

	log.Info(ctx, msgUserDeleted)
	return user, nil
}

// UploadAvatar проверяет файл, нормализует изображение и сохраняет его.
// Никакие изменения пользователя не происходят до прохождения всех проверок.
func (u *UserUseCaseImpl) UploadAvatar(ctx context.Context, userID, filename string, data []byte) error {
	log := logger.Log(ctx).With(zap.String("method", methodUploadAvatar), zap.String("userID", userID))

	if len(data) > services.MaxUploadSize {
		return fmt.Errorf("%s: %w", errCtxValidatingUpload, services.ErrFileTooLarge)
	}

	ext := strings.ToLower(filepath.Ext(filename))
	if _, ok := allowedAvatarExtensions[ext]; !ok {
		return fmt.Errorf("%s: %w", errCtxValidatingUpload, services.ErrBadAvatarFormat)
	}

	normalized, err := u.imageSvc.NormalizeAvatar(ctx, data)
	if err != nil {
		log.Debug(ctx, msgErrNormalizeAvatar, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxNormalizingAvatar, err)
	}

	if err := u.userRepo.UpdateAvatar(ctx, userID, normalized); err != nil {
		log.Error(ctx, msgErrStoringAvatar, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxStoringAvatar, err)
	}

	u.invalidateAvatarCache(ctx, userID)

	log.Info(ctx, msgAvatarStored)
	return nil
}

// DeleteAvatar очищает аватар пользователя.
func (u *UserUseCaseImpl) DeleteAvatar(ctx context.Context, userID string) error {
	log := logger.Log(ctx).With(zap.String("method", methodDeleteAvatar), zap.String("userID", userID))

	if err := u.userRepo.UpdateAvatar(ctx, userID, nil); err != nil {
		log.Error(ctx, msgErrStoringAvatar, zap.Error(err))
		return fmt.Errorf("%s: %w", errCtxStoringAvatar, err)
	}

	u.invalidateAvatarCache(ctx, userID)

	log.Info(ctx, msgAvatarDeleted)
	return nil
}

// GetAvatar возвращает PNG аватара по ID пользователя, используя кэш.
// Недоступность кэша деградирует до чтения из базы, а не до отказа.
func (u *UserUseCaseImpl) GetAvatar(ctx context.Context, userID string) ([]byte, error) {
	log := logger.Log(ctx).With(zap.String("method", methodGetAvatar), zap.String("userID", userID))

	key := avatarCacheKeyPrefix + userID

	if cached, err := u.avatarCache.Get(ctx, key); err == nil && cached != "" {
		data, decErr := base64.StdEncoding.DecodeString(cached)
		if decErr == nil {
			log.Debug(ctx, msgAvatarCacheHit)
			return data, nil
		}
	} else if err != nil {
		log.Warn(ctx, msgErrAvatarCache, zap.Error(err))
	}

	avatar, err := u.userRepo.GetAvatar(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", errCtxLoadingAvatar, err)
	}

	if err := u.avatarCache.Set(ctx, key, base64.StdEncoding.EncodeToString(avatar), 0); err != nil {
		log.Warn(ctx, msgErrAvatarCache, zap.Error(err))
	}

	return avatar, nil
}

// issueToken подписывает токен сессии и добавляет его в список пользователя.
func (u *UserUseCaseImpl) issueToken(ctx context.Context, userID string) (string, error) {
	log := logger.Log(ctx).With(zap.String("method", methodIssueToken), zap.String("userID", userID))

	token, _, err := u.tokenSvc.GenerateSessionToken(ctx, userID)
	if err != nil {
		log.Error(ctx, msgErrIssueToken, zap.Error(err))
		return "", fmt.Errorf("%s: %w", errCtxIssuingToken, services.ErrTokenGenerationFailed)
	}

	if err := u.sessionRepo.Store(ctx, &services.Session{
		UserID: userID,
		Token:  token,
	}); err != nil {
		log.Error(ctx, msgErrIssueToken, zap.Error(err))
		return "", fmt.Errorf("%s: %w", errCtxIssuingToken, err)
	}

	return token, nil
}

// invalidateAvatarCache удаляет ключ аватара; ошибка кэша только логируется.
func (u *UserUseCaseImpl) invalidateAvatarCache(ctx context.Context, userID string) {
	if err := u.avatarCache.Delete(ctx, avatarCacheKeyPrefix+userID); err != nil {
		logger.Log(ctx).Warn(ctx, msgErrAvatarCache, zap.Error(err))
	}
}

// normalizeEmail обрезает пробелы, приводит к нижнему регистру и проверяет формат.
func normalizeEmail(email string) (string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" || !emailRegex.MatchString(email) {
		return "", entities.ErrInvalidEmail
	}
	return email, nil
}

// intFromJSON приводит значение из разобранного JSON к целому числу.
func intFromJSON(raw any) (int, error) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) {
			return 0, entities.ErrNegativeAge
		}
		return int(v), nil
	case int:
		return v, nil
	default:
		return 0, entities.ErrNegativeAge
	}
}
