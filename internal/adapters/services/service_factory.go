package services

import (
	"time"

	"gotasker/internal/ports/services"
)

// ServiceFactory создает все необходимые сервисы учетных данных и изображений.
type ServiceFactory struct {
	passwordService services.PasswordService
	tokenService    services.TokenService
	imageService    services.ImageService
}

// NewServiceFactory создает новую фабрику сервисов.
func NewServiceFactory(jwtSecretKey string, sessionTTL time.Duration, bcryptCost int) *ServiceFactory {
	return &ServiceFactory{
		passwordService: NewBcrypt(bcryptCost),
		tokenService:    NewJWT(jwtSecretKey, sessionTTL),
		imageService:    NewImaging(),
	}
}

// PasswordService возвращает сервис для работы с паролями.
func (f *ServiceFactory) PasswordService() services.PasswordService {
	return f.passwordService
}

// TokenService возвращает сервис для работы с токенами.
func (f *ServiceFactory) TokenService() services.TokenService {
	return f.tokenService
}

// ImageService возвращает сервис обработки изображений.
func (f *ServiceFactory) ImageService() services.ImageService {
	return f.imageService
}
