package repositories

import (
	"zipcompressor/internal/domain/entities"
)

// ProfileRepository реализация репозитория профилей сжатия
type ProfileRepository struct{}

// NewProfileRepository создает новый репозиторий профилей
func NewProfileRepository() *ProfileRepository {
	return &ProfileRepository{}
}

// GetCompressionProfile получает профиль сжатия по уровню
func (r *ProfileRepository) GetCompressionProfile(level entities.CompressionLevel) (*entities.CompressionProfile, error) {
	return entities.ProfileForLevel(level), nil
}
