package repository

import (
	"welearn_backend/internal/model"

	"gorm.io/gorm"
)

type CertificateRepository struct {
	DB *gorm.DB
}

func NewCertificateRepository(db *gorm.DB) *CertificateRepository {
	return &CertificateRepository{DB: db}
}

func (r *CertificateRepository) Create(certificate *model.Certificate) error {
	return r.DB.Create(certificate).Error
}

func (r *CertificateRepository) FindByID(id string) (*model.Certificate, error) {
	var certificate model.Certificate
	if err := r.DB.Where("id = ?", id).First(&certificate).Error; err != nil {
		return nil, err
	}
	return &certificate, nil
}

func (r *CertificateRepository) FindByUserAndCourse(userID uint, courseID string) (*model.Certificate, error) {
	var certificate model.Certificate
	if err := r.DB.Where("user_id = ? AND course_id = ?", userID, courseID).First(&certificate).Error; err != nil {
		return nil, err
	}
	return &certificate, nil
}

func (r *CertificateRepository) FindByUser(userID uint) ([]model.Certificate, error) {
	var certificates []model.Certificate
	err := r.DB.Where("user_id = ?", userID).Order("issued_at DESC").Find(&certificates).Error
	return certificates, err
}

func (r *CertificateRepository) CountAll() (int64, error) {
	var count int64
	err := r.DB.Model(&model.Certificate{}).Count(&count).Error
	return count, err
}
