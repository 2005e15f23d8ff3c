package repo

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"careers-portal/internal/domain"
)

type ApplicantRepo struct{ db *gorm.DB }

func NewApplicantRepo(db *gorm.DB) *ApplicantRepo { return &ApplicantRepo{db: db} }

func (r *ApplicantRepo) Insert(ctx context.Context, a *domain.Applicant) (int64, error) {
	a.ID = 0 // 由数据库分配
	if err := r.db.WithContext(ctx).Create(a).Error; err != nil {
		return 0, err
	}
	return a.ID, nil
}

func (r *ApplicantRepo) List(ctx context.Context) ([]domain.Applicant, error) {
	var out []domain.Applicant
	if err := r.db.WithContext(ctx).Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ApplicantRepo) Get(ctx context.Context, id int64) (*domain.Applicant, error) {
	var a domain.Applicant
	err := r.db.WithContext(ctx).First(&a, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &a, nil
}

// Delete 不存在时为 no-op
func (r *ApplicantRepo) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&domain.Applicant{}).Error
}
