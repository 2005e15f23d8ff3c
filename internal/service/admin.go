package service

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"careers-portal/internal/core/metrics"
	"careers-portal/internal/domain"
)

// ResumeFiles 后台需要的文件操作
type ResumeFiles interface {
	Remove(name string) error
	Open(ctx context.Context, name string) (*os.File, error)
}

type AdminView struct {
	repo  domain.ApplicantRepository
	files ResumeFiles
	log   *zap.Logger
}

func NewAdminView(repo domain.ApplicantRepository, files ResumeFiles, l *zap.Logger) *AdminView {
	return &AdminView{repo: repo, files: files, log: l}
}

// List 全部记录，id 倒序
func (s *AdminView) List(ctx context.Context) ([]domain.Applicant, error) {
	return s.repo.List(ctx)
}

// Delete 先删附件再删记录；附件删除失败则整体失败，记录保留。
// id 不存在时为 no-op。
func (s *AdminView) Delete(ctx context.Context, id int64) error {
	a, err := s.repo.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("get applicant %d: %w", id, err)
	}
	if a == nil {
		return nil
	}
	if a.HasResume() {
		if err := s.files.Remove(*a.ResumeFilename); err != nil {
			s.log.Error("remove resume failed, applicant kept",
				zap.Int64("id", id), zap.String("file", *a.ResumeFilename), zap.Error(err))
			return fmt.Errorf("remove resume: %w", err)
		}
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete applicant %d: %w", id, err)
	}
	metrics.ApplicantsDeleted.Inc()
	s.log.Info("applicant deleted", zap.Int64("id", id), zap.Bool("resume", a.HasResume()))
	return nil
}

// OpenResume 打开已存储的简历；调用方负责 Close
func (s *AdminView) OpenResume(ctx context.Context, name string) (*os.File, error) {
	return s.files.Open(ctx, name)
}
