package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"careers-portal/internal/core/metrics"
	"careers-portal/internal/domain"
)

// ApplicationForm 投递表单
type ApplicationForm struct {
	Name      string `form:"name" validate:"required"`
	Email     string `form:"email" validate:"required"`
	WhatsApp  string `form:"whatsapp"`
	Role      string `form:"role" validate:"required"`
	Skills    string `form:"skills"`
	Portfolio string `form:"portfolio"`
	Message   string `form:"message"`
	NDA       string `form:"nda"`
}

// Resume 可选附件；Filename 为空视为未上传
type Resume struct {
	Filename string
	Body     io.Reader
}

// ResumeStore 简历文件存储（见 storage/upload）
type ResumeStore interface {
	Save(ctx context.Context, original string, r io.Reader) (string, error)
	Remove(name string) error
}

type Intake struct {
	repo     domain.ApplicantRepository
	files    ResumeStore
	log      *zap.Logger
	validate *validator.Validate
	now      func() time.Time
}

func NewIntake(repo domain.ApplicantRepository, files ResumeStore, l *zap.Logger) *Intake {
	return &Intake{
		repo:     repo,
		files:    files,
		log:      l,
		validate: validator.New(),
		now:      time.Now,
	}
}

// Submit 单次校验：必填 → NDA → 附件类型，首个失败即返回。
func (s *Intake) Submit(ctx context.Context, form ApplicationForm, resume *Resume) (*domain.Applicant, error) {
	form = clean(form)

	if err := s.validate.Struct(form); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			s.reject(metrics.ResultMissingFields)
			return nil, domain.ErrMissingFields
		}
		return nil, err
	}
	if !consented(form.NDA) {
		s.reject(metrics.ResultConsentRequired)
		return nil, domain.ErrConsentRequired
	}

	a := &domain.Applicant{
		Name:      form.Name,
		Email:     form.Email,
		WhatsApp:  form.WhatsApp,
		Role:      form.Role,
		Skills:    form.Skills,
		Portfolio: form.Portfolio,
		Message:   form.Message,
	}

	if resume != nil && resume.Filename != "" {
		name, err := s.files.Save(ctx, resume.Filename, resume.Body)
		if err != nil {
			if errors.Is(err, domain.ErrInvalidFileType) {
				s.reject(metrics.ResultInvalidFileType)
				return nil, domain.ErrInvalidFileType
			}
			s.reject(metrics.ResultError)
			return nil, fmt.Errorf("save resume: %w", err)
		}
		a.ResumeFilename = &name
	}

	a.Stamp(s.now())
	if _, err := s.repo.Insert(ctx, a); err != nil {
		// 尽力清理刚写入的文件
		if a.HasResume() {
			if rmErr := s.files.Remove(*a.ResumeFilename); rmErr != nil {
				s.log.Warn("orphaned resume after failed insert",
					zap.String("file", *a.ResumeFilename), zap.Error(rmErr))
			}
		}
		s.reject(metrics.ResultError)
		return nil, fmt.Errorf("insert applicant: %w", err)
	}

	metrics.ApplicationsSubmitted.WithLabelValues(metrics.ResultAccepted).Inc()
	s.log.Info("applicant submitted",
		zap.Int64("id", a.ID),
		zap.String("role", a.Role),
		zap.Bool("resume", a.HasResume()),
	)
	return a, nil
}

func (s *Intake) reject(result string) {
	metrics.ApplicationsSubmitted.WithLabelValues(result).Inc()
}

// clean 只做首尾空白裁剪，内容原样入库（输出时由模板转义）
func clean(f ApplicationForm) ApplicationForm {
	text := strings.TrimSpace
	return ApplicationForm{
		Name:      text(f.Name),
		Email:     text(f.Email),
		WhatsApp:  text(f.WhatsApp),
		Role:      text(f.Role),
		Skills:    text(f.Skills),
		Portfolio: text(f.Portfolio),
		Message:   text(f.Message),
		NDA:       text(f.NDA),
	}
}

func consented(v string) bool {
	switch strings.ToLower(v) {
	case "", "0", "false", "off", "no":
		return false
	}
	return true
}
