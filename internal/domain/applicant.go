package domain

import (
	"context"
	"time"
)

// SubmittedAtLayout ISO-8601，UTC，微秒精度
const SubmittedAtLayout = "2006-01-02T15:04:05.000000"

type Applicant struct {
	ID             int64   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name           string  `gorm:"type:text" json:"name"`
	Email          string  `gorm:"type:text" json:"email"`
	WhatsApp       string  `gorm:"column:whatsapp;type:text" json:"whatsapp"`
	Role           string  `gorm:"type:text" json:"role"`
	Skills         string  `gorm:"type:text" json:"skills"`
	Portfolio      string  `gorm:"type:text" json:"portfolio"`
	Message        string  `gorm:"type:text" json:"message"`
	ResumeFilename *string `gorm:"column:resume_filename;type:text" json:"resumeFilename"`
	SubmittedAt    string  `gorm:"column:submitted_at;type:text" json:"submittedAt"`
}

func (Applicant) TableName() string { return "applicants" }

// HasResume 是否带简历附件
func (a Applicant) HasResume() bool {
	return a.ResumeFilename != nil && *a.ResumeFilename != ""
}

// Resume 附件文件名，无附件为空串
func (a Applicant) Resume() string {
	if a.ResumeFilename == nil {
		return ""
	}
	return *a.ResumeFilename
}

// Stamp 写入当前 UTC 提交时间
func (a *Applicant) Stamp(now time.Time) {
	a.SubmittedAt = now.UTC().Format(SubmittedAtLayout)
}

// ApplicantRepository 每次调用独立获取连接；未找到返回 (nil, nil)
type ApplicantRepository interface {
	Insert(ctx context.Context, a *Applicant) (int64, error)
	List(ctx context.Context) ([]Applicant, error)
	Get(ctx context.Context, id int64) (*Applicant, error)
	Delete(ctx context.Context, id int64) error
}
