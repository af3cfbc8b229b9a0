package services

import (
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/inneranimal/rescue-api/internal/models"
)

// AnalyticsTotals summarizes submission volume and delivery health
type AnalyticsTotals struct {
	Submissions     int64   `json:"submissions"`
	Successful      int64   `json:"successful"`
	Failed          int64   `json:"failed"`
	AdminEmailsSent int64   `json:"adminEmailsSent"`
	UserEmailsSent  int64   `json:"userEmailsSent"`
	ResponseRate    float64 `json:"responseRate"`
}

// SubmissionSummary is a submission's delivery status without any of the
// submitter's contact details
type SubmissionSummary struct {
	ID               string    `json:"id"`
	FormType         string    `json:"formType"`
	SubmissionStatus string    `json:"submissionStatus"`
	AdminEmailSent   bool      `json:"adminEmailSent"`
	UserEmailSent    bool      `json:"userEmailSent"`
	AdminEmailError  string    `json:"adminEmailError,omitempty"`
	UserEmailError   string    `json:"userEmailError,omitempty"`
	CreatedAt        time.Time `json:"createdAt"`
}

// AnalyticsReport is the admin dashboard payload
type AnalyticsReport struct {
	Days   int                 `json:"days"`
	Totals AnalyticsTotals     `json:"totals"`
	Recent []SubmissionSummary `json:"recent"`
	Issues []SubmissionSummary `json:"issues"`
}

// formTables maps form type filters to their backing tables
var formTables = map[string]string{
	"tnr_request":          models.TNRRequest{}.TableName(),
	"adoption_application": models.AdoptionApplication{}.TableName(),
}

// GetFormAnalytics computes submission analytics over the last N days.
// An empty formType covers both form tables.
func GetFormAnalytics(db *gorm.DB, formType string, days int) (*AnalyticsReport, error) {
	if days <= 0 {
		days = 30
	}
	cutoff := time.Now().UTC().AddDate(0, 0, -days)

	tables := make(map[string]string)
	if formType == "" {
		for k, v := range formTables {
			tables[k] = v
		}
	} else {
		table, ok := formTables[formType]
		if !ok {
			return nil, fmt.Errorf("unknown form type: %s", formType)
		}
		tables[formType] = table
	}

	report := &AnalyticsReport{
		Days:   days,
		Recent: []SubmissionSummary{},
		Issues: []SubmissionSummary{},
	}

	for ft, table := range tables {
		scoped := func() *gorm.DB {
			return db.Table(table).Where("created_at >= ?", cutoff)
		}

		var count int64
		if err := scoped().Count(&count).Error; err != nil {
			return nil, fmt.Errorf("failed to count %s: %w", table, err)
		}
		report.Totals.Submissions += count

		var delivered int64
		err := scoped().
			Where("admin_email_sent = ? AND user_email_sent = ?", true, true).
			Count(&delivered).Error
		if err != nil {
			return nil, fmt.Errorf("failed to count delivered %s: %w", table, err)
		}
		report.Totals.Successful += delivered

		var adminSent int64
		if err := scoped().Where("admin_email_sent = ?", true).Count(&adminSent).Error; err != nil {
			return nil, fmt.Errorf("failed to count admin emails for %s: %w", table, err)
		}
		report.Totals.AdminEmailsSent += adminSent

		var userSent int64
		if err := scoped().Where("user_email_sent = ?", true).Count(&userSent).Error; err != nil {
			return nil, fmt.Errorf("failed to count user emails for %s: %w", table, err)
		}
		report.Totals.UserEmailsSent += userSent

		var recent []SubmissionSummary
		err = scoped().
			Select("id, submission_status, admin_email_sent, user_email_sent, admin_email_error, user_email_error, created_at").
			Order("created_at DESC").
			Limit(10).
			Scan(&recent).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load recent %s: %w", table, err)
		}
		for i := range recent {
			recent[i].FormType = ft
		}
		report.Recent = append(report.Recent, recent...)

		var issues []SubmissionSummary
		err = scoped().
			Select("id, submission_status, admin_email_sent, user_email_sent, admin_email_error, user_email_error, created_at").
			Where("submission_status = ? OR admin_email_sent = ? OR user_email_sent = ?", "failed", false, false).
			Order("created_at DESC").
			Scan(&issues).Error
		if err != nil {
			return nil, fmt.Errorf("failed to load issues for %s: %w", table, err)
		}
		for i := range issues {
			issues[i].FormType = ft
		}
		report.Issues = append(report.Issues, issues...)
	}

	report.Totals.Failed = report.Totals.Submissions - report.Totals.Successful
	if report.Totals.Submissions > 0 {
		report.Totals.ResponseRate = float64(report.Totals.Successful) / float64(report.Totals.Submissions) * 100
	}

	return report, nil
}
