package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/justsurfingit/jobtrack-ai/internal/apperror"
	"github.com/justsurfingit/jobtrack-ai/internal/dtos"
	"github.com/justsurfingit/jobtrack-ai/internal/models"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

const (
	tailoredSeparator = "\n\n--- TAILORED RESUME ---\n"
	msgNoResume       = "No tailored resume found. Run 'Tailor Resume' first."
	msgPDFReady       = "PDF generated successfully! Download from frontend."
	msgNoAnalysis     = "No AI analysis yet"
)

// ApplicationService owns the applications table. Every lookup is scoped to
// the calling user; rows of other users behave as if they did not exist.
type ApplicationService struct {
	DB         *gorm.DB
	LLMService *LLMService
	Log        logrus.FieldLogger
}

func NewApplicationService(db *gorm.DB, llm *LLMService, log logrus.FieldLogger) *ApplicationService {
	return &ApplicationService{
		DB:         db,
		LLMService: llm,
		Log:        log,
	}
}

func (s *ApplicationService) Create(ctx context.Context, userID uint, req *dtos.ApplicationCreateRequest) (*models.Application, error) {
	applied, err := dtos.ParseDate(req.DateApplied)
	if err != nil {
		return nil, apperror.ValidationFailed("date_applied", err.Error())
	}

	app := &models.Application{
		UserID:         userID,
		Company:        req.Company,
		Role:           req.Role,
		DateApplied:    applied,
		Status:         models.StatusApplied,
		JobDescription: req.JobDescription,
		ResumeContent:  req.ResumeContent,
	}
	if err := s.DB.WithContext(ctx).Create(app).Error; err != nil {
		return nil, fmt.Errorf("applications: create: %w", err)
	}
	return app, nil
}

// List returns the user's applications in insertion order.
func (s *ApplicationService) List(ctx context.Context, userID uint) ([]models.Application, error) {
	apps := []models.Application{}
	if err := s.DB.WithContext(ctx).Where("user_id = ?", userID).Order("id").Find(&apps).Error; err != nil {
		return nil, fmt.Errorf("applications: list: %w", err)
	}
	return apps, nil
}

func (s *ApplicationService) Find(ctx context.Context, appID, userID uint) (*models.Application, error) {
	return findOwned(s.DB.WithContext(ctx), appID, userID)
}

func findOwned(db *gorm.DB, appID, userID uint) (*models.Application, error) {
	var app models.Application
	err := db.Where("id = ? AND user_id = ?", appID, userID).First(&app).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, apperror.NotFound("Application")
	}
	if err != nil {
		return nil, fmt.Errorf("applications: find %d: %w", appID, err)
	}
	return &app, nil
}

// Update applies an allow-listed patch and returns the stored row.
func (s *ApplicationService) Update(ctx context.Context, appID, userID uint, patch dtos.ApplicationPatch) (*models.Application, error) {
	var app *models.Application
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		current, err := findOwned(tx, appID, userID)
		if err != nil {
			return err
		}
		if len(patch) > 0 {
			if err := tx.Model(current).Where("user_id = ?", userID).Updates(map[string]any(patch)).Error; err != nil {
				return fmt.Errorf("applications: update %d: %w", appID, err)
			}
		}
		app, err = findOwned(tx, appID, userID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return app, nil
}

func (s *ApplicationService) Delete(ctx context.Context, appID, userID uint) error {
	res := s.DB.WithContext(ctx).Where("id = ? AND user_id = ?", appID, userID).Delete(&models.Application{})
	if res.Error != nil {
		return fmt.Errorf("applications: delete %d: %w", appID, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperror.NotFound("Application")
	}
	return nil
}

// AnalyzeJobDescription stores the posting and, when the model answered,
// replaces the notes with its analysis.
func (s *ApplicationService) AnalyzeJobDescription(ctx context.Context, appID, userID uint, jobDesc string) (Completion, error) {
	app, err := s.Find(ctx, appID, userID)
	if err != nil {
		return Completion{}, err
	}

	result := s.LLMService.AnalyzeJobDescription(ctx, jobDesc)
	updates := map[string]any{"job_description": jobDesc}
	if !result.Degraded() {
		updates["notes"] = result.Text
	}
	if err := s.save(ctx, app, updates); err != nil {
		return Completion{}, err
	}
	return result, nil
}

// TailorResume feeds the current notes to the model as the job analysis and
// appends the suggestions below them.
func (s *ApplicationService) TailorResume(ctx context.Context, appID, userID uint, resume string) (Completion, error) {
	app, err := s.Find(ctx, appID, userID)
	if err != nil {
		return Completion{}, err
	}

	notes := app.NotesText()
	result := s.LLMService.TailorResume(ctx, resume, notes)
	updates := map[string]any{"resume_content": resume}
	if !result.Degraded() {
		if notes != "" {
			updates["notes"] = notes + tailoredSeparator + result.Text
		} else {
			updates["notes"] = result.Text
		}
	}
	if err := s.save(ctx, app, updates); err != nil {
		return Completion{}, err
	}
	return result, nil
}

// AnalyzeRejection marks the application rejected and keeps the model's
// reading of the email in the notes.
func (s *ApplicationService) AnalyzeRejection(ctx context.Context, appID, userID uint, email string) (Completion, error) {
	app, err := s.Find(ctx, appID, userID)
	if err != nil {
		return Completion{}, err
	}

	result := s.LLMService.AnalyzeRejection(ctx, email)
	updates := map[string]any{"status": models.StatusRejected}
	if !result.Degraded() {
		updates["notes"] = result.Text
	}
	if err := s.save(ctx, app, updates); err != nil {
		return Completion{}, err
	}
	return result, nil
}

func (s *ApplicationService) SuggestJobs(ctx context.Context, skills string) Completion {
	return s.LLMService.SuggestJobs(ctx, skills)
}

// ExportPDF renders the stored resume together with the AI notes.
func (s *ApplicationService) ExportPDF(ctx context.Context, appID uint, user *models.User) (*dtos.PDFResponse, error) {
	app, err := s.Find(ctx, appID, user.ID)
	if err != nil {
		return nil, err
	}
	if app.ResumeText() == "" {
		return nil, apperror.BadRequest(msgNoResume)
	}

	doc, err := s.LLMService.RenderPDF(exportContent(app, user.Email), exportFilename(app))
	if err != nil {
		return nil, fmt.Errorf("applications: export %d: %w", appID, err)
	}
	return &dtos.PDFResponse{
		Filename: doc.Filename,
		Base64:   doc.Base64,
		Message:  msgPDFReady,
	}, nil
}

func exportContent(app *models.Application, email string) string {
	applied := "N/A"
	if !app.DateApplied.IsZero() {
		applied = app.DateApplied.Format("2006-01-02")
	}
	notes := app.NotesText()
	if notes == "" {
		notes = msgNoAnalysis
	}

	var b strings.Builder
	fmt.Fprintf(&b, "TAILORED RESUME FOR %s - %s\n\n", strings.ToUpper(app.Company), strings.ToUpper(app.Role))
	fmt.Fprintf(&b, "Candidate: %s\n", email)
	fmt.Fprintf(&b, "Applied on: %s\n\n", applied)
	b.WriteString("=== TAILORED RESUME CONTENT ===\n")
	b.WriteString(app.ResumeText())
	b.WriteString("\n\n=== AI SUGGESTIONS & COVER LETTER ===\n")
	b.WriteString(notes)
	return strings.TrimSpace(b.String())
}

func exportFilename(app *models.Application) string {
	return fmt.Sprintf("resume_%s_%s_%d.pdf", app.Company, app.Role, app.ID)
}

func (s *ApplicationService) save(ctx context.Context, app *models.Application, updates map[string]any) error {
	err := s.DB.WithContext(ctx).Model(app).Where("user_id = ?", app.UserID).Updates(updates).Error
	if err != nil {
		return fmt.Errorf("applications: update %d: %w", app.ID, err)
	}
	return nil
}
