package service

import (
	"context"
	"strings"
	"time"

	"assessments/internal/db"
	"assessments/internal/entities"
	apperrors "assessments/internal/errors"
	"assessments/internal/logger"
	"assessments/internal/repository"
	"github.com/google/uuid"
)

const fitSource = "website"

// LeadNotifier delivers lead-capture emails.
type LeadNotifier interface {
	FitRequestReceived(ctx context.Context, fr db.FitRequest) error
	AssessmentRequested(ctx context.Context, req entities.AssessmentRequest) error
}

type FitService struct {
	Repo      *repository.FitRepository
	notifier  LeadNotifier
	validator *RequestValidator
	log       *logger.Logger
	now       func() time.Time
}

func NewFitService(repo *repository.FitRepository, notifier LeadNotifier, log *logger.Logger) *FitService {
	return &FitService{Repo: repo, notifier: notifier, validator: NewRequestValidator(), log: log, now: time.Now}
}

// SubmitFit stores a fit request and emails the fit inbox. A filled honeypot
// returns an empty ID and no error so bots see a normal success.
func (s *FitService) SubmitFit(ctx context.Context, p entities.FitPayload) (string, error) {
	if strings.TrimSpace(p.Honey) != "" {
		s.log.Info("Fit request dropped by honeypot")
		return "", nil
	}
	p = normalizeFitPayload(p)
	if err := s.validator.Struct(p); err != nil {
		return "", err
	}

	fr := &db.FitRequest{
		ID:        "fitRequest_" + uuid.NewString(),
		Name:      p.Name,
		Email:     p.Email,
		Company:   p.Company,
		Website:   p.Website,
		Budget:    p.Budget,
		Timeline:  p.Timeline,
		Services:  p.Services,
		Message:   p.Message,
		Source:    fitSource,
		CreatedAt: s.now().UTC(),
	}
	if err := s.Repo.CreateFitRequest(ctx, fr); err != nil {
		return "", apperrors.ErrTransient("Server error. Please try again.", err)
	}

	if err := s.notifier.FitRequestReceived(ctx, *fr); err != nil {
		s.log.Warn("Fit email not sent", "id", fr.ID, "error", err)
	}
	return fr.ID, nil
}

// RequestAssessment emails the operator. Email is the only effect, so a
// delivery failure fails the request.
func (s *FitService) RequestAssessment(ctx context.Context, req entities.AssessmentRequest) error {
	req.FullName = strings.TrimSpace(req.FullName)
	req.Email = strings.TrimSpace(req.Email)
	req.Company = strings.TrimSpace(req.Company)
	req.Website = strings.TrimSpace(req.Website)
	req.Goal = strings.TrimSpace(req.Goal)
	if err := s.validator.Struct(req); err != nil {
		return err
	}
	if err := s.notifier.AssessmentRequested(ctx, req); err != nil {
		s.log.Error("Assessment request email failed", "email", req.Email, "error", err)
		return apperrors.ErrTransient("Server error. Please try again.", err)
	}
	return nil
}

func normalizeFitPayload(p entities.FitPayload) entities.FitPayload {
	p.Name = strings.TrimSpace(p.Name)
	p.Email = strings.TrimSpace(p.Email)
	p.Company = strings.TrimSpace(p.Company)
	p.Website = strings.TrimSpace(p.Website)
	p.Budget = strings.TrimSpace(p.Budget)
	p.Timeline = strings.TrimSpace(p.Timeline)
	p.Message = strings.TrimSpace(p.Message)
	services := make([]string, 0, len(p.Services))
	for _, svc := range p.Services {
		if svc = strings.TrimSpace(svc); svc != "" {
			services = append(services, svc)
		}
	}
	p.Services = services
	return p
}
