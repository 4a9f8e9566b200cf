package service

import (
	"context"
	"errors"
	"strings"
	"testing"

	"assessments/internal/docstore"
	"assessments/internal/entities"
	apperrors "assessments/internal/errors"
	"assessments/internal/logger"
	"assessments/internal/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validFit() entities.FitPayload {
	return entities.FitPayload{
		Name:     " Grace Hopper ",
		Email:    "grace@example.com",
		Company:  "Navy",
		Budget:   "$10k-$25k",
		Timeline: "1-3 months",
		Services: []string{"Website", " ", "Automation"},
		Message:  "We need a faster site and less manual work.",
	}
}

func TestSubmitFit_StoresAndEmails(t *testing.T) {
	store := docstore.NewMemory()
	repo := repository.NewFitRepository(store)
	leads := &fakeLeads{}
	svc := NewFitService(repo, leads, logger.Discard())

	id, err := svc.SubmitFit(context.Background(), validFit())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(id, "fitRequest_"))

	fr, err := repo.GetFitRequest(context.Background(), id)
	require.NoError(t, err)
	require.NotNil(t, fr)
	assert.Equal(t, "Grace Hopper", fr.Name)
	assert.Equal(t, []string{"Website", "Automation"}, fr.Services)
	assert.Equal(t, "website", fr.Source)
	require.Len(t, leads.fits, 1)
}

func TestSubmitFit_EmailFailureStillSucceeds(t *testing.T) {
	store := docstore.NewMemory()
	svc := NewFitService(repository.NewFitRepository(store), &fakeLeads{err: errors.New("no key")}, logger.Discard())

	id, err := svc.SubmitFit(context.Background(), validFit())
	require.NoError(t, err)
	assert.NotEmpty(t, id)
	assert.Equal(t, 1, store.Len())
}

func TestSubmitFit_Honeypot(t *testing.T) {
	store := docstore.NewMemory()
	leads := &fakeLeads{}
	svc := NewFitService(repository.NewFitRepository(store), leads, logger.Discard())
	p := validFit()
	p.Honey = "http://spam.example"

	id, err := svc.SubmitFit(context.Background(), p)
	require.NoError(t, err)
	assert.Empty(t, id)
	assert.Zero(t, store.Len())
	assert.Empty(t, leads.fits)
}

func TestSubmitFit_Validation(t *testing.T) {
	tests := []struct {
		name string
		mut  func(*entities.FitPayload)
		msg  string
	}{
		{"name", func(p *entities.FitPayload) { p.Name = "" }, "Name is required"},
		{"email", func(p *entities.FitPayload) { p.Email = "grace" }, "Valid email is required"},
		{"budget", func(p *entities.FitPayload) { p.Budget = " " }, "Budget is required"},
		{"timeline", func(p *entities.FitPayload) { p.Timeline = "" }, "Timeline is required"},
		{"services", func(p *entities.FitPayload) { p.Services = []string{" "} }, "Choose at least 1 service"},
		{"message", func(p *entities.FitPayload) { p.Message = "short" }, "Message must be at least 10 characters"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := docstore.NewMemory()
			svc := NewFitService(repository.NewFitRepository(store), &fakeLeads{}, logger.Discard())
			p := validFit()
			tt.mut(&p)

			_, err := svc.SubmitFit(context.Background(), p)
			require.Error(t, err)
			assert.Equal(t, 400, apperrors.StatusCode(err))
			assert.Equal(t, tt.msg, apperrors.PublicMessage(err, ""))
			assert.Zero(t, store.Len())
		})
	}
}

func TestRequestAssessment(t *testing.T) {
	leads := &fakeLeads{}
	svc := NewFitService(repository.NewFitRepository(docstore.NewMemory()), leads, logger.Discard())
	req := entities.AssessmentRequest{FullName: "Alan Turing", Email: "alan@example.com", Goal: "Automate our intake workflow."}

	require.NoError(t, svc.RequestAssessment(context.Background(), req))
	require.Len(t, leads.assessments, 1)

	req.Goal = "faster"
	err := svc.RequestAssessment(context.Background(), req)
	assert.Equal(t, 400, apperrors.StatusCode(err))

	leads.err = errors.New("sendgrid down")
	req.Goal = "Automate our intake workflow."
	err = svc.RequestAssessment(context.Background(), req)
	assert.Equal(t, 500, apperrors.StatusCode(err))
}
