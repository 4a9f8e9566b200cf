package repository

import (
	"context"
	"fmt"

	"assessments/internal/db"
	"assessments/internal/docstore"
	"assessments/internal/utils"
)

type FitRepository struct {
	Store docstore.Store
}

func NewFitRepository(store docstore.Store) *FitRepository {
	return &FitRepository{Store: store}
}

func (r *FitRepository) CreateFitRequest(ctx context.Context, fr *db.FitRequest) error {
	doc := docstore.Document{
		docstore.FieldID:   fr.ID,
		docstore.FieldType: db.TypeFitRequest,
		"name":             fr.Name,
		"email":            fr.Email,
		"budget":           fr.Budget,
		"timeline":         fr.Timeline,
		"services":         fr.Services,
		"message":          fr.Message,
		"source":           fr.Source,
		"createdAt":        utils.FormatUTC(fr.CreatedAt),
	}
	if fr.Company != "" {
		doc["company"] = fr.Company
	}
	if fr.Website != "" {
		doc["website"] = fr.Website
	}
	if err := r.Store.CreateIfNotExists(ctx, doc); err != nil {
		return fmt.Errorf("error creating fit request: %w", err)
	}
	return nil
}

// GetFitRequest returns nil, nil when absent.
func (r *FitRepository) GetFitRequest(ctx context.Context, id string) (*db.FitRequest, error) {
	docs, err := r.Store.GetMany(ctx, []string{id})
	if err != nil {
		return nil, fmt.Errorf("error fetching fit request %s: %w", id, err)
	}
	doc, ok := docs[id]
	if !ok {
		return nil, nil
	}
	created, _ := utils.ParseUTC(doc.String("createdAt"))
	return &db.FitRequest{
		ID:        doc.ID(),
		Name:      doc.String("name"),
		Email:     doc.String("email"),
		Company:   doc.String("company"),
		Website:   doc.String("website"),
		Budget:    doc.String("budget"),
		Timeline:  doc.String("timeline"),
		Services:  doc.Strings("services"),
		Message:   doc.String("message"),
		Source:    doc.String("source"),
		CreatedAt: created,
	}, nil
}
