package services

import (
	"context"

	"pvlink/internal/dossier"
	"pvlink/internal/logger"
	"pvlink/internal/repository"
)

// ImportResult summarizes one declaration import run.
type ImportResult struct {
	// Fetched is the number of dossiers returned by the source API,
	// duplicates included.
	Fetched int
	// Imported is the number of distinct declaration records written.
	Imported int
}

// ImportService fetches accepted declaration dossiers from the source
// API and upserts them as flat declaration rows.
type ImportService interface {
	Run(ctx context.Context) (ImportResult, error)
}

// importService is the concrete implementation of ImportService.
type importService struct {
	source    dossier.Source
	repo      repository.DossierRepository
	formatter *dossier.Formatter
	log       *logger.Logger
}

// NewImportService creates a new instance of ImportService.
func NewImportService(
	source dossier.Source,
	repo repository.DossierRepository,
	formatter *dossier.Formatter,
	log *logger.Logger,
) ImportService {
	return &importService{
		source:    source,
		repo:      repo,
		formatter: formatter,
		log:       log,
	}
}

// Run fetches, converts and persists the dossier batch. Champ-level
// conversion problems only degrade single fields; fetch and store
// failures abort the run.
func (s *importService) Run(ctx context.Context) (ImportResult, error) {
	raws, err := s.source.FetchDossiers(ctx)
	if err != nil {
		return ImportResult{}, err
	}
	s.log.Info("Fetched dossiers from source", map[string]interface{}{
		"count": len(raws),
	})

	records := s.formatter.FormatAll(raws)

	if err := s.repo.UpsertAll(ctx, records); err != nil {
		return ImportResult{}, err
	}
	s.log.Info("Declaration import finished", map[string]interface{}{
		"fetched":  len(raws),
		"imported": len(records),
	})

	return ImportResult{Fetched: len(raws), Imported: len(records)}, nil
}
