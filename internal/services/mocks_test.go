package services

import (
	"context"

	"github.com/stretchr/testify/mock"

	"pvlink/internal/dossier"
	"pvlink/internal/geometry"
	"pvlink/internal/models"
)

// MockDeclarationRepository is a mock implementation of DeclarationRepository for testing
type MockDeclarationRepository struct {
	mock.Mock
}

func (m *MockDeclarationRepository) LayerCRS(ctx context.Context) (geometry.CRS, error) {
	args := m.Called(ctx)
	crs, _ := args.Get(0).(geometry.CRS)
	return crs, args.Error(1)
}

func (m *MockDeclarationRepository) ListUngeoreferenced(ctx context.Context) ([]models.Declaration, error) {
	args := m.Called(ctx)
	decls, _ := args.Get(0).([]models.Declaration)
	return decls, args.Error(1)
}

func (m *MockDeclarationRepository) ListGeoreferenced(ctx context.Context) ([]models.Declaration, error) {
	args := m.Called(ctx)
	decls, _ := args.Get(0).([]models.Declaration)
	return decls, args.Error(1)
}

func (m *MockDeclarationRepository) UpdateGeometries(ctx context.Context, updates []models.GeometryUpdate, srid int) error {
	args := m.Called(ctx, updates, srid)
	return args.Error(0)
}

// MockCadastreRepository is a mock implementation of CadastreRepository for testing
type MockCadastreRepository struct {
	mock.Mock
}

func (m *MockCadastreRepository) LayerCRS(ctx context.Context) (geometry.CRS, error) {
	args := m.Called(ctx)
	crs, _ := args.Get(0).(geometry.CRS)
	return crs, args.Error(1)
}

func (m *MockCadastreRepository) FindByIdentifier(ctx context.Context, idu string) ([]models.CadastralParcel, error) {
	args := m.Called(ctx, idu)
	parcels, _ := args.Get(0).([]models.CadastralParcel)
	return parcels, args.Error(1)
}

// MockDetectionRepository is a mock implementation of DetectionRepository for testing
type MockDetectionRepository struct {
	mock.Mock
}

func (m *MockDetectionRepository) LayerCRS(ctx context.Context) (geometry.CRS, error) {
	args := m.Called(ctx)
	crs, _ := args.Get(0).(geometry.CRS)
	return crs, args.Error(1)
}

func (m *MockDetectionRepository) ListAll(ctx context.Context) ([]models.Detection, error) {
	args := m.Called(ctx)
	dets, _ := args.Get(0).([]models.Detection)
	return dets, args.Error(1)
}

// MockLinkRepository is a mock implementation of LinkRepository for testing
type MockLinkRepository struct {
	mock.Mock
}

func (m *MockLinkRepository) WriteLinks(ctx context.Context, links []models.PairingLink) error {
	args := m.Called(ctx, links)
	return args.Error(0)
}

// MockDossierRepository is a mock implementation of DossierRepository for testing
type MockDossierRepository struct {
	mock.Mock
}

func (m *MockDossierRepository) UpsertAll(ctx context.Context, records []models.DossierRecord) error {
	args := m.Called(ctx, records)
	return args.Error(0)
}

// MockDossierSource is a mock implementation of dossier.Source for testing
type MockDossierSource struct {
	mock.Mock
}

func (m *MockDossierSource) FetchDossiers(ctx context.Context) ([]dossier.RawDossier, error) {
	args := m.Called(ctx)
	raws, _ := args.Get(0).([]dossier.RawDossier)
	return raws, args.Error(1)
}
