package services

import (
	"context"
	"fmt"

	"pvlink/internal/geometry"
	"pvlink/internal/logger"
	"pvlink/internal/models"
	"pvlink/internal/repository"
)

// PairingResult summarizes one pairing run.
type PairingResult struct {
	// Candidates counts declarations eligible for pairing (geometry and
	// installation date both present).
	Candidates int
	// Detections counts the detections compared against.
	Detections int
	// Links counts the accepted pairs handed to the link writer. The
	// set may include pairs already persisted; the writer keeps the
	// store unique.
	Links int
}

// PairingService establishes candidate identity links between
// declarations and detections.
type PairingService interface {
	// Run compares every detection against every candidate declaration
	// and persists the accepted pairs idempotently. A missing layer CRS
	// or a store failure aborts the run.
	Run(ctx context.Context) (*PairingResult, error)
}

// pairingService is the concrete implementation of PairingService.
type pairingService struct {
	declarations repository.DeclarationRepository
	detections   repository.DetectionRepository
	links        repository.LinkRepository
	engine       *geometry.Engine
	log          *logger.Logger
}

// NewPairingService creates a new instance of PairingService.
func NewPairingService(
	declarations repository.DeclarationRepository,
	detections repository.DetectionRepository,
	links repository.LinkRepository,
	engine *geometry.Engine,
	log *logger.Logger,
) PairingService {
	return &pairingService{
		declarations: declarations,
		detections:   detections,
		links:        links,
		engine:       engine,
		log:          log,
	}
}

// Run executes the spatio-temporal pairing pipeline.
func (s *pairingService) Run(ctx context.Context) (*PairingResult, error) {
	declCRS, err := s.declarations.LayerCRS(ctx)
	if err != nil {
		return nil, fmt.Errorf("declaration layer: %w", err)
	}
	detCRS, err := s.detections.LayerCRS(ctx)
	if err != nil {
		return nil, fmt.Errorf("detection layer: %w", err)
	}

	candidates, err := s.declarations.ListGeoreferenced(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list candidate declarations: %w", err)
	}

	// Reproject each candidate once into the detection CRS, reused
	// across every comparison; never per pair.
	if !declCRS.Equal(detCRS) {
		needsSwap := geometry.NeedsAxisSwap(declCRS, detCRS)
		s.log.Info("Reprojecting declarations into detection CRS", map[string]interface{}{
			"declaration_crs": declCRS.String(),
			"detection_crs":   detCRS.String(),
			"axis_swap":       needsSwap,
		})
		for i := range candidates {
			g := candidates[i].Geom.G
			if needsSwap {
				if g, err = s.engine.SwapXY(g); err != nil {
					return nil, fmt.Errorf("declaration %d: %w", candidates[i].FarmFID, err)
				}
			}
			if g, err = s.engine.Reproject(g, declCRS, detCRS); err != nil {
				return nil, fmt.Errorf("declaration %d: %w", candidates[i].FarmFID, err)
			}
			candidates[i].Geom = &models.Geometry{G: g, SRID: detCRS.Code}
		}
	}

	detections, err := s.detections.ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list detections: %w", err)
	}

	s.log.Info("Computing pairs", map[string]interface{}{
		"candidates": len(candidates),
		"detections": len(detections),
	})

	// Full cross product; acceptance needs spatial intersection
	// (boundary touching included) and a detection year at or after the
	// installation year.
	seen := map[models.PairingLink]struct{}{}
	links := []models.PairingLink{}
	for i := range detections {
		det := &detections[i]
		for j := range candidates {
			decl := &candidates[j]
			if !s.engine.Intersects(det.Geom.G, decl.Geom.G) {
				continue
			}
			if det.Millesime < decl.InstallationDate.Year() {
				continue
			}

			link := models.PairingLink{DeclarationID: decl.FarmFID, DetectionID: det.ID}
			if _, dup := seen[link]; dup {
				continue
			}
			seen[link] = struct{}{}
			links = append(links, link)
		}
	}

	if err := s.links.WriteLinks(ctx, links); err != nil {
		return nil, err
	}

	result := &PairingResult{
		Candidates: len(candidates),
		Detections: len(detections),
		Links:      len(links),
	}
	s.log.Info("Pairing finished", map[string]interface{}{
		"candidates": result.Candidates,
		"detections": result.Detections,
		"links":      result.Links,
	})
	return result, nil
}
