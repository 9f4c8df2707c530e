package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/peterstace/simplefeatures/geom"

	apperrors "pvlink/internal/errors"
	"pvlink/internal/geometry"
	"pvlink/internal/logger"
	"pvlink/internal/models"
	"pvlink/internal/repository"
)

// GeometrizeResult summarizes one geometry resolution run.
type GeometrizeResult struct {
	// Resolved counts declarations whose geometry was derived and
	// written back.
	Resolved int
	// Skipped counts declarations with nothing to resolve (no declared
	// parcels).
	Skipped int
	// Failed counts declarations aborted by a missing cadastral parcel.
	Failed int
}

// GeometrizeService derives missing declaration geometries from the
// cadastral layer.
type GeometrizeService interface {
	// Run resolves every geometry-less declaration and writes the
	// derived geometries back in one transaction. A missing cadastral
	// parcel aborts only the owning declaration; a missing layer CRS or
	// a store failure aborts the run.
	Run(ctx context.Context) (*GeometrizeResult, error)
}

// geometrizeService is the concrete implementation of GeometrizeService.
type geometrizeService struct {
	declarations repository.DeclarationRepository
	cadastre     repository.CadastreRepository
	engine       *geometry.Engine
	log          *logger.Logger
}

// NewGeometrizeService creates a new instance of GeometrizeService.
func NewGeometrizeService(
	declarations repository.DeclarationRepository,
	cadastre repository.CadastreRepository,
	engine *geometry.Engine,
	log *logger.Logger,
) GeometrizeService {
	return &geometrizeService{
		declarations: declarations,
		cadastre:     cadastre,
		engine:       engine,
		log:          log,
	}
}

// Run executes the geometry resolution pipeline.
func (s *geometrizeService) Run(ctx context.Context) (*GeometrizeResult, error) {
	declCRS, err := s.declarations.LayerCRS(ctx)
	if err != nil {
		return nil, fmt.Errorf("declaration layer: %w", err)
	}
	cadCRS, err := s.cadastre.LayerCRS(ctx)
	if err != nil {
		return nil, fmt.Errorf("cadastre layer: %w", err)
	}

	sameCRS := cadCRS.Equal(declCRS)
	needsSwap := false
	if !sameCRS {
		needsSwap = geometry.NeedsAxisSwap(cadCRS, declCRS)
	}
	s.log.Info("Computing declaration geometries", map[string]interface{}{
		"declaration_crs": declCRS.String(),
		"cadastre_crs":    cadCRS.String(),
		"axis_swap":       needsSwap,
	})

	declarations, err := s.declarations.ListUngeoreferenced(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list declarations: %w", err)
	}

	result := &GeometrizeResult{}
	updates := []models.GeometryUpdate{}
	for i := range declarations {
		decl := &declarations[i]
		if len(decl.Parcels) == 0 {
			s.log.Debug("Declaration has no declared parcels, skipping", map[string]interface{}{
				"farm_fid": decl.FarmFID,
			})
			result.Skipped++
			continue
		}

		resolved, err := s.resolveParcels(ctx, decl, cadCRS, declCRS, needsSwap)
		if err != nil {
			if apperrors.IsParcelNotFound(err) {
				// Abort this declaration only; the batch keeps going.
				s.log.Warn("Declaration left unresolved", map[string]interface{}{
					"farm_fid": decl.FarmFID,
					"reason":   err.Error(),
				})
				result.Failed++
				continue
			}
			return nil, err
		}

		updates = append(updates, models.GeometryUpdate{
			FarmFID: decl.FarmFID,
			WKT:     s.engine.ToWKT(resolved),
		})
		result.Resolved++
	}

	if err := s.declarations.UpdateGeometries(ctx, updates, declCRS.Code); err != nil {
		return nil, err
	}

	s.log.Info("Geometry resolution finished", map[string]interface{}{
		"resolved": result.Resolved,
		"skipped":  result.Skipped,
		"failed":   result.Failed,
	})
	return result, nil
}

// resolveParcels merges the cadastral geometries of every declared
// parcel into a single polygon expressed in the declaration layer's
// CRS. The first geometry seeds the accumulator and each subsequent one
// is unioned in; duplicates in the declared list are wasteful but safe,
// union being idempotent.
func (s *geometrizeService) resolveParcels(
	ctx context.Context,
	decl *models.Declaration,
	cadCRS, declCRS geometry.CRS,
	needsSwap bool,
) (geom.Geometry, error) {
	var acc geom.Geometry
	seeded := false

	for _, idu := range decl.Parcels {
		parcels, err := s.cadastre.FindByIdentifier(ctx, idu)
		if err != nil {
			return geom.Geometry{}, fmt.Errorf("looking up parcel %q: %w", idu, err)
		}
		if len(parcels) == 0 {
			return geom.Geometry{}, &apperrors.ParcelNotFoundError{Identifier: idu, FarmFID: decl.FarmFID}
		}

		// Non-unique identifiers are a data error in the cadastral
		// layer, but every matching feature still contributes.
		for _, parcel := range parcels {
			g := parcel.Geom.G
			if !cadCRS.Equal(declCRS) {
				if needsSwap {
					if g, err = s.engine.SwapXY(g); err != nil {
						return geom.Geometry{}, fmt.Errorf("parcel %q: %w", idu, err)
					}
				}
				if g, err = s.engine.Reproject(g, cadCRS, declCRS); err != nil {
					return geom.Geometry{}, fmt.Errorf("parcel %q: %w", idu, err)
				}
			}

			if !seeded {
				acc = g
				seeded = true
				continue
			}
			if acc, err = s.engine.Union(acc, g); err != nil {
				return geom.Geometry{}, fmt.Errorf("parcel %q: %w", idu, err)
			}
		}
	}

	if !seeded {
		// Cannot happen with a non-empty parcel list, but a zero-value
		// geometry must never reach the store.
		return geom.Geometry{}, errors.New("no parcel geometry accumulated")
	}
	return acc, nil
}
