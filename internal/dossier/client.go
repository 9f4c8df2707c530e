package dossier

import (
	"context"
	"fmt"

	"github.com/machinebox/graphql"

	"pvlink/internal/config"
)

// Source fetches raw dossiers from the declaration source.
type Source interface {
	// FetchDossiers returns every accepted dossier of the configured
	// demarche, optionally restricted to ones updated since the
	// configured datetime.
	FetchDossiers(ctx context.Context) ([]RawDossier, error)
}

// demarcheQuery asks for accepted dossiers with all answered champs.
const demarcheQuery = `
query getDemarche(
  $demarcheNumber: Int!
  $state: DossierState
  $order: Order
  $updatedSince: ISO8601DateTime
) {
  demarche(number: $demarcheNumber) {
    dossiers(state: $state, order: $order, updatedSince: $updatedSince) {
      nodes {
        number
        demandeur {
          ... on PersonneMorale {
            siret
          }
        }
        champs {
          __typename
          label
          ... on TextChamp {
            stringValue
          }
          ... on CheckboxChamp {
            checked
          }
          ... on DateChamp {
            date
          }
          ... on IntegerNumberChamp {
            integerNumber
          }
          ... on DecimalNumberChamp {
            decimalNumber
          }
          ... on MultipleDropDownListChamp {
            primaryValue
            secondaryValue
          }
          ... on CarteChamp {
            geoAreas {
              source
              commune
              prefixe
              section
              numero
            }
          }
        }
      }
    }
  }
}
`

// GraphQLSource is the production Source implementation, talking to the
// declaration service GraphQL API with bearer token auth.
type GraphQLSource struct {
	client *graphql.Client
	cfg    config.ImportConfig
}

// NewGraphQLSource creates a GraphQLSource for the configured API.
func NewGraphQLSource(cfg config.ImportConfig) *GraphQLSource {
	return &GraphQLSource{
		client: graphql.NewClient(cfg.APIURL),
		cfg:    cfg,
	}
}

// FetchDossiers runs the demarche query and returns its dossiers.
func (s *GraphQLSource) FetchDossiers(ctx context.Context) ([]RawDossier, error) {
	req := graphql.NewRequest(demarcheQuery)
	req.Var("demarcheNumber", s.cfg.DemarcheID)
	req.Var("state", "accepte")
	req.Var("order", "ASC")
	if s.cfg.MinUpdateDatetime != "" {
		req.Var("updatedSince", s.cfg.MinUpdateDatetime)
	}
	req.Header.Set("Authorization", "Bearer "+s.cfg.AuthToken)

	var resp Response
	if err := s.client.Run(ctx, req, &resp); err != nil {
		return nil, fmt.Errorf("querying declaration source: %w", err)
	}
	return resp.Demarche.Dossiers.Nodes, nil
}
