package api

import (
	"context"
	"net/http"

	"go.hackfix.me/curator/db/models"
	dbtypes "go.hackfix.me/curator/db/types"
	"go.hackfix.me/curator/web/server/auth"
	"go.hackfix.me/curator/web/server/types"
)

// termStore adapts the category and tag models to a common set of
// operations, so that both can be served by the same handlers.
type termStore struct {
	target string
	list   func(context.Context, dbtypes.Querier) ([]types.Term, error)
	load   func(context.Context, dbtypes.Querier, string) (types.Term, error)
	save   func(context.Context, dbtypes.Querier, types.Term, bool) (types.Term, error)
	delete func(context.Context, dbtypes.Querier, string) error
}

func categoryStore() termStore {
	return termStore{
		target: auth.TargetCategories,
		list: func(ctx context.Context, d dbtypes.Querier) ([]types.Term, error) {
			cats, err := models.Categories(ctx, d, nil)
			if err != nil {
				return nil, err
			}
			terms := make([]types.Term, 0, len(cats))
			for _, c := range cats {
				terms = append(terms, types.NewCategory(c))
			}
			return terms, nil
		},
		load: func(ctx context.Context, d dbtypes.Querier, id string) (types.Term, error) {
			c := &models.Category{ID: id}
			err := c.Load(ctx, d)
			return types.NewCategory(c), err
		},
		save: func(ctx context.Context, d dbtypes.Querier, t types.Term, update bool) (types.Term, error) {
			c := &models.Category{ID: t.ID, Name: t.Name, Description: t.Description}
			err := c.Save(ctx, d, update)
			return types.NewCategory(c), err
		},
		delete: func(ctx context.Context, d dbtypes.Querier, id string) error {
			return (&models.Category{ID: id}).Delete(ctx, d)
		},
	}
}

func tagStore() termStore {
	return termStore{
		target: auth.TargetTags,
		list: func(ctx context.Context, d dbtypes.Querier) ([]types.Term, error) {
			tags, err := models.Tags(ctx, d, nil)
			if err != nil {
				return nil, err
			}
			terms := make([]types.Term, 0, len(tags))
			for _, t := range tags {
				terms = append(terms, types.NewTag(t))
			}
			return terms, nil
		},
		load: func(ctx context.Context, d dbtypes.Querier, id string) (types.Term, error) {
			t := &models.Tag{ID: id}
			err := t.Load(ctx, d)
			return types.NewTag(t), err
		},
		save: func(ctx context.Context, d dbtypes.Querier, term types.Term, update bool) (types.Term, error) {
			t := &models.Tag{ID: term.ID, Name: term.Name, Description: term.Description}
			err := t.Save(ctx, d, update)
			return types.NewTag(t), err
		},
		delete: func(ctx context.Context, d dbtypes.Querier, id string) error {
			return (&models.Tag{ID: id}).Delete(ctx, d)
		},
	}
}

// TermsList returns a handler that lists all terms of the store, with the
// number of sites each is assigned to.
func (h *Handler) TermsList(ts termStore) func(context.Context, *types.BaseRequest) (*types.TermsResponse, error) {
	return func(ctx context.Context, _ *types.BaseRequest) (*types.TermsResponse, error) {
		terms, err := ts.list(ctx, h.appCtx.DB)
		if err != nil {
			return nil, err
		}
		return types.NewTermsResponse(terms), nil
	}
}

// TermGet returns a handler that loads a single term.
func (h *Handler) TermGet(ts termStore) func(context.Context, *types.IDRequest) (*types.TermResponse, error) {
	return func(ctx context.Context, req *types.IDRequest) (*types.TermResponse, error) {
		term, err := ts.load(ctx, h.appCtx.DB, req.ID())
		if err != nil {
			return nil, apiError(err)
		}
		return types.NewTermResponse(http.StatusOK, term), nil
	}
}

// TermCreate returns a handler that creates a term.
func (h *Handler) TermCreate(ts termStore) func(context.Context, *types.TermRequest) (*types.TermResponse, error) {
	return func(ctx context.Context, req *types.TermRequest) (*types.TermResponse, error) {
		term, err := ts.save(ctx, h.appCtx.DB,
			types.Term{Name: req.Name, Description: req.Description}, false)
		if err != nil {
			return nil, apiError(err)
		}
		return types.NewTermResponse(http.StatusCreated, term), nil
	}
}

// TermUpdate returns a handler that updates the name and description of a
// term.
func (h *Handler) TermUpdate(ts termStore) func(context.Context, *types.TermRequest) (*types.TermResponse, error) {
	return func(ctx context.Context, req *types.TermRequest) (*types.TermResponse, error) {
		if err := req.IDRequest.Validate(); err != nil {
			return nil, err
		}
		term, err := ts.save(ctx, h.appCtx.DB,
			types.Term{ID: req.ID(), Name: req.Name, Description: req.Description}, true)
		if err != nil {
			return nil, apiError(err)
		}
		return types.NewTermResponse(http.StatusOK, term), nil
	}
}

// TermDelete returns a handler that deletes a term. Terms that are still
// assigned to sites can't be deleted.
func (h *Handler) TermDelete(ts termStore) func(context.Context, *types.IDRequest) (*types.EmptyResponse, error) {
	return func(ctx context.Context, req *types.IDRequest) (*types.EmptyResponse, error) {
		if err := ts.delete(ctx, h.appCtx.DB, req.ID()); err != nil {
			return nil, apiError(err)
		}
		return types.NewEmptyResponse(http.StatusOK), nil
	}
}
