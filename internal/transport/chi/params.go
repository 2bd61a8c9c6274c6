package chi

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/oapi-codegen/runtime"
)

// similarityParams are the query parameters of POST /similarity.
type similarityParams struct {
	// Limit caps the number of results; 0 returns every stored patent.
	Limit int
}

// listParams are the query parameters of GET /patents.
type listParams struct {
	Limit  int
	Offset int
}

func bindSimilarityParams(r *http.Request) (similarityParams, error) {
	var limit *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		return similarityParams{}, fmt.Errorf("invalid format for parameter limit: %w", err)
	}

	p := similarityParams{}
	if limit != nil {
		if *limit < 0 {
			return similarityParams{}, errors.New("limit must be >= 0")
		}
		p.Limit = *limit
	}
	return p, nil
}

func bindListParams(r *http.Request) (listParams, error) {
	var limit, offset *int
	if err := runtime.BindQueryParameter("form", true, false, "limit", r.URL.Query(), &limit); err != nil {
		return listParams{}, fmt.Errorf("invalid format for parameter limit: %w", err)
	}
	if err := runtime.BindQueryParameter("form", true, false, "offset", r.URL.Query(), &offset); err != nil {
		return listParams{}, fmt.Errorf("invalid format for parameter offset: %w", err)
	}

	p := listParams{Limit: defaultPageSize}
	if limit != nil {
		if *limit < 1 || *limit > maxPageSize {
			return listParams{}, fmt.Errorf("limit must be between 1 and %d", maxPageSize)
		}
		p.Limit = *limit
	}
	if offset != nil {
		if *offset < 0 {
			return listParams{}, errors.New("offset must be >= 0")
		}
		p.Offset = *offset
	}
	return p, nil
}

func bindPatentNumber(r *http.Request) (string, error) {
	var number string
	err := runtime.BindStyledParameterWithOptions("simple", "number", chi.URLParam(r, "number"), &number,
		runtime.BindStyledParameterOptions{ParamLocation: runtime.ParamLocationPath, Explode: false, Required: true})
	if err != nil {
		return "", fmt.Errorf("invalid format for parameter number: %w", err)
	}
	return number, nil
}
