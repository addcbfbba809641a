package usecase

import (
	"context"
	"sync"

	"AstroChart/internal/domain/models"
)

// BatchUsecase fans independent chart and transit requests out over a
// bounded worker pool. Items fail in isolation; one bad request never
// aborts its siblings.
type BatchUsecase struct {
	charts   *ChartUsecase
	transits *TransitUsecase
	workers  int
}

// NewBatchUsecase creates a batch usecase. workers bounds concurrent
// items.
func NewBatchUsecase(charts *ChartUsecase, transits *TransitUsecase, workers int) *BatchUsecase {
	if workers <= 0 {
		workers = 4
	}
	return &BatchUsecase{
		charts:   charts,
		transits: transits,
		workers:  workers,
	}
}

// Charts processes a chart batch, preserving input order.
func (u *BatchUsecase) Charts(ctx context.Context, req *models.NatalChartBatchRequest) *models.ChartBatchResponse {
	resp := &models.ChartBatchResponse{
		Results: make([]models.ChartBatchItem, len(req.Charts)),
		Summary: models.BatchSummary{Requested: len(req.Charts)},
	}

	u.fanOut(len(req.Charts), func(i int) {
		item := models.ChartBatchItem{Index: i}

		chart, err := u.charts.Calculate(ctx, &req.Charts[i])
		if err != nil {
			item.Error = &models.BatchItemError{
				Kind:    models.ErrorKind(err),
				Message: err.Error(),
			}
		} else {
			item.Chart = chart
		}
		resp.Results[i] = item
	})

	for _, item := range resp.Results {
		if item.Error != nil {
			resp.Summary.Failed++
		} else {
			resp.Summary.Succeeded++
		}
	}
	return resp
}

// Transits processes a transit batch, preserving input order.
func (u *BatchUsecase) Transits(ctx context.Context, req *models.TransitChartBatchRequest) *models.TransitBatchResponse {
	resp := &models.TransitBatchResponse{
		Results: make([]models.TransitBatchItem, len(req.Transits)),
		Summary: models.BatchSummary{Requested: len(req.Transits)},
	}

	u.fanOut(len(req.Transits), func(i int) {
		item := models.TransitBatchItem{Index: i}

		transit, err := u.transits.Calculate(ctx, &req.Transits[i])
		if err != nil {
			item.Error = &models.BatchItemError{
				Kind:    models.ErrorKind(err),
				Message: err.Error(),
			}
		} else {
			item.Transit = transit
		}
		resp.Results[i] = item
	})

	for _, item := range resp.Results {
		if item.Error != nil {
			resp.Summary.Failed++
		} else {
			resp.Summary.Succeeded++
		}
	}
	return resp
}

// fanOut runs fn for each index on at most workers goroutines. Each fn
// writes only to its own result slot.
func (u *BatchUsecase) fanOut(n int, fn func(i int)) {
	var wg sync.WaitGroup
	sem := make(chan struct{}, u.workers)

	for i := 0; i < n; i++ {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int) {
			defer wg.Done()
			defer func() { <-sem }()
			fn(i)
		}(i)
	}
	wg.Wait()
}
