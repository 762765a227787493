package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/oreoflick/Non-Profit-Donation-and-Fund-Management-System/internal/models"
	"github.com/panjf2000/ants/v2"
	"github.com/shopspring/decimal"
)

// Drift is a project whose running total disagrees with its settled donations.
type Drift struct {
	ProjectID uint            `json:"project_id"`
	Recorded  decimal.Decimal `json:"recorded"`
	Settled   decimal.Decimal `json:"settled"`
}

// Reconcile compares every project's current_amount with the sum of its
// completed donations. It only reports; nothing is repaired.
func (s *Service) Reconcile(ctx context.Context, workers int) ([]Drift, error) {
	var ids []uint
	if err := s.db.WithContext(ctx).Model(&models.Project{}).Order("id").Pluck("id", &ids).Error; err != nil {
		return nil, fmt.Errorf("list projects: %w", err)
	}
	if len(ids) == 0 {
		return nil, nil
	}
	if workers <= 0 {
		workers = 1
	}

	pool, err := ants.NewPool(workers)
	if err != nil {
		return nil, fmt.Errorf("create reconcile pool: %w", err)
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		drifts   []Drift
		firstErr error
	)
	for _, id := range ids {
		id := id
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()
			d, err := s.checkProject(ctx, id)
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err != nil:
				if firstErr == nil {
					firstErr = err
				}
			case d != nil:
				drifts = append(drifts, *d)
			}
		})
		if err != nil {
			wg.Done()
			mu.Lock()
			if firstErr == nil {
				firstErr = fmt.Errorf("submit project %d: %w", id, err)
			}
			mu.Unlock()
		}
	}
	wg.Wait()

	if firstErr != nil {
		return nil, firstErr
	}
	sort.Slice(drifts, func(i, j int) bool { return drifts[i].ProjectID < drifts[j].ProjectID })
	return drifts, nil
}

// checkProject reads the total and the settled sum in one statement so both
// come from the same snapshot.
func (s *Service) checkProject(ctx context.Context, projectID uint) (*Drift, error) {
	var recorded, settled decimal.Decimal
	row := s.db.WithContext(ctx).Raw(`
		SELECT p.current_amount,
		       COALESCE((SELECT SUM(d.amount) FROM donations d
		                 WHERE d.project_id = p.id AND d.status = ?), 0)
		FROM projects p
		WHERE p.id = ?`, models.DonationCompleted, projectID).Row()
	if err := row.Scan(&recorded, &settled); err != nil {
		// deleted since the id list was read
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("check project %d: %w", projectID, err)
	}
	if recorded.Equal(settled) {
		return nil, nil
	}
	return &Drift{ProjectID: projectID, Recorded: recorded, Settled: settled}, nil
}
