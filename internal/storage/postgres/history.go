package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgtype"

	"github.com/polkiloo/storefront/internal/domain/model"
)

type historyRepository struct {
	db querier
}

func (r *historyRepository) Append(ctx context.Context, entry *model.StatusHistoryEntry) error {
	const query = `INSERT INTO order_status_history
                       (order_id, previous_status, new_status, note, created_by_id, created_by_role, created_at)
                   VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	var previous any
	if entry.PreviousStatus != nil {
		previous = string(*entry.PreviousStatus)
	}
	err := r.db.QueryRow(ctx, query,
		entry.OrderID, previous, string(entry.NewStatus), entry.Note,
		entry.CreatedByID, string(entry.CreatedByRole), entry.CreatedAt,
	).Scan(&entry.ID)
	return mapError(err)
}

func (r *historyRepository) ListByOrder(ctx context.Context, orderID int64) ([]model.StatusHistoryEntry, error) {
	const query = `SELECT h.id, h.order_id, h.previous_status, h.new_status, h.note,
                          h.created_by_id, u.login, h.created_by_role, h.created_at
                   FROM order_status_history h JOIN users u ON u.id = h.created_by_id
                   WHERE h.order_id=$1
                   ORDER BY h.created_at DESC, h.id DESC`
	rows, err := r.db.Query(ctx, query, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []model.StatusHistoryEntry
	for rows.Next() {
		var (
			e        model.StatusHistoryEntry
			previous pgtype.Text
		)
		if err := rows.Scan(&e.ID, &e.OrderID, &previous, &e.NewStatus, &e.Note,
			&e.CreatedByID, &e.CreatedByLogin, &e.CreatedByRole, &e.CreatedAt); err != nil {
			return nil, err
		}
		if previous.Valid {
			status := model.OrderStatus(previous.String)
			e.PreviousStatus = &status
		}
		result = append(result, e)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
