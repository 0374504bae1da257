package postgres

import (
	"context"

	"github.com/frahmantamala/recruitment/internal/dashboard"
	"github.com/jmoiron/sqlx"
)

const (
	staffJobCountsQuery = `
		SELECT COUNT(*) AS total_jobs,
		       COALESCE(SUM(CASE WHEN is_active = ? THEN 1 ELSE 0 END), 0) AS active_jobs
		FROM jobs`

	staffApplicationCountsQuery = `
		SELECT COUNT(*) AS total_applications,
		       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS pending_applications,
		       COALESCE(SUM(CASE WHEN status = ? THEN 1 ELSE 0 END), 0) AS accepted_applications
		FROM applications`

	recentApplicationsQuery = `
		SELECT a.id, a.job_id, j.title AS job_title, a.user_id, u.username, u.full_name, a.status, a.created_at
		FROM applications a
		JOIN jobs j ON j.id = a.job_id
		JOIN users u ON u.id = a.user_id`
)

// DashboardRepository runs the aggregate queries on a plain sqlx pool.
type DashboardRepository struct {
	db *sqlx.DB
}

func NewDashboardRepository(db *sqlx.DB) dashboard.RepositoryAPI {
	return &DashboardRepository{db: db}
}

func (r *DashboardRepository) StaffCounts(ctx context.Context) (*dashboard.StaffStats, error) {
	var stats dashboard.StaffStats
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(staffJobCountsQuery), true).
		Scan(&stats.TotalJobs, &stats.ActiveJobs); err != nil {
		return nil, err
	}
	if err := r.db.QueryRowxContext(ctx, r.db.Rebind(staffApplicationCountsQuery), "PENDING", "ACCEPTED").
		Scan(&stats.TotalApplications, &stats.PendingApplications, &stats.AcceptedApplications); err != nil {
		return nil, err
	}
	return &stats, nil
}

func (r *DashboardRepository) ActiveJobCount(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM jobs WHERE is_active = ?`), true)
	return n, err
}

func (r *DashboardRepository) ApplicationCount(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM applications WHERE user_id = ?`), userID)
	return n, err
}

func (r *DashboardRepository) SavedJobCount(ctx context.Context, userID int64) (int64, error) {
	var n int64
	err := r.db.GetContext(ctx, &n, r.db.Rebind(`SELECT COUNT(*) FROM saved_jobs WHERE user_id = ?`), userID)
	return n, err
}

func (r *DashboardRepository) RecentApplications(ctx context.Context, userID *int64, limit int) ([]dashboard.RecentApplication, error) {
	query := recentApplicationsQuery
	var args []interface{}
	if userID != nil {
		query += ` WHERE a.user_id = ?`
		args = append(args, *userID)
	}
	query += ` ORDER BY a.created_at DESC, a.id DESC LIMIT ?`
	args = append(args, limit)

	var items []dashboard.RecentApplication
	if err := r.db.SelectContext(ctx, &items, r.db.Rebind(query), args...); err != nil {
		return nil, err
	}
	return items, nil
}
