package datamodel

import (
	"errors"

	applicationDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/application"
	bookmarkDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/bookmark"
	departmentDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/department"
	jobDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/job"
	userDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/user"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

const pgUniqueViolation = "23505"

// Models lists every persisted model in dependency order.
func Models() []interface{} {
	return []interface{}{
		&userDatamodel.User{},
		&departmentDatamodel.Department{},
		&jobDatamodel.Job{},
		&applicationDatamodel.Application{},
		&bookmarkDatamodel.SavedJob{},
	}
}

// IsUniqueViolation reports whether err comes from a unique constraint.
// gorm translates it when TranslateError is enabled; raw pgx errors are checked as well.
func IsUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation
}
