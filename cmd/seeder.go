package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/frahmantamala/recruitment/internal/auth"
	applicationDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/application"
	bookmarkDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/bookmark"
	departmentDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/department"
	jobDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/job"
	userDatamodel "github.com/frahmantamala/recruitment/internal/core/datamodel/user"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
)

var (
	clearData bool
	seedFile  string
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with sample data",
	Long:  `Seed the database with sample data for development and testing purposes.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := LoadConfig(configPath)
		if err != nil {
			return err
		}
		lg := initLogger(cfg)

		fixtures, err := LoadSeedFile(seedFile)
		if err != nil {
			return err
		}

		db, err := initDB(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to init db: %w", err)
		}
		defer db.Close()

		gdb, err := initGorm(db)
		if err != nil {
			return fmt.Errorf("failed to init orm: %w", err)
		}

		result, err := Seed(cmd.Context(), gdb, fixtures, cfg.Security.BCryptCost, clearData)
		if err != nil {
			return err
		}

		lg.Info("seed complete",
			"users", result.Users,
			"departments", result.Departments,
			"jobs", result.Jobs)
		return nil
	},
}

type SeedFixtures struct {
	Users []struct {
		Username string  `yaml:"username"`
		Password string  `yaml:"password"`
		Role     string  `yaml:"role"`
		FullName *string `yaml:"full_name"`
		Email    *string `yaml:"email"`
		Position *string `yaml:"position"`
	} `yaml:"users"`
	Departments []struct {
		Name        string  `yaml:"name"`
		Description *string `yaml:"description"`
	} `yaml:"departments"`
	Jobs []struct {
		Title            string  `yaml:"title"`
		Department       string  `yaml:"department"`
		Location         *string `yaml:"location"`
		SalaryMin        *int64  `yaml:"salary_min"`
		SalaryMax        *int64  `yaml:"salary_max"`
		EmploymentType   string  `yaml:"employment_type"`
		Description      *string `yaml:"description"`
		Requirements     *string `yaml:"requirements"`
		Responsibilities *string `yaml:"responsibilities"`
		Benefits         *string `yaml:"benefits"`
		PostedBy         string  `yaml:"posted_by"`
	} `yaml:"jobs"`
}

// SeedResult counts rows inserted by this run; existing rows are left untouched.
type SeedResult struct {
	Users       int
	Departments int
	Jobs        int
}

func LoadSeedFile(path string) (*SeedFixtures, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}
	var fixtures SeedFixtures
	if err := yaml.Unmarshal(raw, &fixtures); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}
	return &fixtures, nil
}

// Seed inserts fixtures idempotently: users by username, departments by name, jobs by title.
func Seed(ctx context.Context, db *gorm.DB, fixtures *SeedFixtures, bcryptCost int, clear bool) (SeedResult, error) {
	var result SeedResult

	err := db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if clear {
			for _, model := range []interface{}{
				&bookmarkDatamodel.SavedJob{},
				&applicationDatamodel.Application{},
				&jobDatamodel.Job{},
				&departmentDatamodel.Department{},
				&userDatamodel.User{},
			} {
				if err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model).Error; err != nil {
					return fmt.Errorf("failed to clear data: %w", err)
				}
			}
		}

		userIDs := make(map[string]int64, len(fixtures.Users))
		for _, f := range fixtures.Users {
			var existing userDatamodel.User
			err := tx.Where("username = ?", f.Username).First(&existing).Error
			if err == nil {
				userIDs[f.Username] = existing.ID
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			hash, err := auth.HashPassword(f.Password, bcryptCost)
			if err != nil {
				return fmt.Errorf("failed to hash password for %s: %w", f.Username, err)
			}
			u := &userDatamodel.User{
				Username:     f.Username,
				PasswordHash: hash,
				Role:         f.Role,
				FullName:     f.FullName,
				Email:        f.Email,
				Position:     f.Position,
				IsActive:     true,
			}
			if err := tx.Create(u).Error; err != nil {
				return fmt.Errorf("failed to insert user %s: %w", f.Username, err)
			}
			userIDs[f.Username] = u.ID
			result.Users++
		}

		departmentIDs := make(map[string]int64, len(fixtures.Departments))
		for _, f := range fixtures.Departments {
			var existing departmentDatamodel.Department
			err := tx.Where("name = ?", f.Name).First(&existing).Error
			if err == nil {
				departmentIDs[f.Name] = existing.ID
				continue
			}
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}

			d := &departmentDatamodel.Department{Name: f.Name, Description: f.Description, IsActive: true}
			if err := tx.Create(d).Error; err != nil {
				return fmt.Errorf("failed to insert department %s: %w", f.Name, err)
			}
			departmentIDs[f.Name] = d.ID
			result.Departments++
		}

		for _, f := range fixtures.Jobs {
			poster, ok := userIDs[f.PostedBy]
			if !ok {
				return fmt.Errorf("job %q: unknown poster %q", f.Title, f.PostedBy)
			}

			var count int64
			if err := tx.Model(&jobDatamodel.Job{}).Where("title = ?", f.Title).Count(&count).Error; err != nil {
				return err
			}
			if count > 0 {
				continue
			}

			j := &jobDatamodel.Job{
				Title:            f.Title,
				Location:         f.Location,
				SalaryMin:        f.SalaryMin,
				SalaryMax:        f.SalaryMax,
				EmploymentType:   f.EmploymentType,
				Description:      f.Description,
				Requirements:     f.Requirements,
				Responsibilities: f.Responsibilities,
				Benefits:         f.Benefits,
				PostedBy:         poster,
				IsActive:         true,
			}
			if id, ok := departmentIDs[f.Department]; ok {
				j.DepartmentID = &id
			}
			if err := tx.Create(j).Error; err != nil {
				return fmt.Errorf("failed to insert job %s: %w", f.Title, err)
			}
			result.Jobs++
		}
		return nil
	})

	return result, err
}

func init() {
	seedCmd.Flags().BoolVar(&clearData, "clear", false, "Clear existing data before seeding")
	seedCmd.Flags().StringVarP(&seedFile, "file", "f", "db/seed.yml", "seed fixtures file")
}
